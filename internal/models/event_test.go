package models

import (
	"errors"
	"testing"
	"time"
)

func TestDueAt(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		time    string
		want    time.Time
		wantErr bool
	}{
		{
			name: "full time with seconds",
			date: "2024-03-01",
			time: "09:00:00",
			want: time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local),
		},
		{
			name: "minute precision",
			date: "2024-03-01",
			time: "09:00",
			want: time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local),
		},
		{
			name:    "empty fields",
			date:    "",
			time:    "",
			wantErr: true,
		},
		{
			name:    "garbage date",
			date:    "not-a-date",
			time:    "09:00:00",
			wantErr: true,
		},
		{
			name:    "garbage time",
			date:    "2024-03-01",
			time:    "morning",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := Event{ID: "e1", Date: tt.date, Time: tt.time}
			got, err := event.DueAt()

			if tt.wantErr {
				if err == nil {
					t.Fatalf("DueAt(%q, %q) expected error, got %v", tt.date, tt.time, got)
				}
				if !errors.Is(err, ErrBadTimestamp) {
					t.Errorf("DueAt error = %v, want ErrBadTimestamp", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("DueAt(%q, %q) unexpected error: %v", tt.date, tt.time, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("DueAt = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMode(t *testing.T) {
	tests := []struct {
		reminder ReminderMode
		want     ReminderMode
	}{
		{ReminderPopup, ReminderPopup},
		{ReminderSound, ReminderSound},
		{ReminderBoth, ReminderBoth},
		{ReminderNone, ReminderNone},
		{"", ReminderNone},
		{"shout", ReminderNone},
	}

	for _, tt := range tests {
		event := Event{Reminder: tt.reminder}
		if got := event.Mode(); got != tt.want {
			t.Errorf("Mode(%q) = %q, want %q", tt.reminder, got, tt.want)
		}
	}
}

func TestSpecial(t *testing.T) {
	if !(Event{Category: CategoryBirthday}).Special() {
		t.Error("birthday events should be special")
	}
	if (Event{Category: "work"}).Special() {
		t.Error("work events should not be special")
	}
}
