package trigger

import (
	"context"
	"errors"
	"testing"

	"github.com/chronoflow/chronod/internal/models"
)

type fakeNotifier struct {
	notes []Notification
	err   error
}

func (f *fakeNotifier) Notify(n Notification) error {
	f.notes = append(f.notes, n)
	return f.err
}

type fakeSounder struct {
	sounds []models.SoundType
	err    error
}

func (f *fakeSounder) PlaySound(sound models.SoundType, special bool) error {
	f.sounds = append(f.sounds, sound)
	return f.err
}

type fakeMarker struct {
	marked []string
	err    error
}

func (f *fakeMarker) MarkTriggered(ctx context.Context, eventID string) error {
	f.marked = append(f.marked, eventID)
	return f.err
}

func testEvent(reminder models.ReminderMode) models.Event {
	return models.Event{
		ID:          "e1",
		Title:       "Standup",
		Description: "Daily standup",
		Reminder:    reminder,
		SoundType:   models.SoundBeep,
	}
}

func TestFireDeliveryPolicy(t *testing.T) {
	tests := []struct {
		name       string
		reminder   models.ReminderMode
		wantNotes  int
		wantSounds int
	}{
		{"popup only", models.ReminderPopup, 1, 0},
		{"sound only", models.ReminderSound, 0, 1},
		{"both channels", models.ReminderBoth, 1, 1},
		{"none", models.ReminderNone, 0, 0},
		{"unknown treated as none", "shout", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &fakeNotifier{}
			sounder := &fakeSounder{}
			marker := &fakeMarker{}
			coordinator := New(notifier, sounder, marker)

			coordinator.Fire(context.Background(), testEvent(tt.reminder))

			if len(notifier.notes) != tt.wantNotes {
				t.Errorf("got %d notifications, want %d", len(notifier.notes), tt.wantNotes)
			}
			if len(sounder.sounds) != tt.wantSounds {
				t.Errorf("got %d sounds, want %d", len(sounder.sounds), tt.wantSounds)
			}

			// Every mode marks triggered, including none.
			if len(marker.marked) != 1 || marker.marked[0] != "e1" {
				t.Errorf("got marks %v, want [e1]", marker.marked)
			}
			if !coordinator.Fired("e1") {
				t.Error("event should be fired after delivery")
			}
		})
	}
}

func TestFireAtMostOncePerProcess(t *testing.T) {
	notifier := &fakeNotifier{}
	sounder := &fakeSounder{}
	marker := &fakeMarker{}
	coordinator := New(notifier, sounder, marker)

	event := testEvent(models.ReminderBoth)
	coordinator.Fire(context.Background(), event)
	coordinator.Fire(context.Background(), event)
	coordinator.Fire(context.Background(), event)

	if len(notifier.notes) != 1 {
		t.Errorf("got %d notifications, want 1", len(notifier.notes))
	}
	if len(sounder.sounds) != 1 {
		t.Errorf("got %d sounds, want 1", len(sounder.sounds))
	}
	if len(marker.marked) != 1 {
		t.Errorf("got %d marks, want 1", len(marker.marked))
	}
}

func TestFireSurvivesMarkFailure(t *testing.T) {
	notifier := &fakeNotifier{}
	marker := &fakeMarker{err: errors.New("store unreachable")}
	coordinator := New(notifier, &fakeSounder{}, marker)

	event := testEvent(models.ReminderPopup)
	coordinator.Fire(context.Background(), event)

	if !coordinator.Fired("e1") {
		t.Error("event should be fired even when the remote mark fails")
	}

	// The local memory still blocks a re-fire.
	coordinator.Fire(context.Background(), event)
	if len(notifier.notes) != 1 {
		t.Errorf("got %d notifications after mark failure, want 1", len(notifier.notes))
	}
}

func TestFireSurvivesDeliveryFailure(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("permission denied")}
	sounder := &fakeSounder{err: errors.New("no output device")}
	marker := &fakeMarker{}
	coordinator := New(notifier, sounder, marker)

	coordinator.Fire(context.Background(), testEvent(models.ReminderBoth))

	if len(marker.marked) != 1 {
		t.Errorf("got %d marks, want 1; delivery failure must not block the mark", len(marker.marked))
	}
	if !coordinator.Fired("e1") {
		t.Error("event should be fired despite delivery errors")
	}
}

func TestFireWithoutSurfaces(t *testing.T) {
	marker := &fakeMarker{}
	coordinator := New(nil, nil, marker)

	coordinator.Fire(context.Background(), testEvent(models.ReminderBoth))

	if len(marker.marked) != 1 {
		t.Errorf("got %d marks, want 1", len(marker.marked))
	}
	if !coordinator.Fired("e1") {
		t.Error("event should be fired even with no delivery surfaces")
	}
}

func TestNotificationContent(t *testing.T) {
	notifier := &fakeNotifier{}
	coordinator := New(notifier, &fakeSounder{}, &fakeMarker{})

	event := testEvent(models.ReminderPopup)
	event.Category = models.CategoryBirthday
	coordinator.Fire(context.Background(), event)

	if len(notifier.notes) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifier.notes))
	}
	note := notifier.notes[0]
	if note.Title != "Standup" {
		t.Errorf("title = %q, want %q", note.Title, "Standup")
	}
	if note.Body != "Daily standup" {
		t.Errorf("body = %q, want %q", note.Body, "Daily standup")
	}
	if note.Tag != "e1" {
		t.Errorf("tag = %q, want %q", note.Tag, "e1")
	}
	if !note.Special {
		t.Error("birthday events should carry the special flag")
	}
}

func TestNotificationBodyFallback(t *testing.T) {
	notifier := &fakeNotifier{}
	coordinator := New(notifier, &fakeSounder{}, &fakeMarker{})

	event := testEvent(models.ReminderPopup)
	event.Description = ""
	coordinator.Fire(context.Background(), event)

	if len(notifier.notes) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifier.notes))
	}
	if notifier.notes[0].Body != "Event reminder" {
		t.Errorf("body = %q, want fallback %q", notifier.notes[0].Body, "Event reminder")
	}
}
