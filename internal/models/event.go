package models

import (
	"errors"
	"fmt"
	"time"
)

// ReminderMode selects which delivery channels an event uses.
type ReminderMode string

const (
	ReminderNone  ReminderMode = "none"
	ReminderPopup ReminderMode = "popup"
	ReminderSound ReminderMode = "sound"
	ReminderBoth  ReminderMode = "both"
)

// SoundType selects the tone sequence played for an audible reminder.
type SoundType string

const (
	SoundBeep  SoundType = "beep"
	SoundChime SoundType = "chime"
	SoundBell  SoundType = "bell"
)

// CategoryBirthday is the one category the UI celebrates differently; the
// bridge forwards it so agents can tell.
const CategoryBirthday = "birthday"

// ErrBadTimestamp marks events whose date/time fields cannot be parsed.
var ErrBadTimestamp = errors.New("malformed event date/time")

// Event is the store's event document. The authoritative copy lives in the
// remote store; this is a read-only snapshot except for Triggered, which the
// coordinator flips locally the moment delivery happens.
type Event struct {
	ID          string       `json:"_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Date        string       `json:"date"` // calendar date, 2006-01-02
	Time        string       `json:"time"` // local time of day, 15:04 or 15:04:05
	Category    string       `json:"category"`
	Reminder    ReminderMode `json:"reminder"`
	SoundType   SoundType    `json:"soundType"`
	Triggered   bool         `json:"triggered"`
}

var dueLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04"}

// DueAt combines the event's date and time-of-day into a wall-clock instant
// in the local timezone. The store carries no timezone offset.
func (e Event) DueAt() (time.Time, error) {
	stamp := e.Date + "T" + e.Time
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, stamp)
}

// Mode returns the event's reminder mode, treating unknown or missing
// values as none.
func (e Event) Mode() ReminderMode {
	switch e.Reminder {
	case ReminderPopup, ReminderSound, ReminderBoth:
		return e.Reminder
	default:
		return ReminderNone
	}
}

// Special reports whether the event is in the birthday category.
func (e Event) Special() bool {
	return e.Category == CategoryBirthday
}
