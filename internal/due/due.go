// Package due decides which events have newly become due. Compute is a pure
// function of the event snapshot and the clock, so both execution contexts
// reach the same verdict for the same inputs.
package due

import (
	"log"
	"time"

	"github.com/chronoflow/chronod/internal/models"
)

// Window is how far in the past an event may have become due and still be
// delivered. It matches the poll interval: every event gets examined on the
// tick right after its instant passes. Anything older is treated as missed;
// there is no catch-up queue.
const Window = 60 * time.Second

// Compute returns the events that became due within (now-Window, now] and
// have not been marked triggered. Events with unparseable timestamps are
// skipped, never fatal.
func Compute(events []models.Event, now time.Time) []models.Event {
	var dueEvents []models.Event

	for _, event := range events {
		if event.Triggered {
			continue
		}

		at, err := event.DueAt()
		if err != nil {
			log.Printf("Skipping event %q: %v", event.ID, err)
			continue
		}

		delta := at.Sub(now)
		if delta > -Window && delta <= 0 {
			dueEvents = append(dueEvents, event)
		}
	}

	return dueEvents
}
