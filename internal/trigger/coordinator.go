package trigger

import (
	"context"
	"log"
	"sync"

	"github.com/chronoflow/chronod/internal/models"
)

// fireState tracks an event through its delivery lifecycle. fired is
// terminal for this process; a restarted process starts empty and relies on
// the store's triggered flag instead.
type fireState int

const (
	statePending fireState = iota
	stateFiring
	stateFired
)

// Notification is what a Notifier shows for a due event.
type Notification struct {
	Title   string
	Body    string
	Tag     string
	Special bool
}

// Notifier shows a system notification. Fire-and-forget; a failure is a
// delivery problem, not a reason to retry the event.
type Notifier interface {
	Notify(n Notification) error
}

// Sounder plays the audible alert for a sound type. In the watcher this
// forwards over the bridge; in the agent it plays locally.
type Sounder interface {
	PlaySound(sound models.SoundType, special bool) error
}

// Marker records delivery in the remote store.
type Marker interface {
	MarkTriggered(ctx context.Context, eventID string) error
}

// Coordinator delivers due events at most once per process lifetime. The
// local fired memory advances the moment delivery starts, before the store
// round-trip, so back-to-back ticks cannot re-fire an event. Another
// process polling inside the same window can still observe triggered=false
// and deliver its own copy; that bounded duplicate risk is accepted rather
// than coordinating across processes.
type Coordinator struct {
	mu     sync.Mutex
	states map[string]fireState

	notifier Notifier
	sounder  Sounder
	store    Marker
}

// New creates a Coordinator. notifier or sounder may be nil when the
// hosting context lacks that capability; affected deliveries are logged
// and skipped.
func New(notifier Notifier, sounder Sounder, store Marker) *Coordinator {
	return &Coordinator{
		states:   make(map[string]fireState),
		notifier: notifier,
		sounder:  sounder,
		store:    store,
	}
}

// Fire delivers one due event according to its reminder mode and marks it
// triggered. Safe to call again for the same event id; repeats are no-ops.
func (c *Coordinator) Fire(ctx context.Context, event models.Event) {
	if !c.begin(event.ID) {
		return
	}

	c.deliver(event)

	// Remote mark is fire-and-forget: the local state already blocks
	// re-delivery here, and the next fetch reflects whatever the store
	// recorded.
	if err := c.store.MarkTriggered(ctx, event.ID); err != nil {
		log.Printf("Failed to mark event %q triggered: %v", event.ID, err)
	}

	c.finish(event.ID)
}

// Fired reports whether delivery has already happened for the event id in
// this process.
func (c *Coordinator) Fired(eventID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[eventID] == stateFired
}

func (c *Coordinator) deliver(event models.Event) {
	mode := event.Mode()

	if mode == models.ReminderPopup || mode == models.ReminderBoth {
		if c.notifier == nil {
			log.Printf("No notifier available, skipping popup for event %q", event.ID)
		} else {
			body := event.Description
			if body == "" {
				body = "Event reminder"
			}
			err := c.notifier.Notify(Notification{
				Title:   event.Title,
				Body:    body,
				Tag:     event.ID,
				Special: event.Special(),
			})
			if err != nil {
				log.Printf("Failed to show notification for event %q: %v", event.ID, err)
			}
		}
	}

	if mode == models.ReminderSound || mode == models.ReminderBoth {
		if c.sounder == nil {
			log.Printf("No sound output available, skipping sound for event %q", event.ID)
		} else if err := c.sounder.PlaySound(event.SoundType, event.Special()); err != nil {
			log.Printf("Failed to play sound for event %q: %v", event.ID, err)
		}
	}
}

// begin transitions pending -> firing. Returns false if a firing is already
// in flight or the event has fired.
func (c *Coordinator) begin(eventID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.states[eventID] != statePending {
		return false
	}
	c.states[eventID] = stateFiring
	return true
}

func (c *Coordinator) finish(eventID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[eventID] = stateFired
}
