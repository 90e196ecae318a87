package bridge

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/chronoflow/chronod/internal/models"
)

// subscriberBuffer bounds how many undelivered messages a slow agent may
// queue before further ones are dropped for it.
const subscriberBuffer = 8

// Hub fans messages out to connected agents over WebSocket. Delivery is
// best-effort: Broadcast never blocks and never fails.
type Hub struct {
	mu   sync.Mutex
	subs map[string]chan Message
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]chan Message)}
}

// Broadcast sends msg to every connected subscriber and reports how many
// received it. Zero receivers just means the message is dropped.
func (h *Hub) Broadcast(msg Message) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for id, ch := range h.subs {
		select {
		case ch <- msg:
			delivered++
		default:
			log.Printf("Subscriber %s is not keeping up, dropping message", id)
		}
	}
	return delivered
}

// PlaySound broadcasts a play-sound message. Satisfies the coordinator's
// Sounder so the watcher can treat the bridge as its audio output.
func (h *Hub) PlaySound(sound models.SoundType, special bool) error {
	if h.Broadcast(PlaySound(sound, special)) == 0 {
		log.Printf("No agents connected, dropping play-sound (%s)", sound)
	}
	return nil
}

// Subscribers returns the number of connected agents.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Handler accepts agent WebSocket connections and streams broadcasts to
// them until they disconnect.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			log.Printf("Failed to accept bridge connection: %v", err)
			return
		}

		id, ch := h.subscribe()
		defer h.unsubscribe(id)
		defer conn.CloseNow()

		// Agents never send application data; CloseRead surfaces their
		// disconnect as context cancellation.
		ctx := conn.CloseRead(r.Context())

		log.Printf("Agent %s connected to bridge", id)
		h.stream(ctx, conn, ch)
		log.Printf("Agent %s disconnected from bridge", id)
	})
}

func (h *Hub) stream(ctx context.Context, conn *websocket.Conn, ch <-chan Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-ch:
			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("Failed to encode bridge message: %v", err)
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
	}
}

func (h *Hub) subscribe() (string, chan Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.New().String()
	ch := make(chan Message, subscriberBuffer)
	h.subs[id] = ch
	return id, ch
}

func (h *Hub) unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
}
