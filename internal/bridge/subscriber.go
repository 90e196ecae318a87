package bridge

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/coder/websocket"
)

const reconnectDelay = 5 * time.Second

// Subscriber keeps a connection to the watcher's hub and hands every
// decoded message to its handler. Connection loss is routine (the watcher
// may not be running); the subscriber just retries.
type Subscriber struct {
	url     string
	handler func(Message)
}

// NewSubscriber creates a subscriber for the given ws:// URL.
func NewSubscriber(url string, handler func(Message)) *Subscriber {
	return &Subscriber{url: url, handler: handler}
}

// Run dials the hub and processes messages until ctx is cancelled,
// reconnecting after failures.
func (s *Subscriber) Run(ctx context.Context) {
	for {
		if err := s.listen(ctx); err != nil && ctx.Err() == nil {
			log.Printf("Bridge connection lost: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (s *Subscriber) listen(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, s.url, nil)
	if err != nil {
		return err
	}
	defer conn.CloseNow()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Ignoring malformed bridge message: %v", err)
			continue
		}

		s.handler(msg)
	}
}
