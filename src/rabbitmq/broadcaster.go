package rabbitmq

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Broadcaster decouples event publishing from the coordinator's critical
// section. Events are handed to a buffered channel and published by a
// single worker goroutine; delivery is at-most-once and best-effort.
// A slow or failing broker never blocks or fails a state transition:
// publish errors are logged and dropped, and when the buffer is full the
// event is dropped instead of blocking the caller.
type Broadcaster struct {
	publisher Publisher
	events    chan event
	done      chan struct{}
	closeOnce sync.Once
}

type event struct {
	exchange string
	body     []byte
}

const eventBufferSize = 256

// NewBroadcaster starts the worker goroutine and returns the broadcaster.
func NewBroadcaster(publisher Publisher) *Broadcaster {
	b := &Broadcaster{
		publisher: publisher,
		events:    make(chan event, eventBufferSize),
		done:      make(chan struct{}),
	}
	go b.run()
	return b
}

// Broadcast marshals payload as JSON and queues it for publishing on the
// given exchange. It never blocks and never returns an error to the
// caller.
func (b *Broadcaster) Broadcast(exchange string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal event payload", "exchange", exchange, "error", err)
		return
	}

	select {
	case b.events <- event{exchange: exchange, body: body}:
	default:
		slog.Warn("Event buffer full, dropping event", "exchange", exchange)
	}
}

// Close stops the worker after draining queued events.
func (b *Broadcaster) Close() {
	b.closeOnce.Do(func() {
		close(b.events)
		<-b.done
	})
}

func (b *Broadcaster) run() {
	defer close(b.done)
	for e := range b.events {
		if err := b.publisher.Publish(e.exchange, e.body); err != nil {
			// At-most-once: no retry.
			slog.Error("Failed to publish event", "exchange", e.exchange, "error", err)
		}
	}
}
