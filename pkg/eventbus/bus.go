// Package eventbus fans domain events (VIP activations, new anime, broadcasts) out to
// the MQTT broker and the dashboard websocket feed.
package eventbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/google/uuid"
)

// Event types
const (
	VIPRequested     = "vip.requested"
	VIPActivated     = "vip.activated"
	VIPRejected      = "vip.rejected"
	VIPDemoted       = "vip.demoted"
	AnimeCreated     = "anime.created"
	AnimeDeleted     = "anime.deleted"
	EpisodeCreated   = "episode.created"
	BroadcastDone    = "broadcast.finished"
	MaintenanceState = "settings.maintenance"
)

// Event is one published fact
type Event struct {
	ID      string      `json:"id"`
	Type    string      `json:"type"`
	At      time.Time   `json:"at"`
	Payload interface{} `json:"payload,omitempty"`
}

// Publisher is what the rest of the bot depends on
type Publisher interface {
	Publish(eventType string, payload interface{})
}

// Sink receives every event published on a Bus
type Sink interface {
	Send(Event) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(Event) error

func (f SinkFunc) Send(e Event) error { return f(e) }

// Nop discards events
type Nop struct{}

func (Nop) Publish(string, interface{}) {}

// Bus queues events and delivers them to its sinks from Run
type Bus struct {
	mu    sync.RWMutex
	sinks []namedSink
	queue chan Event
	now   func() time.Time
}

type namedSink struct {
	name string
	sink Sink
}

// New creates a Bus with room for buffer pending events
func New(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 256
	}
	return &Bus{
		queue: make(chan Event, buffer),
		now:   time.Now,
	}
}

// Attach adds a sink. name shows up in logs when delivery fails.
func (b *Bus) Attach(name string, s Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, namedSink{name: name, sink: s})
}

// Publish enqueues an event. When the queue is full the event is dropped.
func (b *Bus) Publish(eventType string, payload interface{}) {
	e := Event{
		ID:      uuid.NewString(),
		Type:    eventType,
		At:      b.now(),
		Payload: payload,
	}
	select {
	case b.queue <- e:
	default:
		logger.Warn(fmt.Sprintf("Cola de eventos llena, descartando %s", eventType), "EventBus")
	}
}

// Run delivers queued events until ctx is done
func (b *Bus) Run(ctx context.Context) error {
	defer errors.RecoverMiddleware("eventbus")()
	for {
		select {
		case <-ctx.Done():
			b.drain()
			return nil
		case e := <-b.queue:
			b.deliver(e)
		}
	}
}

func (b *Bus) drain() {
	for {
		select {
		case e := <-b.queue:
			b.deliver(e)
		default:
			return
		}
	}
}

func (b *Bus) deliver(e Event) {
	b.mu.RLock()
	sinks := b.sinks
	b.mu.RUnlock()

	for _, s := range sinks {
		if err := s.sink.Send(e); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo entregar %s a %s: %v", e.Type, s.name, err), "EventBus")
		}
	}
}
