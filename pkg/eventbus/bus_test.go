package eventbus

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Send(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestBusFansOutToEverySink(t *testing.T) {
	b := New(8)
	first, second := &recorder{}, &recorder{}
	b.Attach("first", first)
	b.Attach("failing", SinkFunc(func(Event) error { return fmt.Errorf("offline") }))
	b.Attach("second", second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = b.Run(ctx)
		close(done)
	}()

	b.Publish(VIPActivated, map[string]int64{"user": 1})
	b.Publish(AnimeCreated, nil)

	assert.Eventually(t, func() bool { return first.len() == 2 && second.len() == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	require.Len(t, first.events, 2)
	assert.Equal(t, VIPActivated, first.events[0].Type)
	assert.NotEmpty(t, first.events[0].ID)
	assert.NotEqual(t, first.events[0].ID, first.events[1].ID)
}

func TestBusDropsWhenFull(t *testing.T) {
	b := New(1)
	rec := &recorder{}
	b.Attach("rec", rec)

	b.Publish("a", nil)
	b.Publish("b", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, b.Run(ctx))
	require.Equal(t, 1, rec.len())
	assert.Equal(t, "a", rec.events[0].Type)
}
