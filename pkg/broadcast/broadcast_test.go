package broadcast

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/eventbus"
	"github.com/PancyStudios/AnimeBotGo/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu      sync.Mutex
	calls   map[int64]int
	results map[int64][]error
}

func newFakeSender() *fakeSender {
	return &fakeSender{calls: map[int64]int{}, results: map[int64][]error{}}
}

func (s *fakeSender) Copy(_ context.Context, to, _ int64, _ int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.calls[to]
	s.calls[to]++
	if res := s.results[to]; n < len(res) {
		return res[n]
	}
	return nil
}

type recordingPublisher struct {
	types []string
	last  interface{}
}

func (p *recordingPublisher) Publish(eventType string, payload interface{}) {
	p.types = append(p.types, eventType)
	p.last = payload
}

func newTestRunner(s Sender, opts ...Option) (*Runner, *[]time.Duration) {
	r := NewRunner(s, 1000, opts...)
	var slept []time.Duration
	r.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return r, &slept
}

func TestRunCountsOutcomes(t *testing.T) {
	s := newFakeSender()
	s.results[2] = []error{ErrBlocked}
	s.results[3] = []error{stderrors.New("boom")}

	pub := &recordingPublisher{}
	r, _ := newTestRunner(s, WithEvents(pub), WithMetrics(metrics.NewCollector()))

	report, err := r.Run(context.Background(), []int64{1, 2, 3, 4}, 99, 7, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Sent)
	assert.Equal(t, 1, report.Blocked)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []string{eventbus.BroadcastDone}, pub.types)
}

func TestFloodIsRetriedOnceAfterWait(t *testing.T) {
	s := newFakeSender()
	s.results[1] = []error{&FloodError{RetryAfter: 3 * time.Second}}
	s.results[2] = []error{&FloodError{RetryAfter: 2 * time.Second}, &FloodError{RetryAfter: time.Second}}

	r, slept := newTestRunner(s)
	report, err := r.Run(context.Background(), []int64{1, 2}, 99, 7, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []time.Duration{3 * time.Second, 2 * time.Second}, *slept)
	assert.Equal(t, 2, s.calls[1])
	assert.Equal(t, 2, s.calls[2])
}

func TestFloodWaitIsCapped(t *testing.T) {
	s := newFakeSender()
	s.results[1] = []error{&FloodError{RetryAfter: time.Hour}}

	r, slept := newTestRunner(s, WithMaxWait(5*time.Second))
	_, err := r.Run(context.Background(), []int64{1}, 99, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{5 * time.Second}, *slept)
}

func TestProgressEveryFifty(t *testing.T) {
	recipients := make([]int64, 120)
	for i := range recipients {
		recipients[i] = int64(i + 1)
	}

	var seen []int
	r, _ := newTestRunner(newFakeSender())
	_, err := r.Run(context.Background(), recipients, 99, 7, func(rep Report) {
		seen = append(seen, rep.Done())
	})
	require.NoError(t, err)
	assert.Equal(t, []int{50, 100}, seen)
}

func TestCancelledRunStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newFakeSender()
	r, _ := newTestRunner(s)
	report, err := r.Run(ctx, []int64{1, 2, 3}, 99, 7, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, report.Done())
	assert.Empty(t, s.calls)
}

func TestTexts(t *testing.T) {
	rep := Report{Total: 10, Sent: 7, Blocked: 2, Failed: 1}
	assert.Contains(t, ProgressText(rep), "(10/10)")
	assert.Contains(t, SummaryText(rep), "Jami: 10")
}
