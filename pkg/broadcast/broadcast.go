// Package broadcast copies one stored message to many recipients at a steady pace.
package broadcast

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/eventbus"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/metrics"
	"golang.org/x/time/rate"
)

// ErrBlocked marks a recipient that blocked the bot or no longer exists
var ErrBlocked = errors.New("recipient unreachable")

// FloodError asks the caller to wait before the next request
type FloodError struct {
	RetryAfter time.Duration
}

func (e *FloodError) Error() string {
	return fmt.Sprintf("flood control, retry after %s", e.RetryAfter)
}

// Sender copies message messageID of chat fromChat to recipient to
type Sender interface {
	Copy(ctx context.Context, to, fromChat int64, messageID int) error
}

// Report counts the outcome of a run
type Report struct {
	Total   int           `json:"total"`
	Sent    int           `json:"sent"`
	Blocked int           `json:"blocked"`
	Failed  int           `json:"failed"`
	Took    time.Duration `json:"took"`
}

// Done is how many recipients were attempted
func (r Report) Done() int {
	return r.Sent + r.Blocked + r.Failed
}

// ProgressFunc is called every ProgressEvery recipients
type ProgressFunc func(Report)

// ProgressEvery is the recipient interval between progress callbacks
const ProgressEvery = 50

// Runner delivers broadcasts
type Runner struct {
	sender  Sender
	limiter *rate.Limiter
	maxWait time.Duration
	events  eventbus.Publisher
	metrics *metrics.Collector
	sleep   func(ctx context.Context, d time.Duration) error
}

// Option configures a Runner
type Option func(*Runner)

// WithEvents publishes a summary event when a run ends
func WithEvents(p eventbus.Publisher) Option {
	return func(r *Runner) { r.events = p }
}

func WithMetrics(c *metrics.Collector) Option {
	return func(r *Runner) { r.metrics = c }
}

// WithMaxWait caps how long a single flood wait may last
func WithMaxWait(d time.Duration) Option {
	return func(r *Runner) { r.maxWait = d }
}

// NewRunner creates a Runner sending at most perSecond messages per second
func NewRunner(sender Sender, perSecond float64, opts ...Option) *Runner {
	if perSecond <= 0 {
		perSecond = 20
	}
	r := &Runner{
		sender:  sender,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		maxWait: time.Minute,
		events:  eventbus.Nop{},
		sleep:   sleepCtx,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run copies the message to every recipient. A recipient that hits flood control is
// retried once after the requested wait. Cancelling ctx stops the run and returns the
// partial report with ctx's error.
func (r *Runner) Run(ctx context.Context, recipients []int64, fromChat int64, messageID int, progress ProgressFunc) (Report, error) {
	start := time.Now()
	report := Report{Total: len(recipients)}
	logger.Info(fmt.Sprintf("Broadcast iniciado para %d usuarios", report.Total), "Broadcast")

	var runErr error
	for i, to := range recipients {
		if err := r.limiter.Wait(ctx); err != nil {
			runErr = err
			break
		}

		switch err := r.deliver(ctx, to, fromChat, messageID); {
		case err == nil:
			report.Sent++
			r.metrics.RecordBroadcast("sent")
		case errors.Is(err, ErrBlocked):
			report.Blocked++
			r.metrics.RecordBroadcast("blocked")
		case ctx.Err() != nil:
			runErr = ctx.Err()
		default:
			report.Failed++
			r.metrics.RecordBroadcast("failed")
			logger.Warn(fmt.Sprintf("Broadcast a %d falló: %v", to, err), "Broadcast")
		}
		if runErr != nil {
			break
		}

		if progress != nil && (i+1)%ProgressEvery == 0 {
			progress(report)
		}
	}

	report.Took = time.Since(start)
	r.events.Publish(eventbus.BroadcastDone, report)
	logger.Success(fmt.Sprintf("Broadcast terminado: %d enviados, %d bloqueados, %d errores (%s)",
		report.Sent, report.Blocked, report.Failed, report.Took.Round(time.Millisecond)), "Broadcast")
	return report, runErr
}

func (r *Runner) deliver(ctx context.Context, to, fromChat int64, messageID int) error {
	err := r.sender.Copy(ctx, to, fromChat, messageID)
	var flood *FloodError
	if !errors.As(err, &flood) {
		return err
	}

	wait := flood.RetryAfter
	if wait > r.maxWait {
		wait = r.maxWait
	}
	logger.Warn(fmt.Sprintf("Flood control, esperando %s", wait), "Broadcast")
	if err := r.sleep(ctx, wait); err != nil {
		return err
	}
	return r.sender.Copy(ctx, to, fromChat, messageID)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ProgressText renders a running report
func ProgressText(r Report) string {
	return fmt.Sprintf("⏳ <b>Yuborish davom etmoqda... (%d/%d)</b>\n\n✅ Yuborildi: %d\n🚫 Bloklagan: %d\n❌ Xatolik: %d",
		r.Done(), r.Total, r.Sent, r.Blocked, r.Failed)
}

// SummaryText renders the final report
func SummaryText(r Report) string {
	return fmt.Sprintf("🏁 <b>Yuborish yakunlandi!</b>\n━━━━━━━━━━━━━━━━━━\n\n"+
		"✅ <b>Yuborildi:</b> %d\n🚫 <b>Bloklagan:</b> %d\n❌ <b>Xatolik:</b> %d\n\nJami: %d",
		r.Sent, r.Blocked, r.Failed, r.Total)
}
