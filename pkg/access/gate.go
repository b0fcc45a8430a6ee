// Package access decides whether an identity may receive a piece of content. Episode
// delivery asks the Gate before it loads the video file id.
package access

import (
	"context"
	"fmt"

	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/metrics"
	"github.com/PancyStudios/AnimeBotGo/pkg/vip"
)

// Item is anything that may be VIP-exclusive
type Item interface {
	VIPOnly() bool
}

// Lifecycle is the part of vip.Manager the gate relies on
type Lifecycle interface {
	Reconcile(ctx context.Context, telegramID int64) (vip.Outcome, error)
	IsActive(ctx context.Context, telegramID int64) (bool, error)
}

// Decision is the gate's answer
type Decision struct {
	Allowed bool
	// Demoted is set when the check itself expired the identity's VIP
	Demoted bool
}

// Gate is the single checkpoint for VIP-only content
type Gate struct {
	vip     Lifecycle
	metrics *metrics.Collector
}

// NewGate creates a Gate. m may be nil.
func NewGate(lc Lifecycle, m *metrics.Collector) *Gate {
	return &Gate{vip: lc, metrics: m}
}

// MayView allows every non-VIP item. A VIP item is allowed only for an identity whose
// grant is still active after reconciliation. Errors deny.
func (g *Gate) MayView(ctx context.Context, telegramID int64, item Item) (Decision, error) {
	if item == nil || !item.VIPOnly() {
		return Decision{Allowed: true}, nil
	}

	outcome, err := g.vip.Reconcile(ctx, telegramID)
	if err != nil {
		return Decision{}, err
	}
	active, err := g.vip.IsActive(ctx, telegramID)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{Allowed: active, Demoted: outcome == vip.Demoted}
	if !d.Allowed {
		g.metrics.RecordGateDenial()
		logger.Debug(fmt.Sprintf("Contenido VIP denegado a %d", telegramID), "Access")
	}
	return d, nil
}

// DeniedText is shown instead of VIP content
const DeniedText = "💎 <b>Bu qism faqat VIP foydalanuvchilar uchun!</b>\n\nVIP obuna sotib olish uchun quyidagi tugmani bosing."

// ExpiredText is shown when the check itself ended the grant
const ExpiredText = "⏳ <b>VIP muddatingiz tugadi.</b>\n\nDavom ettirish uchun VIP obunani yangilang."
