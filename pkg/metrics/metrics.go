// Package metrics exposes the bot's Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector groups every counter the bot records. A nil *Collector is valid and
// records nothing, so packages can take one optionally.
type Collector struct {
	registry     *prometheus.Registry
	updates      *prometheus.CounterVec
	wizardEvents *prometheus.CounterVec
	vipEvents    *prometheus.CounterVec
	gateDenials  prometheus.Counter
	broadcast    *prometheus.CounterVec
	handlerTime  prometheus.Histogram
}

// NewCollector creates a Collector registered on its own registry
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "animebot_updates_total",
			Help: "Telegram updates handled, by kind",
		}, []string{"kind"}),
		wizardEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "animebot_wizard_events_total",
			Help: "Wizard transitions, by wizard and event",
		}, []string{"wizard", "event"}),
		vipEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "animebot_vip_events_total",
			Help: "VIP lifecycle events, by event",
		}, []string{"event"}),
		gateDenials: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "animebot_gate_denials_total",
			Help: "VIP-only content requests denied",
		}),
		broadcast: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "animebot_broadcast_messages_total",
			Help: "Broadcast deliveries, by result",
		}, []string{"result"}),
		handlerTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "animebot_handler_seconds",
			Help:    "Update handler latency",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		c.updates,
		c.wizardEvents,
		c.vipEvents,
		c.gateDenials,
		c.broadcast,
		c.handlerTime,
		prometheus.NewGoCollector(),
	)
	return c
}

func (c *Collector) RecordUpdate(kind string) {
	if c == nil {
		return
	}
	c.updates.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordWizard(wizardID, event string) {
	if c == nil {
		return
	}
	c.wizardEvents.WithLabelValues(wizardID, event).Inc()
}

func (c *Collector) RecordVIP(event string) {
	if c == nil {
		return
	}
	c.vipEvents.WithLabelValues(event).Inc()
}

func (c *Collector) RecordGateDenial() {
	if c == nil {
		return
	}
	c.gateDenials.Inc()
}

func (c *Collector) RecordBroadcast(result string) {
	if c == nil {
		return
	}
	c.broadcast.WithLabelValues(result).Inc()
}

// ObserveHandler records one handler run in seconds
func (c *Collector) ObserveHandler(seconds float64) {
	if c == nil {
		return
	}
	c.handlerTime.Observe(seconds)
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
