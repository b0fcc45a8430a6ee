package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector()
	c.RecordUpdate("text")
	c.RecordUpdate("text")
	c.RecordWizard("add_anime", "completed")
	c.RecordVIP("activated")
	c.RecordGateDenial()
	c.RecordBroadcast("sent")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.updates.WithLabelValues("text")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.wizardEvents.WithLabelValues("add_anime", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.vipEvents.WithLabelValues("activated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.gateDenials))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.broadcast.WithLabelValues("sent")))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordUpdate("text")
		c.RecordWizard("w", "e")
		c.RecordVIP("activated")
		c.RecordGateDenial()
		c.RecordBroadcast("sent")
		c.ObserveHandler(0.1)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector()
	c.RecordVIP("demoted")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `animebot_vip_events_total{event="demoted"} 1`))
}
