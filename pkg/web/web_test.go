package web

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/database"
	"github.com/PancyStudios/AnimeBotGo/pkg/eventbus"
	"github.com/PancyStudios/AnimeBotGo/pkg/metrics"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct{ ready bool }

func (b fakeBot) IsReady() bool         { return b.ready }
func (b fakeBot) Uptime() time.Duration { return 90 * time.Second }

type fakeStore struct {
	status string
	online bool
}

func (s fakeStore) GetStatus() (string, bool) { return s.status, s.online }

type fakeStats struct{ err error }

func (s fakeStats) Overview(context.Context) (*database.Overview, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &database.Overview{TotalUsers: 12, VIPUsers: 3, TotalAnime: 4}, nil
}

func (s fakeStats) TopAnime(context.Context, int) ([]database.TopAnime, error) {
	return []database.TopAnime{{ID: 1, Title: "Naruto", Views: 99}}, nil
}

func newTestServer(t *testing.T, opts Options, d Deps) *Server {
	s, err := NewServer(opts)
	require.NoError(t, err)
	SetupAPIRoutes(s, d)
	return s
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Engine().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Options{}, Deps{})
	w := get(s, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestStatus(t *testing.T) {
	s := newTestServer(t, Options{}, Deps{
		Bot:      fakeBot{ready: true},
		Database: fakeStore{status: "Connected", online: true},
		Events:   func() bool { return true },
	})

	w := get(s, "/api/status")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Bot struct {
			IsOnline bool   `json:"isOnline"`
			Uptime   string `json:"uptime"`
		} `json:"bot"`
		Database struct {
			Status string `json:"status"`
		} `json:"database"`
		States struct {
			Status string `json:"status"`
		} `json:"states"`
		Events struct {
			IsOnline bool `json:"isOnline"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Bot.IsOnline)
	assert.Equal(t, "1m30s", body.Bot.Uptime)
	assert.Equal(t, "Connected", body.Database.Status)
	assert.Equal(t, "Disabled", body.States.Status)
	assert.True(t, body.Events.IsOnline)
}

func TestStats(t *testing.T) {
	s := newTestServer(t, Options{}, Deps{Stats: fakeStats{}})
	w := get(s, "/api/stats")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_users":12`)
	assert.Contains(t, w.Body.String(), "Naruto")

	s = newTestServer(t, Options{}, Deps{Stats: fakeStats{err: stderrors.New("db down")}})
	assert.Equal(t, http.StatusInternalServerError, get(s, "/api/stats").Code)

	s = newTestServer(t, Options{}, Deps{})
	assert.Equal(t, http.StatusServiceUnavailable, get(s, "/api/stats").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.NewCollector()
	m.RecordUpdate("text")
	s := newTestServer(t, Options{}, Deps{Metrics: m})

	w := get(s, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "animebot_updates_total")
}

func TestNotFoundAndMethod(t *testing.T) {
	s := newTestServer(t, Options{}, Deps{})
	assert.Equal(t, http.StatusNotFound, get(s, "/nope").Code)

	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestUnknownHostIsRejected(t *testing.T) {
	s := newTestServer(t, Options{AllowedHosts: `^(.+\.)?anime\.example$`}, Deps{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Host = "evil.test"
	s.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Host = "bot.anime.example"
	s.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Options{RateLimit: RateLimitConfig{Window: time.Hour, MaxRequests: 2}}, Deps{})
	assert.Equal(t, http.StatusOK, get(s, "/api/health").Code)
	assert.Equal(t, http.StatusOK, get(s, "/api/health").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(s, "/api/health").Code)
}

func TestInvalidHostPattern(t *testing.T) {
	_, err := NewServer(Options{AllowedHosts: "("})
	assert.Error(t, err)
}

func TestFeedPushesEvents(t *testing.T) {
	feed := NewFeed()
	s := newTestServer(t, Options{}, Deps{Feed: feed})
	srv := httptest.NewServer(s.Engine())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return feed.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, feed.Send(eventbus.Event{ID: "e1", Type: eventbus.VIPActivated, Payload: map[string]int{"user": 7}}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got eventbus.Event
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "e1", got.ID)
	assert.Equal(t, eventbus.VIPActivated, got.Type)

	conn.Close()
	require.Eventually(t, func() bool { return feed.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}
