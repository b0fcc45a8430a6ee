package web

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/eventbus"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

const feedWriteWait = 5 * time.Second

// Feed pushes domain events to connected websocket dashboards. It is an
// eventbus.Sink.
type Feed struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
}

var _ eventbus.Sink = (*Feed)(nil)

func NewFeed() *Feed {
	return &Feed{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Handler upgrades the request and keeps the connection until the peer leaves
func (f *Feed) Handler(c *gin.Context) {
	conn, err := f.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(fmt.Sprintf("Upgrade de websocket falló: %v", err), "Feed")
		return
	}

	f.mu.Lock()
	f.conns[conn] = struct{}{}
	f.mu.Unlock()
	logger.Debug("Nuevo cliente en /ws/events: "+c.ClientIP(), "Feed")

	// the feed is one-way; reading only detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	f.drop(conn)
}

// Send writes e to every client. Clients that fail are disconnected.
func (f *Feed) Send(e eventbus.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	f.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(f.conns))
	for c := range f.conns {
		conns = append(conns, c)
	}
	f.mu.Unlock()

	for _, c := range conns {
		_ = c.SetWriteDeadline(time.Now().Add(feedWriteWait))
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			f.drop(c)
		}
	}
	return nil
}

// Clients is the number of connected dashboards
func (f *Feed) Clients() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.conns)
}

// Close disconnects everyone
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.conns {
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"), time.Now().Add(time.Second))
		_ = c.Close()
		delete(f.conns, c)
	}
}

func (f *Feed) drop(c *websocket.Conn) {
	f.mu.Lock()
	_, ok := f.conns[c]
	delete(f.conns, c)
	f.mu.Unlock()
	if ok {
		_ = c.Close()
	}
}
