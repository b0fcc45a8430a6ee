package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo manages the optional MongoDB connection that backs shared conversation state
type Mongo struct {
	client          *mongo.Client
	db              *mongo.Database
	IsConnected     bool
	reconnectTicker *time.Ticker
	stopReconnect   chan struct{}
	stopOnce        sync.Once
	mu              sync.RWMutex
	collections     map[string]*mongo.Collection
}

// NewMongo creates a disconnected Mongo instance
func NewMongo() *Mongo {
	return &Mongo{
		stopReconnect: make(chan struct{}),
		collections:   make(map[string]*mongo.Collection),
	}
}

// ConnectMongo connects to mongoURL and selects dbName
func ConnectMongo(mongoURL, dbName string) (*Mongo, error) {
	m := NewMongo()
	return m, m.Connect(mongoURL, dbName)
}

// Connect establishes a connection to MongoDB. On failure a background reconnect loop starts.
func (m *Mongo) Connect(mongoURL, dbName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.IsConnected {
		return nil
	}

	logger.System("Intentando conectar a MongoDB...", "Mongo")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(mongoURL).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err == nil {
		err = client.Ping(ctx, readpref.Primary())
	}
	if err != nil {
		logger.Critical("Fallo al conectar con MongoDB.", "Mongo")
		m.scheduleReconnect(mongoURL, dbName)
		return err
	}

	m.client = client
	m.db = client.Database(dbName)
	m.IsConnected = true
	m.collections = make(map[string]*mongo.Collection)

	logger.Success("Conectado exitosamente a MongoDB.", "Mongo")

	if m.reconnectTicker != nil {
		m.reconnectTicker.Stop()
		m.reconnectTicker = nil
	}
	return nil
}

// scheduleReconnect starts the reconnect loop. Caller holds m.mu.
func (m *Mongo) scheduleReconnect(mongoURL, dbName string) {
	m.IsConnected = false
	if m.reconnectTicker != nil {
		return
	}
	logger.Warn("Sin conexión con MongoDB. Reintentando cada 15s.", "Mongo")

	ticker := time.NewTicker(15 * time.Second)
	m.reconnectTicker = ticker
	go func() {
		for {
			select {
			case <-ticker.C:
				logger.Info("Intentando reconectar a MongoDB...", "Mongo")
				if err := m.Connect(mongoURL, dbName); err == nil {
					return
				}
			case <-m.stopReconnect:
				return
			}
		}
	}()
}

// Disconnect closes the connection and stops reconnect attempts
func (m *Mongo) Disconnect() error {
	m.stopOnce.Do(func() { close(m.stopReconnect) })

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.reconnectTicker != nil {
		m.reconnectTicker.Stop()
		m.reconnectTicker = nil
	}

	if m.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.client.Disconnect(ctx); err != nil {
			return err
		}
		m.IsConnected = false
		logger.Warn("MongoDB ha sido desconectado", "Mongo")
	}
	return nil
}

// Ping measures the MongoDB response time
func (m *Mongo) Ping() (time.Duration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.IsConnected || m.client == nil {
		return 0, fmt.Errorf("not connected to mongodb")
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := m.client.Ping(ctx, readpref.Primary())
	return time.Since(start), err
}

// GetStatus returns the connection status
func (m *Mongo) GetStatus() (string, bool) {
	if _, err := m.Ping(); err != nil {
		return "🔴 | Desconectado", false
	}
	return "🟢 | En linea", true
}

// GetCollection returns a collection, or nil when not connected
func (m *Mongo) GetCollection(name string) *mongo.Collection {
	m.mu.RLock()
	if col, exists := m.collections[name]; exists {
		m.mu.RUnlock()
		return col
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return nil
	}

	col := m.db.Collection(name)
	m.collections[name] = col
	return col
}
