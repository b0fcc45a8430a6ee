// Package database provides the relational store of the bot (gorm over sqlite or
// postgres), the typed stores built on it, and the optional MongoDB connection used
// for shared conversation state.
package database

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
	"github.com/PancyStudios/AnimeBotGo/pkg/logger"
	"github.com/PancyStudios/AnimeBotGo/pkg/models"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database owns the gorm handle and an sqlx view over the same pool
type Database struct {
	gorm   *gorm.DB
	sqlx   *sqlx.DB
	driver string
	mu     sync.RWMutex
	closed bool
}

var (
	database *Database
	dbOnce   sync.Once
)

// Init opens the global database and migrates the schema
func Init(driver, dsn string) (*Database, error) {
	var err error
	dbOnce.Do(func() {
		database, err = Open(driver, dsn)
	})
	return database, err
}

// Open connects to driver ("sqlite" or "postgres") and runs AutoMigrate.
func Open(driver, dsn string) (*Database, error) {
	var dialector gorm.Dialector
	var sqlxDriver string

	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(dsn)
		sqlxDriver = "sqlite3"
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
		sqlxDriver = "pgx"
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	logger.System("Intentando conectar a la base de datos...", "DB")

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		logger.Critical("Fallo al conectar con la base de datos.", "DB")
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if sqlxDriver == "sqlite3" {
		// sqlite has a single writer, and ":memory:" is per connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	}

	if err := gdb.AutoMigrate(models.All()...); err != nil {
		logger.Critical("Fallo al migrar el esquema.", "DB")
		return nil, err
	}

	logger.Success("Conectado exitosamente a la base de datos.", "DB")

	return &Database{
		gorm:   gdb,
		sqlx:   sqlx.NewDb(sqlDB, sqlxDriver),
		driver: sqlxDriver,
	}, nil
}

// Gorm returns the gorm handle
func (d *Database) Gorm() *gorm.DB {
	return d.gorm
}

// SQLX returns the sqlx handle sharing the gorm pool
func (d *Database) SQLX() *sqlx.DB {
	return d.sqlx
}

// Driver returns the sql driver name in use
func (d *Database) Driver() string {
	return d.driver
}

// Ping measures the database response time
func (d *Database) Ping() (time.Duration, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return 0, fmt.Errorf("database closed")
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := d.sqlx.PingContext(ctx)
	return time.Since(start), err
}

// GetStatus returns the database connection status
func (d *Database) GetStatus() (string, bool) {
	if _, err := d.Ping(); err != nil {
		return "🔴 | Desconectado", false
	}
	return "🟢 | En linea", true
}

// Close closes the connection pool
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	if err := d.sqlx.Close(); err != nil {
		return err
	}
	logger.Warn("La base de datos ha sido desconectada", "DB")
	return nil
}

// classify maps a gorm error onto the error taxonomy
func classify(err error, notFound, conflict string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.Wrap(errors.KindNotFound, err, notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return errors.Wrap(errors.KindConflict, err, conflict)
	case errors.KindOf(err) != errors.KindUnknown:
		return err
	default:
		return errors.Persistence(err, "Ma'lumotlar bazasida xatolik")
	}
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// Page is one page of an ordered listing
type Page[T any] struct {
	Items   []T
	Page    int
	PerPage int
	Total   int64
}

// Pages returns the number of pages
func (p Page[T]) Pages() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 1
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// HasNext reports whether a later page exists
func (p Page[T]) HasNext() bool {
	return p.Page+1 < p.Pages()
}

// HasPrev reports whether an earlier page exists
func (p Page[T]) HasPrev() bool {
	return p.Page > 0
}

func normalizePage(page, perPage int) (int, int) {
	if page < 0 {
		page = 0
	}
	if perPage <= 0 {
		perPage = 5
	}
	return page, perPage
}
