// Package store persists session state: the message log, the remote thread
// handle and the selected locale, all of which survive restarts.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hussleai/chatd/internal/domain"
)

// Common errors for store operations.
var (
	ErrNotFound      = errors.New("session not found")
	ErrInvalidConfig = errors.New("invalid store configuration")
	ErrInvalidDriver = errors.New("invalid store driver")
)

// Store defines the interface for session persistence.
type Store interface {
	// CreateSession persists a new session.
	CreateSession(ctx context.Context, session *domain.Session) error

	// GetSession retrieves a session by ID.
	// Returns nil if the session is not found (not an error).
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)

	// UpdateSession replaces the stored session record (thread handle,
	// locale, generation). Returns ErrNotFound if the session does not exist.
	UpdateSession(ctx context.Context, session *domain.Session) error

	// AppendMessage appends one message to the session log.
	AppendMessage(ctx context.Context, msg *domain.Message) error

	// GetMessages returns the session log in conversation order. A positive
	// limit truncates to the first limit messages; non-positive returns the
	// full log.
	GetMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)

	// DeleteMessages empties the session log.
	DeleteMessages(ctx context.Context, sessionID string) error

	// Close closes the store and releases any resources.
	Close() error
}

// Driver selects the store implementation.
type Driver string

const (
	DriverSQLite Driver = "sqlite"
	DriverRedis  Driver = "redis"
	DriverMemory Driver = "memory"
)

// Option is a functional option for configuring a store.
type Option func(*config)

type config struct {
	sqliteDSN   string
	redisClient *redis.Client
	redisTTL    time.Duration
}

// WithSQLiteDSN sets the DSN for the SQLite store.
func WithSQLiteDSN(dsn string) Option {
	return func(c *config) {
		c.sqliteDSN = dsn
	}
}

// WithRedisClient sets the Redis client for the Redis store.
func WithRedisClient(client *redis.Client) Option {
	return func(c *config) {
		c.redisClient = client
	}
}

// WithRedisTTL sets the TTL for Redis keys.
func WithRedisTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.redisTTL = ttl
	}
}

// New creates a Store for the given driver.
// SQLite requires WithSQLiteDSN; Redis requires WithRedisClient.
func New(driver Driver, opts ...Option) (Store, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	switch driver {
	case DriverSQLite:
		if cfg.sqliteDSN == "" {
			return nil, ErrInvalidConfig
		}
		return newSQLiteStore(cfg.sqliteDSN)

	case DriverRedis:
		if cfg.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		ttl := cfg.redisTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		return &redisStore{client: cfg.redisClient, ttl: ttl}, nil

	case DriverMemory:
		return newMemoryStore(), nil

	default:
		return nil, ErrInvalidDriver
	}
}
