package db

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// New creates a new PostgreSQL connection pool.
func New(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("platform/db: parse config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("platform/db: new pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("platform/db: ping: %w", err)
	}

	return pool, nil
}

// Connector lazily opens one shared pool and hands it to every caller. A failed
// attempt is not cached so the next call retries.
type Connector struct {
	dsn string

	mu   sync.Mutex
	pool *pgxpool.Pool
}

// NewConnector returns a Connector for dsn.
func NewConnector(dsn string) *Connector {
	return &Connector{dsn: dsn}
}

// Pool returns the shared pool, connecting on first use.
func (c *Connector) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	if c == nil || c.dsn == "" {
		return nil, errors.New("platform/db: dsn not configured")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pool != nil {
		return c.pool, nil
	}
	pool, err := New(ctx, c.dsn)
	if err != nil {
		return nil, err
	}
	c.pool = pool
	return pool, nil
}

// Close releases the pool if it was opened.
func (c *Connector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
}
