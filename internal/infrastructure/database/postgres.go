package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Option adjusts the pool configuration before the pool is created.
type Option func(*pgxpool.Config)

// WithMaxConns caps the pool size. Non-positive values keep the default.
func WithMaxConns(n int32) Option {
	return func(cfg *pgxpool.Config) {
		if n > 0 {
			cfg.MaxConns = n
		}
	}
}

// Connect creates a pgx pool for dsn and verifies it with a ping.
// DSNs copied from SQLAlchemy settings (postgresql+asyncpg://...) are accepted.
func Connect(ctx context.Context, dsn string, opts ...Option) (*pgxpool.Pool, error) {
	normalized := normalizeDSN(dsn)
	if normalized == "" {
		return nil, errors.New("postgres: empty dsn")
	}

	cfg, err := pgxpool.ParseConfig(normalized)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	applyDefaults(cfg)
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: new pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return pool, nil
}

func applyDefaults(cfg *pgxpool.Config) {
	if cfg.MaxConns == 0 {
		cfg.MaxConns = 4
	}
	if cfg.MaxConnIdleTime == 0 {
		cfg.MaxConnIdleTime = 5 * time.Minute
	}
	if cfg.MaxConnLifetime == 0 {
		cfg.MaxConnLifetime = time.Hour
	}
	if cfg.HealthCheckPeriod == 0 {
		cfg.HealthCheckPeriod = time.Minute
	}
}

var driverSuffixes = []struct{ from, to string }{
	{"postgresql+asyncpg://", "postgresql://"},
	{"postgres+asyncpg://", "postgres://"},
	{"postgresql+pgx://", "postgresql://"},
	{"postgres+pgx://", "postgres://"},
}

// normalizeDSN strips driver suffixes pgx does not understand.
func normalizeDSN(dsn string) string {
	s := strings.TrimSpace(dsn)
	for _, r := range driverSuffixes {
		if strings.HasPrefix(s, r.from) {
			return r.to + strings.TrimPrefix(s, r.from)
		}
	}
	return s
}
