package db

import (
	"context"
	"fmt"
	"time"

	"github.com/bpresles/CasaNova/common/config"
	"github.com/bpresles/CasaNova/common/redis"
	"github.com/bpresles/CasaNova/repository"
	zerolog "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"

	"github.com/rs/zerolog/log"
)

// DB provides access to the database
type DB struct {
	Pool    *pgxpool.Pool
	Queries *repository.Queries
	Redis   *redis.RedisClient
}

// Close closes the database pool and the redis client
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.Redis != nil {
		if err := db.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Closing Redis client")
		}
	}
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// SetupDatabase connects to Postgres and Redis. Scrape log inserts are left out
// of the query trace; the scrape log service reports them itself.
func SetupDatabase(ctx context.Context, cfg config.Config) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.PgSql.ConnStr())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.PgSql.MaxConns)
	poolConfig.MinConns = int32(cfg.PgSql.MinConns)
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	logger := zerolog.NewLogger(log.Logger)
	poolConfig.ConnConfig.Tracer = NewFilteredTracer(&tracelog.TraceLog{
		Logger:   logger,
		LogLevel: traceLevel(cfg.Log.Level),
	}, "scrape_logs")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database %s: %w", cfg.PgSql.Database, err)
	}

	redisClient, err := redis.NewClient(ctx, cfg)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating Redis client: %w", err)
	}

	log.Info().
		Str("database", cfg.PgSql.Database).
		Int32("max_conns", poolConfig.MaxConns).
		Str("redis", cfg.Redis.Addr()).
		Msg("Storage connected")

	return &DB{
		Pool:    pool,
		Queries: repository.New(pool),
		Redis:   redisClient,
	}, nil
}

// traceLevel keeps SQL tracing quiet unless debug logging is on.
func traceLevel(level string) tracelog.LogLevel {
	if level == "debug" || level == "trace" {
		return tracelog.LogLevelDebug
	}
	return tracelog.LogLevelWarn
}
