// Copyright (c) 2026 gqlsql. All rights reserved.

package pool

import (
	stdctx "context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ColumnAccessError reports a read query that did not yield the
// expected JSONB-payload-at-column-0 shape (spec.md §4.7 "Result
// shape").
type ColumnAccessError struct {
	RowIndex int
	Detail   string
}

func (e *ColumnAccessError) Error() string {
	return fmt.Sprintf("pool: column access error at row %d: %s", e.RowIndex, e.Detail)
}

// Pool is the engine's pooled executor: pgxpool.Pool plus the
// engine's retry policy, parameter validation, and metrics.
type Pool struct {
	pgxPool *pgxpool.Pool
	cfg     Config
	log     *slog.Logger
	metrics Metrics
}

// New creates and validates a connection pool, applying cfg's tuning
// and performing a startup health check.
func New(ctx stdctx.Context, cfg Config, logger *slog.Logger) (*Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("pool: invalid DSN: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxSize)
	poolConfig.MinConns = int32(cfg.MinIdle)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime
	poolConfig.MaxConnIdleTime = cfg.IdleTimeout
	poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	connectCtx, cancel := stdctx.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	pgxPool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("pool: failed to create pool: %w", err)
	}

	p := &Pool{pgxPool: pgxPool, cfg: cfg, log: logger}

	if err := p.Ping(ctx); err != nil {
		pgxPool.Close()
		return nil, err
	}

	stats := pgxPool.Stat()
	logger.Info("pool connected",
		slog.Int("max_conns", int(stats.MaxConns())),
		slog.Int("total_conns", int(stats.TotalConns())),
	)

	return p, nil
}

// Ping verifies the pool is reachable within the configured connect
// timeout.
func (p *Pool) Ping(ctx stdctx.Context) error {
	pingCtx, cancel := stdctx.WithTimeout(ctx, p.cfg.ConnectTimeout)
	defer cancel()
	if err := p.pgxPool.Ping(pingCtx); err != nil {
		return fmt.Errorf("pool: ping failed: %w", err)
	}
	return nil
}

// Close releases all pooled connections.
func (p *Pool) Close() {
	p.pgxPool.Close()
}

// Stats returns a metrics snapshot combining this pool's counters
// with pgxpool's live connection gauges.
func (p *Pool) Stats() MetricsSnapshot {
	s := p.pgxPool.Stat()
	return MetricsSnapshot{
		QueriesExecuted: p.metrics.queriesExecuted.Load(),
		QueryErrors:     p.metrics.queryErrors.Load(),
		PoolWaits:       p.metrics.poolWaits.Load(),
		Retries:         p.metrics.retries.Load(),
		IdleConns:       s.IdleConns(),
		ActiveConns:     s.AcquiredConns(),
		TotalConns:      s.TotalConns(),
	}
}

// ExecuteQuery validates sql/params, then runs the query, retrying up
// to three times with the RetryDelays backoff on a serialization or
// deadlock failure. Connection-acquisition timeouts and non-retryable
// errors surface immediately.
func (p *Pool) ExecuteQuery(ctx stdctx.Context, sql string, params []QueryParam) (pgx.Rows, error) {
	if err := PrepareParameters(params); err != nil {
		return nil, err
	}
	if err := ValidateParameterCount(sql, params); err != nil {
		return nil, err
	}

	args := Values(params)

	var lastErr error
	for attempt := 0; attempt <= len(RetryDelays); attempt++ {
		rows, err := p.pgxPool.Query(ctx, sql, args...)
		if err == nil {
			p.metrics.recordQuery()
			return rows, nil
		}

		lastErr = err
		if errors.Is(err, pgxpool.ErrClosedPool) || !isRetryable(err) {
			p.metrics.recordError()
			return nil, err
		}

		if attempt == len(RetryDelays) {
			break
		}
		p.metrics.recordRetry()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(RetryDelays[attempt]):
		}
	}

	p.metrics.recordError()
	return nil, fmt.Errorf("pool: query failed after %d retries: %w", len(RetryDelays), lastErr)
}

// Acquire exposes the underlying pool for callers (the executor
// stage) that need raw connection access, e.g. to call a stored
// procedure via Exec rather than Query.
func (p *Pool) Acquire(ctx stdctx.Context) (*pgxpool.Conn, error) {
	p.metrics.recordWait()
	return p.pgxPool.Acquire(ctx)
}
