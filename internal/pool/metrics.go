// Copyright (c) 2026 gqlsql. All rights reserved.

package pool

import "sync/atomic"

// Metrics tracks counters for the lifetime of a Pool: queries
// executed, query errors, pool-acquisition waits, and retries.
type Metrics struct {
	queriesExecuted atomic.Int64
	queryErrors     atomic.Int64
	poolWaits       atomic.Int64
	retries         atomic.Int64
}

// MetricsSnapshot is an immutable read of Metrics at one instant.
type MetricsSnapshot struct {
	QueriesExecuted int64
	QueryErrors     int64
	PoolWaits       int64
	Retries         int64
	IdleConns       int32
	ActiveConns     int32
	TotalConns      int32
}

func (m *Metrics) recordQuery() { m.queriesExecuted.Add(1) }
func (m *Metrics) recordError() { m.queryErrors.Add(1) }
func (m *Metrics) recordWait()  { m.poolWaits.Add(1) }
func (m *Metrics) recordRetry() { m.retries.Add(1) }
