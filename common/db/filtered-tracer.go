package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

// FilteredTracer forwards to inner except for statements touching one of the
// skipped tables.
type FilteredTracer struct {
	inner      pgx.QueryTracer
	skipTables []string
}

func NewFilteredTracer(inner pgx.QueryTracer, skipTables ...string) *FilteredTracer {
	lowered := make([]string, 0, len(skipTables))
	for _, t := range skipTables {
		lowered = append(lowered, strings.ToLower(t))
	}
	return &FilteredTracer{inner: inner, skipTables: lowered}
}

type skipCtxKey struct{}

func (t *FilteredTracer) skips(sql string) bool {
	sql = strings.ToLower(sql)
	for _, table := range t.skipTables {
		if strings.Contains(sql, table) {
			return true
		}
	}
	return false
}

func (t *FilteredTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	if t.skips(data.SQL) {
		// TraceQueryEnd only sees the command tag, so carry the decision in ctx.
		return context.WithValue(ctx, skipCtxKey{}, true)
	}
	return t.inner.TraceQueryStart(ctx, conn, data)
}

func (t *FilteredTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	if ctx.Value(skipCtxKey{}) != nil {
		return
	}
	t.inner.TraceQueryEnd(ctx, conn, data)
}
