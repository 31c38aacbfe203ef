package pg

import (
	"context"
	"strings"
	"time"

	"qabundle/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one finished statement. Only the argument count is
// carried; values are dataset text
type QueryEvent struct {
	SQL     string
	Args    int
	Elapsed time.Duration
	Err     error
	Slow    bool
}

// QueryTracer receives one event per statement
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs statements at info (warn when slow), whatever the root level
func Tracer(root logger.Logger) QueryTracer {
	return sqlLog{l: root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()}
}

type sqlLog struct{ l logger.Logger }

func (s sqlLog) OnQuery(_ context.Context, ev QueryEvent) {
	lvl := zerolog.InfoLevel
	if ev.Slow {
		lvl = zerolog.WarnLevel
	}
	s.l.WithLevel(lvl).
		Str("sql", strings.Join(strings.Fields(ev.SQL), " ")).
		Int("args", ev.Args).
		Dur("elapsed_ms", ev.Elapsed).
		Err(ev.Err).
		Msg("pg query")
}
