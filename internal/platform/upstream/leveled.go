package upstream

import (
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

var _ retryablehttp.LeveledLogger = LeveledLogger{}

// LeveledLogger routes retryablehttp logs into zerolog
// Per-attempt request lines are demoted to trace; retries stay visible at warn
type LeveledLogger struct {
	L zerolog.Logger
}

func (l LeveledLogger) Error(msg string, kv ...any) { l.L.Error().Fields(kv).Msg(msg) }
func (l LeveledLogger) Info(msg string, kv ...any)  { l.L.Info().Fields(kv).Msg(msg) }
func (l LeveledLogger) Debug(msg string, kv ...any) { l.L.Trace().Fields(kv).Msg(msg) }
func (l LeveledLogger) Warn(msg string, kv ...any)  { l.L.Warn().Fields(kv).Msg(msg) }
