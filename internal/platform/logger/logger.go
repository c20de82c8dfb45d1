// Package logger owns the process wide zerolog logger and the context fields
// (request id, client ip, feed) every line carries
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"gridwatch/internal/platform/config/raw"
)

// Logger is zerolog's logger; the alias keeps zerolog imports out of feature packages
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level       string
	Format      string // "console" or "json"
	Service     string
	Component   string
	Writer      io.Writer
	WithCaller  bool
	SampleEvery int
	Fields      map[string]string
}

// FromEnv fills Options from LOG_* variables. It reads through raw because
// the config package logs and cannot be used before the logger exists
func FromEnv() Options {
	env := raw.New().Prefix("LOG_")
	opt := Options{
		Level:       env.Get("LEVEL", "info"),
		Format:      env.Get("FORMAT", "console"),
		Service:     env.Get("SERVICE", ""),
		Component:   env.Get("COMPONENT", ""),
		WithCaller:  env.GetBool("CALLER", false),
		SampleEvery: env.GetInt("SAMPLE_EVERY", 0),
	}
	opt.Format = strings.ToLower(opt.Format)
	return opt
}

var (
	once sync.Once
	root atomic.Pointer[zerolog.Logger]
)

// Init installs the root logger built from opt. Later calls are ignored
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := New(opt)
		root.Store(&l)
	})
}

// New builds a standalone logger; unknown levels fall back to info
func New(opt Options) Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opt.Level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := opt.Writer
	if out == nil {
		out = os.Stdout
	}
	if opt.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	fields := map[string]string{"service": opt.Service, "component": opt.Component}
	for k, v := range opt.Fields {
		fields[k] = v
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fields["go_version"] = bi.GoVersion
	}

	b := zerolog.New(out).Level(lvl).With().Timestamp()
	for k, v := range fields {
		if v != "" {
			b = b.Str(k, v)
		}
	}
	if opt.WithCaller {
		b = b.Caller()
	}
	l := b.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return l
}

// Get returns the root logger, building it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}

type ctxKey string

const (
	keyRequestID ctxKey = "request_id"
	keyRemoteIP  ctxKey = "remote_ip"
	keyFeed      ctxKey = "feed"
)

// WithRequest stores the request id and client address for C
func WithRequest(ctx context.Context, reqID, remoteIP string) context.Context {
	ctx = with(ctx, keyRequestID, reqID)
	return with(ctx, keyRemoteIP, remoteIP)
}

// WithFeed tags ctx with the feed a poller works on (outage, alerts, ...)
func WithFeed(ctx context.Context, feed string) context.Context { return with(ctx, keyFeed, feed) }

func with(ctx context.Context, k ctxKey, v string) context.Context {
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, k, v)
}

// C returns a child of the root logger carrying the fields stored on ctx
func C(ctx context.Context) *Logger {
	b := Get().With()
	for _, k := range []ctxKey{keyRequestID, keyRemoteIP, keyFeed} {
		if s, ok := ctx.Value(k).(string); ok && s != "" {
			b = b.Str(string(k), s)
		}
	}
	l := b.Logger()
	return &l
}
