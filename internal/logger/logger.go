// Package logger provides the process-wide zerolog logger and a small adapter
// for components that take the stage-oriented Log(level, stage, message, detail) interface.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the logger
type Options struct {
	Level   string
	Format  string
	Service string
	Writer  io.Writer
}

// Logger is the project-wide logging type
type Logger = zerolog.Logger

var (
	once   sync.Once
	root   atomic.Pointer[zerolog.Logger]
	inited atomic.Bool
)

// Get returns the root logger, initialising it with defaults when Init was never called
func Get() *Logger {
	if !inited.Load() {
		Init(Options{Level: "info", Format: "console"})
	}
	return root.Load()
}

// Init builds the root logger, only the first call has an effect
func Init(opt Options) {
	once.Do(func() {
		l := New(opt)
		root.Store(&l)
		inited.Store(true)
	})
}

// New builds a standalone logger from opt without touching the root
func New(opt Options) Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var w io.Writer = os.Stderr
	if opt.Writer != nil {
		w = opt.Writer
	}
	if strings.EqualFold(opt.Format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}
	}

	ctx := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
	if opt.Service != "" {
		ctx = ctx.Str("service", opt.Service)
	}
	return ctx.Logger()
}

// Named returns a child of the root logger tagged with component
func Named(component string) Logger {
	return Get().With().Str("component", component).Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// StageLogger adapts a zerolog.Logger to the Log(level, stage, message, detail) shape
type StageLogger struct {
	l zerolog.Logger
}

// Stage wraps l for components that log by pipeline stage
func Stage(l zerolog.Logger) StageLogger {
	return StageLogger{l: l}
}

// Log writes one stage event, levels follow the pipeline vocabulary (INFO, ANALYSIS, WARN, RISK, ERROR)
func (s StageLogger) Log(level, stage, message, detail string) {
	var evt *zerolog.Event
	switch strings.ToUpper(level) {
	case "WARN", "RISK":
		evt = s.l.Warn()
	case "ERROR":
		evt = s.l.Error()
	case "ANALYSIS", "DEBUG":
		evt = s.l.Debug()
	default:
		evt = s.l.Info()
	}
	evt = evt.Str("stage", stage)
	if strings.TrimSpace(detail) != "" {
		evt = evt.Str("detail", detail)
	}
	evt.Msg(message)
}
