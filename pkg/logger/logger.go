// Package logger holds the process-wide zerolog logger.
//
// Binaries call Init once, right after configuration is loaded. Packages that
// are handed no logger of their own use For to get one labelled with their
// component name.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls how Init builds the logger.
type Options struct {
	// Level is one of trace, debug, info, warn or error. Anything else means info.
	Level string
	// Pretty writes coloured console lines instead of JSON.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service, when set, is added to every line as "service".
	Service string
}

var (
	mu     sync.RWMutex
	once   sync.Once
	root   zerolog.Logger
	loaded bool
)

// Init builds the logger from opts on its first call and returns it. Later
// calls return the existing logger unchanged.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		l := build(opts)
		mu.Lock()
		root, loaded = l, true
		mu.Unlock()
	})
	return Get()
}

func build(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	w := opts.Output
	if w == nil {
		w = os.Stdout
	}
	if opts.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	level := parseLevel(opts.Level)
	zerolog.SetGlobalLevel(level)

	c := zerolog.New(w).Level(level).With().Timestamp().Caller()
	if opts.Service != "" {
		c = c.Str("service", opts.Service)
	}
	return c.Logger()
}

// Get returns the logger built by Init. It panics when Init has not run.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !loaded {
		panic("logger: Get() called before Init()")
	}
	return root
}

// For returns the logger with a "component" field.
func For(component string) zerolog.Logger {
	return Get().With().Str("component", component).Logger()
}

// Reset forgets the logger so the next Init builds a new one. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	once = sync.Once{}
	root = zerolog.Logger{}
	loaded = false
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
	}
	return zerolog.InfoLevel
}
