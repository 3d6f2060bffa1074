package pollnet

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/momentics/pollnet-go/internal/runtime"
)

// Config holds the tunables a Context is constructed with. New fills
// any zero field (and a nil *Config) with the DefaultConfig value.
type Config struct {
	// ShutdownGrace is how long Shutdown waits for outstanding task
	// goroutines to unwind after being signalled, mirroring the
	// original's ~200ms safety delay.
	ShutdownGrace time.Duration

	// HTTPShutdownTimeout bounds how long an HTTP server task's
	// graceful shutdown (http.Server.Shutdown) may take once asked to
	// stop, e.g. via Close or CloseAll.
	HTTPShutdownTimeout time.Duration

	// Logger is the base logger every subsystem derives fields from.
	// A sensible default is used if nil.
	Logger *logrus.Logger
}

// DefaultConfig returns sensible defaults: a 200ms shutdown grace
// window and a conservative HTTP graceful-shutdown timeout.
func DefaultConfig() *Config {
	return &Config{
		ShutdownGrace:        runtime.DefaultShutdownGrace,
		HTTPShutdownTimeout:  5 * time.Second,
		Logger:               defaultLogger(),
	}
}

func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	out := *c
	if out.ShutdownGrace <= 0 {
		out.ShutdownGrace = runtime.DefaultShutdownGrace
	}
	if out.HTTPShutdownTimeout <= 0 {
		out.HTTPShutdownTimeout = 5 * time.Second
	}
	if out.Logger == nil {
		out.Logger = defaultLogger()
	}
	return &out
}
