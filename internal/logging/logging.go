package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds the service's root logger and installs it as the global logger.
// Unknown levels fall back to info.
func New(service, level string, pretty bool) zerolog.Logger {
	return newLogger(os.Stdout, service, level, pretty)
}

func newLogger(w io.Writer, service, level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	out := w
	if pretty {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	logger := zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Logger()

	log.Logger = logger
	return logger
}
