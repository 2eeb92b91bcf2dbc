// Package logger configures the global zerolog logger from command line options.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a go-flags option group.
type Logger struct {
	Level  string `long:"log-level"  env:"LOG_LEVEL"  description:"Log level" default:"info" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error"`
	Format string `long:"log-format" env:"LOG_FORMAT" description:"Log format" default:"text" choice:"text" choice:"json"`
	File   string `long:"log-file"   env:"LOG_FILE"   description:"Log file, empty to disable" default:"statemap.log"`
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup points the global logger at the configured file. The terminal is
// owned by the UI, so logs never go to stdout. The returned closer flushes
// the file.
func (l Logger) Setup() (io.Closer, error) {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil || l.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if l.File == "" {
		log.Logger = zerolog.New(io.Discard)
		return nopCloser{}, nil
	}

	f, err := os.OpenFile(l.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Logger = zerolog.New(io.Discard)
		return nopCloser{}, err
	}

	var out io.Writer = f
	if l.Format != "json" {
		out = zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return f, nil
}
