// Package logger configures the global zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// Options controls logger output.
type Options struct {
	Level      string
	File       string // rotated JSON log; empty disables file output
	MaxSizeMB  int
	MaxBackups int
	NoColor    bool
}

// Init sets the global level and output. It returns the file writer (nil
// when File is empty) so the caller can close it on shutdown.
func Init(opts Options) (io.Closer, error) {
	zerolog.TimeFieldFormat = timeFormat
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.TimeOnly,
		NoColor:    opts.NoColor,
	}

	var closer io.Closer
	if opts.File != "" {
		// Console gets colour, the file gets plain JSON lines.
		rotated := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    max(1, opts.MaxSizeMB),
			MaxBackups: max(0, opts.MaxBackups),
		}
		out = zerolog.MultiLevelWriter(out, rotated)
		closer = rotated
	}

	log.Logger = zerolog.New(out).With().Timestamp().Caller().Logger()
	log.Debug().Str("level", level.String()).Str("file", opts.File).Msg("logger initialized")
	return closer, nil
}

// ParseLevel accepts zerolog level names in any case. Empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}
