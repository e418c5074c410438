// Package logging builds the process logger from configuration.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"tasksync/internal/config"
)

// Rotation limits for the log file.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns the logger described by cfg and a Closer for its sink.
//
// Without --debug or a log file the logger discards everything. With
// Debug set, records at debug level and above go to errOut. With LogFile
// set, records at info level and above (debug with Debug) are written to
// a rotated file; when both are set the file wins.
func New(cfg *config.Config, errOut io.Writer) (*slog.Logger, io.Closer) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFile != "" {
		_ = os.MkdirAll(filepath.Dir(cfg.LogFile), 0700)
		sink := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		}
		return slog.New(slog.NewJSONHandler(sink, opts)), sink
	}

	if cfg.Debug {
		return slog.New(slog.NewTextHandler(errOut, opts)), nopCloser{}
	}

	return Discard(), nopCloser{}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
