// Package log provides structured logging to a log file, backed by logrus.
//
// Before Init is called, entries go to stderr. After Init they go to
// <logDir>/skillshub.log so that command output on stdout stays clean.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// FileName is the name of the log file inside the log directory.
const FileName = "skillshub.log"

var (
	// G returns the logger attached to a context, falling back to L.
	G = GetLogger
	// L is the global logger entry.
	L = logrus.NewEntry(newLogger())

	logFile *os.File
)

type loggerKey struct{}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.Formatter = &logrus.TextFormatter{
		TimestampFormat: time.RFC3339Nano,
		FullTimestamp:   true,
	}
	return l
}

// Init opens the log file in logDir and routes the global logger to it.
func Init(logDir string) error {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(logDir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	L.Logger.SetOutput(f)
	return nil
}

// Close closes the log file, if any, and routes output back to stderr.
func Close() error {
	if logFile == nil {
		return nil
	}
	L.Logger.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

// SetLevel sets the level of the global logger ("debug", "info", ...).
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	L.Logger.SetLevel(lvl)
	return nil
}

// SetOutput redirects the global logger.
func SetOutput(w io.Writer) {
	L.Logger.SetOutput(w)
}

// WithLogger attaches a logger entry to ctx.
func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey{}, entry.WithContext(ctx))
}

// GetLogger returns the entry attached to ctx, or L.
func GetLogger(ctx context.Context) *logrus.Entry {
	if e, ok := ctx.Value(loggerKey{}).(*logrus.Entry); ok {
		return e
	}
	return L.WithContext(ctx)
}

// WithField returns an entry from the global logger with one field set.
func WithField(key string, value any) *logrus.Entry {
	return L.WithField(key, value)
}

// WithFields returns an entry from the global logger with fields set.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return L.WithFields(fields)
}

// WithError returns an entry from the global logger carrying err.
func WithError(err error) *logrus.Entry {
	return L.WithError(err)
}

// Printf logs a formatted message at info level.
func Printf(format string, args ...any) { L.Infof(format, args...) }

// Println logs its arguments at info level.
func Println(args ...any) { L.Infoln(args...) }

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...any) { L.Debugf(format, args...) }

// Infof logs a formatted message at info level.
func Infof(format string, args ...any) { L.Infof(format, args...) }

// Warnf logs a formatted message at warning level.
func Warnf(format string, args ...any) { L.Warnf(format, args...) }

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...any) { L.Errorf(format, args...) }
