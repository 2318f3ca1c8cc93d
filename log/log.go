// Package log is the process-wide logger: logrus with optional rotated file
// output.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level      string
	File       string // empty logs to stderr only
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Fields = logrus.Fields

var std = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Init applies cfg to the package logger. An unknown level is an error and
// leaves the logger unchanged.
func Init(cfg Config) error {
	level := logrus.InfoLevel
	if cfg.Level != "" {
		var err error
		if level, err = logrus.ParseLevel(cfg.Level); err != nil {
			return err
		}
	}
	std.SetLevel(level)

	if cfg.File == "" {
		std.SetOutput(os.Stderr)
		return nil
	}
	std.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}))
	return nil
}

// SetOutput redirects log output. Tests use it to silence or capture logs.
func SetOutput(w io.Writer) { std.SetOutput(w) }

func WithFields(f Fields) *logrus.Entry { return std.WithFields(f) }

func Debugf(format string, args ...any) { std.Debugf(format, args...) }
func Infof(format string, args ...any)  { std.Infof(format, args...) }
func Warnf(format string, args ...any)  { std.Warnf(format, args...) }
func Error(args ...any)                 { std.Error(args...) }
func Fatal(args ...any)                 { std.Fatal(args...) }
