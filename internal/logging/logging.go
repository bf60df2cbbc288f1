package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const fileName = "comedyclip.log"

type Options struct {
	Level string
	// File is the rotated log path; empty means DefaultFile().
	File string
	// Console also receives every entry when set. The TUI leaves it nil.
	Console io.Writer
}

// New builds a logger writing to a rotated file and optionally a console.
// The returned closer flushes and closes the file.
func New(o Options) (*logrus.Logger, io.Closer, error) {
	level, err := ParseLevel(o.Level)
	if err != nil {
		return nil, nil, err
	}
	path := o.File
	if path == "" {
		path = DefaultFile()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, errors.Wrap(err, "create log directory")
	}

	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}

	l := logrus.New()
	l.SetLevel(level)
	if o.Console != nil {
		l.SetOutput(io.MultiWriter(o.Console, file))
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetOutput(file)
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return l, file, nil
}

// ParseLevel accepts quiet, normal, verbose and any logrus level name.
func ParseLevel(s string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return logrus.InfoLevel, nil
	case "quiet":
		return logrus.ErrorLevel, nil
	case "verbose":
		return logrus.DebugLevel, nil
	}
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel, errors.Errorf("invalid log level %q (use quiet, normal, verbose or debug)", s)
	}
	return lvl, nil
}

// DefaultFile lives under the user cache directory, or ./.cache when none exists.
func DefaultFile() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = ".cache"
	}
	return filepath.Join(base, "comedyclip", "logs", fileName)
}
