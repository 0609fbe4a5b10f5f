package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps logrus with file rotation. Output goes to both the rotating
// log file and stdout.
type Logger struct {
	*logrus.Logger
}

// New creates a Logger writing to dir/monitor.log at the given level.
// An empty dir disables the file output.
func New(dir, level string) (*Logger, error) {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		rotator := &lumberjack.Logger{
			Filename:   filepath.Join(dir, "monitor.log"),
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
		}
		l.SetOutput(io.MultiWriter(os.Stdout, rotator))
	}

	return &Logger{Logger: l}, nil
}

// NewNop returns a Logger that discards everything, for tests.
func NewNop() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Logger{Logger: l}
}
