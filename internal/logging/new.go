package logging

import (
	"io"
	"os"

	"github.com/dmitrijs2005/urbanmobility/internal/filex"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects where diagnostics go.
type Options struct {
	// File, when set, receives JSON logs through a size-rotated writer.
	// Otherwise warnings and errors go to stderr as text.
	File  string
	Debug bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds the process logger. The returned Closer flushes and closes the
// log file, if any.
func New(opts Options) (Logger, io.Closer, error) {
	if opts.File == "" {
		return NewTextLogger(os.Stderr, opts.Debug), nopCloser{}, nil
	}

	if _, err := filex.EnsureParentDir(opts.File); err != nil {
		return nil, nil, err
	}
	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	l := logrus.New()
	l.SetOutput(rotator)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.InfoLevel)
	if opts.Debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return NewLogrusLogger(l), rotator, nil
}
