package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestSlog(t *testing.T, level slog.Level) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestSlog(t, slog.LevelDebug)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG msg=dbg a=1",
		"level=INFO msg=inf b=2",
		"level=WARN msg=wrn c=3",
		"level=ERROR msg=err d=4",
	} {
		assert.Contains(t, out, want)
	}
}

func TestSlogLogger_RespectsLevel(t *testing.T) {
	log, buf := newTestSlog(t, slog.LevelWarn)
	ctx := context.Background()

	log.Info(ctx, "quiet")
	log.Warn(ctx, "loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newTestSlog(t, slog.LevelInfo)

	log.With("session", "s-1").Info(context.Background(), "hello", "k", "v")

	assert.Contains(t, buf.String(), "session=s-1")
	assert.Contains(t, buf.String(), "k=v")
}

func TestDiscard_DropsEverything(t *testing.T) {
	var log Logger = Discard()
	ctx := context.Background()
	log.Debug(ctx, "x")
	log.With("k", "v").Error(ctx, "y")
}

func TestNewTextLogger(t *testing.T) {
	ctx := context.Background()

	var quiet bytes.Buffer
	log := NewTextLogger(&quiet, false)
	log.Info(ctx, "console opened")
	log.Warn(ctx, "cannot read suspicious events", "error", "boom")
	assert.NotContains(t, quiet.String(), "console opened")
	assert.Contains(t, quiet.String(), "level=WARN")

	var verbose bytes.Buffer
	NewTextLogger(&verbose, true).Debug(ctx, "skipping undecryptable account", "user_id", 7)
	assert.Contains(t, verbose.String(), "user_id=7")
}
