package audit

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/dmitrijs2005/urbanmobility/internal/cryptox"
	"github.com/dmitrijs2005/urbanmobility/internal/filex"
)

// Recorder is what services need from the audit log.
type Recorder interface {
	Record(ctx context.Context, actor, action, detail string, suspicious bool) error
}

// Reader gives access to recorded events.
type Reader interface {
	ReadAll(ctx context.Context) ([]Event, error)
	Suspicious(ctx context.Context) ([]Event, error)
}

// Line is the decode result of one line of the log file. Exactly one of
// Event and Err is meaningful.
type Line struct {
	Number int
	Event  Event
	Err    error
}

// Option customizes a Log.
type Option func(*Log)

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// Log is the encrypted append-only event log. Record is safe for concurrent
// use within a process: the whole line goes out in a single write to a file
// opened with O_APPEND, under a mutex.
type Log struct {
	path   string
	cipher *cryptox.FieldCipher
	now    func() time.Time

	mu   sync.Mutex
	file *os.File
}

// Open opens (creating if needed) the log file at path. The cipher must use
// the audit key, never the field-encryption key.
func Open(path string, c *cryptox.FieldCipher, opts ...Option) (*Log, error) {
	if !c.Ready() {
		return nil, common.ErrUninitializedCrypto
	}
	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}

	l := &Log{path: path, cipher: c, now: time.Now, file: f}
	for _, o := range opts {
		o(l)
	}
	return l, nil
}

// Path returns the file the log writes to.
func (l *Log) Path() string { return l.path }

// Record encrypts and appends one event.
func (l *Log) Record(ctx context.Context, actor, action, detail string, suspicious bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := Event{
		Timestamp:  l.now(),
		Actor:      actor,
		Action:     action,
		Detail:     detail,
		Suspicious: suspicious,
	}

	token, err := l.cipher.Encrypt(e.Format())
	if err != nil {
		return fmt.Errorf("encrypt audit event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return fs.ErrClosed
	}
	if _, err := l.file.Write([]byte(token + "\n")); err != nil {
		return fmt.Errorf("write audit event: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("sync audit log: %w", err)
	}
	return nil
}

// Scan decodes every non-empty line of the log in file order. Lines that
// fail to decrypt or parse come back with Err set. A missing file is an
// empty log.
func (l *Log) Scan(ctx context.Context) ([]Line, error) {
	return ScanFile(ctx, l.path, l.cipher)
}

// ReadAll returns the readable events in append order, skipping damaged
// lines.
func (l *Log) ReadAll(ctx context.Context) ([]Event, error) {
	lines, err := l.Scan(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(lines))
	for _, ln := range lines {
		if ln.Err == nil {
			events = append(events, ln.Event)
		}
	}
	return events, nil
}

// Suspicious returns the subsequence of ReadAll flagged as suspicious.
func (l *Log) Suspicious(ctx context.Context) ([]Event, error) {
	events, err := l.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	var out []Event
	for _, e := range events {
		if e.Suspicious {
			out = append(out, e)
		}
	}
	return out, nil
}

// Close releases the append handle. Reads keep working after Close.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ScanFile decodes the log file at path with c. It is used by Log and by
// the offline key rotation, which has no open Log. An uninitialized cipher
// fails the whole scan instead of marking every line damaged.
func ScanFile(ctx context.Context, path string, c *cryptox.FieldCipher) ([]Line, error) {
	if !c.Ready() {
		return nil, common.ErrUninitializedCrypto
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var lines []Line
	r := bufio.NewReader(f)

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		chunk, readErr := r.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("read audit log: %w", readErr)
		}

		if raw := bytes.TrimSpace(chunk); len(raw) > 0 {
			lines = append(lines, decodeLine(n, raw, c))
		}

		if readErr != nil {
			break
		}
	}
	return lines, nil
}

func decodeLine(n int, raw []byte, c *cryptox.FieldCipher) Line {
	ln := Line{Number: n}

	plain, err := c.Open(string(raw))
	if err != nil {
		ln.Err = fmt.Errorf("line %d: %w", n, err)
		return ln
	}

	ln.Event, err = ParseEvent(plain)
	if err != nil {
		ln.Err = fmt.Errorf("line %d: %w", n, err)
	}
	return ln
}
