package audit

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the on-disk timestamp format of an event.
const TimestampLayout = "2006-01-02 15:04:05"

const (
	flagYes = "Yes"
	flagNo  = "No"
)

// Event is one audit record. Events are immutable once written.
type Event struct {
	Timestamp  time.Time
	Actor      string
	Action     string
	Detail     string
	Suspicious bool
}

// Format renders e in its delimited wire form. The delimiter is not allowed
// in actor or action and is replaced there with '/'; the detail field may
// contain it.
func (e Event) Format() string {
	flag := flagNo
	if e.Suspicious {
		flag = flagYes
	}
	return strings.Join([]string{
		e.Timestamp.Format(TimestampLayout),
		sanitize(e.Actor),
		sanitize(e.Action),
		e.Detail,
		flag,
	}, "|")
}

// ParseEvent is the inverse of Format.
func ParseEvent(s string) (Event, error) {
	head := strings.SplitN(s, "|", 4)
	if len(head) != 4 {
		return Event{}, fmt.Errorf("expected 5 fields, got %d", len(head))
	}

	i := strings.LastIndex(head[3], "|")
	if i < 0 {
		return Event{}, fmt.Errorf("missing suspicious flag")
	}
	detail, flag := head[3][:i], head[3][i+1:]

	ts, err := time.ParseInLocation(TimestampLayout, head[0], time.Local)
	if err != nil {
		return Event{}, fmt.Errorf("bad timestamp: %w", err)
	}

	var suspicious bool
	switch flag {
	case flagYes:
		suspicious = true
	case flagNo:
	default:
		return Event{}, fmt.Errorf("bad suspicious flag %q", flag)
	}

	return Event{
		Timestamp:  ts,
		Actor:      head[1],
		Action:     head[2],
		Detail:     detail,
		Suspicious: suspicious,
	}, nil
}

func sanitize(s string) string {
	return strings.ReplaceAll(s, "|", "/")
}
