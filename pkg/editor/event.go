package editor

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	errs "github.com/matzehuels/flashtrack/pkg/errors"
)

// EventType names a discrete input event.
type EventType string

const (
	EventMove  EventType = "move"
	EventDown  EventType = "down"
	EventDrag  EventType = "drag"
	EventUp    EventType = "up"
	EventMode  EventType = "mode"
	EventClear EventType = "clear"
)

// Event is a serializable input event. Mode is only used by EventMode.
type Event struct {
	Type EventType `json:"type"`
	X    float64   `json:"x,omitempty"`
	Y    float64   `json:"y,omitempty"`
	Mode string    `json:"mode,omitempty"`
}

// Apply dispatches ev to the matching editor method.
func (e *Editor) Apply(ev Event) error {
	switch ev.Type {
	case EventMove:
		e.PointerMove(ev.X, ev.Y)
	case EventDown:
		e.PointerDown(ev.X, ev.Y)
	case EventDrag:
		e.PointerDrag(ev.X, ev.Y)
	case EventUp:
		e.PointerUp(ev.X, ev.Y)
	case EventMode:
		m, err := ParseMode(ev.Mode)
		if err != nil {
			return err
		}
		e.SetMode(m)
	case EventClear:
		e.Clear()
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown event type %q", ev.Type)
	}
	return nil
}

// ApplyAll applies events in order and stops at the first error.
func (e *Editor) ApplyAll(events []Event) error {
	for i, ev := range events {
		if err := e.Apply(ev); err != nil {
			return errs.Wrap(errs.GetCode(err), err, "event %d", i)
		}
	}
	return nil
}

// ParseScript reads one event per line:
//
//	# draw a triangle
//	mode draw
//	down 100 100
//	drag 150 100
//	up 200 100
//	clear
//
// Blank lines and lines starting with '#' are ignored.
func ParseScript(r io.Reader) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		ev, err := parseLine(strings.Fields(text))
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "line %d", line)
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "read script")
	}
	return events, nil
}

func parseLine(fields []string) (Event, error) {
	ev := Event{Type: EventType(strings.ToLower(fields[0]))}
	args := fields[1:]

	switch ev.Type {
	case EventMove, EventDown, EventDrag, EventUp:
		if len(args) != 2 {
			return ev, errs.New(errs.ErrCodeInvalidFormat, "%s takes x and y, got %d arguments", ev.Type, len(args))
		}
		var err error
		if ev.X, err = strconv.ParseFloat(args[0], 64); err != nil {
			return ev, errs.Wrap(errs.ErrCodeInvalidFormat, err, "x")
		}
		if ev.Y, err = strconv.ParseFloat(args[1], 64); err != nil {
			return ev, errs.Wrap(errs.ErrCodeInvalidFormat, err, "y")
		}
	case EventMode:
		if len(args) != 1 {
			return ev, errs.New(errs.ErrCodeInvalidFormat, "mode takes one argument")
		}
		if _, err := ParseMode(args[0]); err != nil {
			return ev, err
		}
		ev.Mode = args[0]
	case EventClear:
		if len(args) != 0 {
			return ev, errs.New(errs.ErrCodeInvalidFormat, "clear takes no arguments")
		}
	default:
		return ev, errs.New(errs.ErrCodeInvalidInput, "unknown event type %q", fields[0])
	}
	return ev, nil
}
