// Package play checks a traced run through a course.
//
// A [Run] consumes tracked positions one at a time. It waits until a position
// lands inside the start circle, then records the trace. Each new trace
// segment is tested against every course edge: a crossing ends the run as
// [OutOfBounds], reaching the finish circle ends it as [Complete].
//
//	run := play.New(c)
//	for _, p := range positions {
//	    if run.Feed(p).Done() {
//	        break
//	    }
//	}
package play

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/flashtrack/pkg/course"
	errs "github.com/matzehuels/flashtrack/pkg/errors"
	"github.com/matzehuels/flashtrack/pkg/geom"
)

// State is the progress of a run.
type State int

const (
	Waiting State = iota
	Drawing
	Complete
	OutOfBounds
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Drawing:
		return "drawing"
	case Complete:
		return "complete"
	case OutOfBounds:
		return "out-of-bounds"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Done reports whether the run has ended.
func (s State) Done() bool { return s == Complete || s == OutOfBounds }

// Run is one attempt at a course. It keeps a snapshot of the course taken
// by [New]; later edits to the course are not seen.
type Run struct {
	start, finish geom.Point
	radius        float64
	axisEps       float64
	edges         []course.Edge

	state   State
	trace   []geom.Point
	crossed course.EdgeID
}

// New starts a run on a snapshot of c. The start and finish circles have
// radius Options().LandmarkSize.
func New(c *course.Course) *Run {
	opts := c.Options()
	return &Run{
		start:   c.Start(),
		finish:  c.Finish(),
		radius:  opts.LandmarkSize,
		axisEps: opts.NodeSize / 2,
		edges:   c.Edges(),
	}
}

// State returns the current state.
func (r *Run) State() State { return r.state }

// Trace returns the recorded positions.
func (r *Run) Trace() []geom.Point {
	return append([]geom.Point(nil), r.trace...)
}

// Crossed returns the edge that ended the run out of bounds.
func (r *Run) Crossed() (course.EdgeID, bool) {
	return r.crossed, r.state == OutOfBounds
}

// Feed advances the run by one tracked position. Positions fed after the
// run has ended are ignored.
func (r *Run) Feed(p geom.Point) State {
	switch r.state {
	case Waiting:
		if geom.WithinCircle(p, r.start, r.radius) {
			r.state = Drawing
			r.trace = append(r.trace[:0], p)
		}
	case Drawing:
		prev := r.trace[len(r.trace)-1]
		r.trace = append(r.trace, p)
		seg := geom.NewLine(prev, p, r.axisEps)
		for _, e := range r.edges {
			if geom.Intersects(seg, e.Line) {
				r.state = OutOfBounds
				r.crossed = e.ID
				return r.state
			}
		}
		if geom.WithinCircle(p, r.finish, r.radius) {
			r.state = Complete
		}
	}
	return r.state
}

// FeedAll feeds positions until the run ends and returns the final state.
func (r *Run) FeedAll(ps []geom.Point) State {
	for _, p := range ps {
		if r.Feed(p).Done() {
			break
		}
	}
	return r.state
}

// Reset discards the trace and waits for the start circle again.
func (r *Run) Reset() {
	r.state = Waiting
	r.trace = r.trace[:0]
	r.crossed = 0
}

// ParseTrace reads one "x y" position per line. Blank lines and lines
// starting with '#' are skipped; commas may separate the coordinates.
func ParseTrace(rd io.Reader) ([]geom.Point, error) {
	var ps []geom.Point
	sc := bufio.NewScanner(rd)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
		if len(fields) != 2 {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "line %d: want \"x y\", got %q", n, line)
		}
		x, errX := strconv.ParseFloat(fields[0], 64)
		y, errY := strconv.ParseFloat(fields[1], 64)
		if errX != nil || errY != nil {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "line %d: bad coordinate in %q", n, line)
		}
		ps = append(ps, geom.Pt(x, y))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	return ps, nil
}
