package course

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/flashtrack/pkg/geom"
)

// TieBreak selects the winner when several nodes fall inside the hit box.
type TieBreak int

const (
	// TieBreakNearest picks the closest candidate; equal distances go to the
	// later one in enumeration order.
	TieBreakNearest TieBreak = iota
	// TieBreakLast picks the last candidate in enumeration order, with the
	// landmarks after all nodes. This matches the legacy desktop editor.
	TieBreakLast
)

// String returns the config name of the rule.
func (t TieBreak) String() string {
	switch t {
	case TieBreakNearest:
		return "nearest"
	case TieBreakLast:
		return "last"
	default:
		return fmt.Sprintf("TieBreak(%d)", int(t))
	}
}

// ParseTieBreak parses "nearest" or "last".
func ParseTieBreak(s string) (TieBreak, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nearest":
		return TieBreakNearest, nil
	case "last":
		return TieBreakLast, nil
	default:
		return 0, fmt.Errorf("unknown tie-break rule %q (want nearest or last)", s)
	}
}

// Kind tells what a [Candidate] refers to.
type Kind int

const (
	KindNode Kind = iota
	KindStart
	KindFinish
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindFinish:
		return "finish"
	default:
		return "node"
	}
}

// Candidate is a node or landmark under the pointer.
type Candidate struct {
	Kind Kind
	Node NodeID // set when Kind is KindNode
	Pos  geom.Point
}

// IsLandmark reports whether the candidate is the start or the finish.
func (c Candidate) IsLandmark() bool { return c.Kind != KindNode }

// CandidateNode finds the node whose NodeSize box contains p, skipping
// exclude. When landmarks is set, start and finish compete as well using
// the LandmarkSize box. Ties follow the course's [TieBreak] rule.
func (c *Course) CandidateNode(p geom.Point, exclude NodeID, landmarks bool) (Candidate, bool) {
	var (
		best     Candidate
		bestDist float64
		found    bool
	)
	consider := func(cand Candidate) {
		d := cand.Pos.Distance(p)
		if c.opts.TieBreak == TieBreakLast || !found || d <= bestDist {
			best, bestDist = cand, d
		}
		found = true
	}

	for _, id := range c.nodeOrder {
		if id == exclude {
			continue
		}
		n := c.nodes[id]
		if n.Pos.WithinBox(p, c.opts.NodeSize) {
			consider(Candidate{Kind: KindNode, Node: id, Pos: n.Pos})
		}
	}
	if landmarks {
		if c.start.WithinBox(p, c.opts.LandmarkSize) {
			consider(Candidate{Kind: KindStart, Pos: c.start})
		}
		if c.finish.WithinBox(p, c.opts.LandmarkSize) {
			consider(Candidate{Kind: KindFinish, Pos: c.finish})
		}
	}
	return best, found
}

// CandidateEdge finds the first edge, in enumeration order and not listed in
// exclude, whose bounds contain p within NodeSize and whose projection of p
// lies within NodeSize of p. It returns the edge and the projected point.
func (c *Course) CandidateEdge(p geom.Point, exclude []EdgeID) (EdgeID, geom.Point, bool) {
	tol := c.opts.NodeSize
	for _, id := range c.edgeOrder {
		if slices.Contains(exclude, id) {
			continue
		}
		l := c.edges[id].Line
		if !l.WithinBounds(p, tol) {
			continue
		}
		q := l.Project(p)
		if q.Distance(p) < tol {
			return id, q, true
		}
	}
	return 0, geom.Point{}, false
}
