package api

import (
	"time"

	"github.com/matzehuels/flashtrack/pkg/course"
	"github.com/matzehuels/flashtrack/pkg/editor"
	"github.com/matzehuels/flashtrack/pkg/geom"
)

// Point is a course position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func toPoint(p geom.Point) Point { return Point{X: p.X, Y: p.Y} }

// Node is a node in a snapshot.
type Node struct {
	ID course.NodeID `json:"id"`
	Point
}

// Edge is an edge in a snapshot with its cached geometry.
type Edge struct {
	ID         course.EdgeID `json:"id"`
	A          course.NodeID `json:"a"`
	B          course.NodeID `json:"b"`
	P1         Point         `json:"p1"`
	P2         Point         `json:"p2"`
	Slope      float64       `json:"slope"`
	Intercept  float64       `json:"intercept"`
	Length     float64       `json:"length"`
	Angle      float64       `json:"angle"`
	Horizontal bool          `json:"horizontal"`
	Vertical   bool          `json:"vertical"`
}

// Hover is what lies under the last pointer position.
type Hover struct {
	Kind    string        `json:"kind,omitempty"` // "node", "start", "finish"
	Node    course.NodeID `json:"node,omitempty"`
	Edge    course.EdgeID `json:"edge,omitempty"`
	EdgePos *Point        `json:"edge_pos,omitempty"`
}

// Snapshot is the read-only view of a session.
type Snapshot struct {
	ID        string        `json:"id"`
	Name      string        `json:"name,omitempty"`
	Mode      string        `json:"mode"`
	Start     Point         `json:"start"`
	Finish    Point         `json:"finish"`
	Nodes     []Node        `json:"nodes"`
	Edges     []Edge        `json:"edges"`
	Hover     Hover         `json:"hover"`
	Base      course.NodeID `json:"base,omitempty"`
	Floating  *Point        `json:"floating,omitempty"`
	ExpiresAt time.Time     `json:"expires_at"`
}

func snapshot(ed *editor.Editor) Snapshot {
	c := ed.Course()
	snap := Snapshot{
		Mode:   ed.Mode().String(),
		Start:  toPoint(c.Start()),
		Finish: toPoint(c.Finish()),
		Nodes:  make([]Node, 0, c.NodeCount()),
		Edges:  make([]Edge, 0, c.EdgeCount()),
		Base:   ed.Base(),
	}
	for _, n := range c.Nodes() {
		snap.Nodes = append(snap.Nodes, Node{ID: n.ID, Point: toPoint(n.Pos)})
	}
	for _, e := range c.Edges() {
		snap.Edges = append(snap.Edges, Edge{
			ID:         e.ID,
			A:          e.A,
			B:          e.B,
			P1:         toPoint(e.Line.P1),
			P2:         toPoint(e.Line.P2),
			Slope:      e.Line.Slope,
			Intercept:  e.Line.Intercept,
			Length:     e.Line.Length,
			Angle:      e.Line.Angle,
			Horizontal: e.Line.Horizontal,
			Vertical:   e.Line.Vertical,
		})
	}

	h := ed.Hover()
	if h.HasNode {
		snap.Hover.Kind = h.Node.Kind.String()
		snap.Hover.Node = h.Node.Node
	}
	if h.HasEdge {
		snap.Hover.Edge = h.Edge
		p := toPoint(h.EdgePos)
		snap.Hover.EdgePos = &p
	}
	if p, ok := ed.Floating(); ok {
		fp := toPoint(p)
		snap.Floating = &fp
	}
	return snap
}
