// Package editor turns pointer events into course edits.
//
// An [Editor] owns a [course.Course] and a mode ([ModeDraw], [ModeMove] or
// [ModeErase]). Each event is handled to completion: the hover candidates are
// refreshed at the event position, then the mode decides which editing
// operation runs. Draw and Move commit on pointer up; Erase acts on pointer
// down.
//
//	ed := editor.New(course.New(course.DefaultOptions()))
//	ed.PointerDown(10, 10)
//	ed.PointerUp(50, 10) // edge from (10,10) to (50,10)
package editor

import (
	"fmt"
	"strings"

	"github.com/matzehuels/flashtrack/pkg/course"
	errs "github.com/matzehuels/flashtrack/pkg/errors"
	"github.com/matzehuels/flashtrack/pkg/geom"
	"github.com/matzehuels/flashtrack/pkg/observability"
)

// Mode selects what pointer events do.
type Mode int

const (
	ModeDraw Mode = iota
	ModeMove
	ModeErase
)

func (m Mode) String() string {
	switch m {
	case ModeDraw:
		return "draw"
	case ModeMove:
		return "move"
	case ModeErase:
		return "erase"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "draw", "move" or "erase".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draw":
		return ModeDraw, nil
	case "move":
		return ModeMove, nil
	case "erase":
		return ModeErase, nil
	default:
		return 0, errs.New(errs.ErrCodeInvalidMode, "unknown mode %q (want draw, move or erase)", s)
	}
}

// Hover describes what is under the pointer. Edge is only looked up when no
// node qualifies.
type Hover struct {
	Node    course.Candidate
	HasNode bool
	Edge    course.EdgeID
	EdgePos geom.Point // projection of the pointer onto Edge
	HasEdge bool
}

// Editor is the interaction state machine. It is not safe for concurrent use.
type Editor struct {
	course *course.Course
	mode   Mode
	hover  Hover

	base     course.NodeID // edge start while drawing
	floating geom.Point    // uncommitted edge end while drawing
	floats   bool

	selected    course.Candidate // node or landmark being moved
	hasSelected bool
}

// New returns an editor in draw mode operating on c.
func New(c *course.Course) *Editor {
	return &Editor{course: c}
}

// Course returns the edited course. Callers must not mutate it directly.
func (e *Editor) Course() *course.Course { return e.course }

// Mode returns the current mode.
func (e *Editor) Mode() Mode { return e.mode }

// Hover returns the current hover candidates.
func (e *Editor) Hover() Hover { return e.hover }

// Base returns the node a pending edge starts from, or course.NoNode.
func (e *Editor) Base() course.NodeID { return e.base }

// Floating returns the uncommitted end of the edge being drawn.
func (e *Editor) Floating() (geom.Point, bool) { return e.floating, e.floats }

// Selected returns the node or landmark being moved.
func (e *Editor) Selected() (course.Candidate, bool) { return e.selected, e.hasSelected }

// SetMode switches modes and drops all transient state.
func (e *Editor) SetMode(m Mode) {
	from := e.mode
	e.mode = m
	e.reset()
	observability.Edit().OnModeChange(from.String(), m.String())
}

// Load replaces the course contents with doc. On error the course and the
// editor state are unchanged.
func (e *Editor) Load(doc course.Document) error {
	if err := e.course.Load(doc); err != nil {
		return err
	}
	e.reset()
	return nil
}

// Clear removes all nodes and edges, keeping the landmarks.
func (e *Editor) Clear() {
	e.course.Clear()
	e.reset()
	e.report("clear")
}

func (e *Editor) reset() {
	e.hover = Hover{}
	e.base = course.NoNode
	e.floating, e.floats = geom.Point{}, false
	e.selected, e.hasSelected = course.Candidate{}, false
}

// PointerMove refreshes the hover candidates.
func (e *Editor) PointerMove(x, y float64) {
	e.refreshHover(geom.Pt(x, y))
}

// PointerDown starts an edge (draw), picks up a node or landmark (move), or
// deletes what is under the pointer (erase). In draw and move mode, pressing
// on an edge splits it and uses the new node.
func (e *Editor) PointerDown(x, y float64) {
	p := geom.Pt(x, y)
	e.refreshHover(p)

	switch e.mode {
	case ModeDraw:
		switch {
		case e.hover.HasNode:
			e.base = e.hover.Node.Node
		case e.hover.HasEdge:
			e.base = e.split()
		default:
			e.base = e.course.AddNode(p)
			e.report("add-node")
		}
		e.floating, e.floats = p, false

	case ModeMove:
		switch {
		case e.hover.HasNode:
			e.selected, e.hasSelected = e.hover.Node, true
		case e.hover.HasEdge:
			n := e.split()
			node, _ := e.course.Node(n)
			e.selected = course.Candidate{Kind: course.KindNode, Node: n, Pos: node.Pos}
			e.hasSelected = true
		}

	case ModeErase:
		switch {
		case e.hover.HasNode && !e.hover.Node.IsLandmark():
			e.course.DeleteNode(e.hover.Node.Node)
			e.report("erase-node")
		case e.hover.HasEdge:
			e.course.DeleteEdge(e.hover.Edge)
			e.report("erase-edge")
		}
		e.refreshHover(p)
	}
}

// PointerDrag moves the selected node or landmark (move) or the floating
// edge end (draw).
func (e *Editor) PointerDrag(x, y float64) {
	p := geom.Pt(x, y)
	e.refreshHover(p)
	e.drag(p)
}

// PointerUp commits at its position. Move merges the dropped node into a
// node candidate or splits an edge candidate with it, and otherwise leaves
// the node where the last drag put it. Draw connects the base to the node,
// edge split point, or new node at the release position.
func (e *Editor) PointerUp(x, y float64) {
	p := geom.Pt(x, y)
	e.refreshHover(p)

	switch e.mode {
	case ModeMove:
		if e.hasSelected {
			e.drop()
		}
	case ModeDraw:
		if e.base != course.NoNode {
			e.commit(p)
		}
	}

	e.base = course.NoNode
	e.floating, e.floats = geom.Point{}, false
	e.selected, e.hasSelected = course.Candidate{}, false
	e.refreshHover(p)
}

func (e *Editor) drag(p geom.Point) {
	switch e.mode {
	case ModeMove:
		if !e.hasSelected {
			return
		}
		switch e.selected.Kind {
		case course.KindStart:
			e.course.SetStart(p)
		case course.KindFinish:
			e.course.SetFinish(p)
		default:
			e.course.UpdateNode(e.selected.Node, p)
		}
		e.selected.Pos = p
	case ModeDraw:
		if e.base != course.NoNode {
			e.floating, e.floats = p, true
		}
	}
}

func (e *Editor) drop() {
	sel := e.selected
	switch {
	case sel.Kind == course.KindStart:
		e.report("move-start")
	case sel.Kind == course.KindFinish:
		e.report("move-finish")
	case e.hover.HasNode && !e.hover.Node.IsLandmark():
		e.course.Merge(e.hover.Node.Node, sel.Node)
		e.report("merge")
	case e.hover.HasEdge:
		e.course.UpdateNode(sel.Node, e.hover.EdgePos)
		e.course.Subdivide(e.hover.Edge, sel.Node)
		e.report("split")
	default:
		e.report("move")
	}
}

func (e *Editor) commit(p geom.Point) {
	basePos, ok := e.course.Node(e.base)
	if !ok {
		return
	}

	var target course.NodeID
	switch {
	case e.hover.HasNode:
		if e.hover.Node.IsLandmark() || e.hover.Node.Node == e.base {
			return
		}
		target = e.hover.Node.Node
	case e.hover.HasEdge:
		target = e.split()
	case basePos.Pos.WithinBox(p, e.course.Options().NodeSize):
		return
	default:
		target = e.course.AddNode(p)
	}
	if _, err := e.course.Connect(e.base, target); err != nil {
		return
	}
	e.report("connect")
}

// split subdivides the hovered edge at the projected point.
func (e *Editor) split() course.NodeID {
	n, ok := e.course.SplitEdge(e.hover.Edge, e.hover.EdgePos)
	if !ok {
		return course.NoNode
	}
	e.report("split")
	return n
}

// refreshHover recomputes the candidates at p. A node being moved never
// candidates against itself, and its edges are skipped so it is not dropped
// onto them. The edge base in Draw mode is not excluded: releasing on one of
// its own edges splits that edge.
func (e *Editor) refreshHover(p geom.Point) {
	landmarks := e.mode == ModeMove && !e.hasSelected
	exclude := course.NoNode
	if e.hasSelected && !e.selected.IsLandmark() {
		exclude = e.selected.Node
	}

	e.hover = Hover{}
	if cand, ok := e.course.CandidateNode(p, exclude, landmarks); ok {
		e.hover.Node, e.hover.HasNode = cand, true
		return
	}
	var skip []course.EdgeID
	if exclude != course.NoNode {
		skip = e.course.EdgesTouching(exclude)
	}
	if id, q, ok := e.course.CandidateEdge(p, skip); ok {
		e.hover.Edge, e.hover.EdgePos, e.hover.HasEdge = id, q, true
	}
}

func (e *Editor) report(op string) {
	observability.Edit().OnEdit(op, e.mode.String(), e.course.NodeCount(), e.course.EdgeCount())
}
