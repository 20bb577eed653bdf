package editor

import (
	"slices"
	"testing"

	"github.com/matzehuels/flashtrack/pkg/course"
	"github.com/matzehuels/flashtrack/pkg/geom"
	"github.com/matzehuels/flashtrack/pkg/observability"
)

// build returns an editor over a course with the given nodes and edges, and
// the node ids in index order.
func build(t *testing.T, nodes []geom.Point, edges ...course.EdgeRef) (*Editor, []course.NodeID) {
	t.Helper()
	c, err := course.Import(course.Document{
		Start:  course.DefaultStart,
		Finish: course.DefaultFinish,
		Nodes:  nodes,
		Edges:  edges,
	}, course.DefaultOptions())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	var ids []course.NodeID
	for _, n := range c.Nodes() {
		ids = append(ids, n.ID)
	}
	return New(c), ids
}

func checkCounts(t *testing.T, ed *Editor, nodes, edges int) {
	t.Helper()
	c := ed.Course()
	if c.NodeCount() != nodes || c.EdgeCount() != edges {
		t.Errorf("counts = %d nodes, %d edges; want %d, %d", c.NodeCount(), c.EdgeCount(), nodes, edges)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func connected(ed *Editor, a, b course.NodeID) bool {
	_, ok := ed.Course().EdgeBetween(a, b)
	return ok
}

func TestDrawPath(t *testing.T) {
	ed := New(course.New(course.DefaultOptions()))

	ed.PointerDown(10, 10)
	base := ed.Base()
	if n, ok := ed.Course().Node(base); !ok || n.Pos != geom.Pt(10, 10) {
		t.Fatalf("base = %d at %v", base, n.Pos)
	}

	ed.PointerUp(50, 10)

	checkCounts(t, ed, 2, 1)
	doc := ed.Course().Export()
	if !slices.Equal(doc.Nodes, []geom.Point{geom.Pt(10, 10), geom.Pt(50, 10)}) {
		t.Errorf("nodes = %v", doc.Nodes)
	}
	if !ed.Course().Edges()[0].Line.Horizontal {
		t.Error("edge should be horizontal")
	}
	if ed.Base() != course.NoNode {
		t.Error("base not cleared after commit")
	}
}

func TestDrawFloatingEndpoint(t *testing.T) {
	ed := New(course.New(course.DefaultOptions()))

	ed.PointerDown(10, 10)
	ed.PointerDrag(30, 10)

	if p, ok := ed.Floating(); !ok || p != geom.Pt(30, 10) {
		t.Errorf("Floating() = %v, %v", p, ok)
	}
	checkCounts(t, ed, 1, 0)

	ed.PointerUp(60, 10)
	checkCounts(t, ed, 2, 1)
	if _, ok := ed.Floating(); ok {
		t.Error("floating endpoint not cleared after commit")
	}
}

func TestDrawToExistingNode(t *testing.T) {
	ed, ids := build(t, []geom.Point{geom.Pt(10, 10), geom.Pt(100, 10)})

	ed.PointerDown(12, 11)
	if ed.Base() != ids[0] {
		t.Fatalf("base = %d, want %d", ed.Base(), ids[0])
	}
	ed.PointerUp(98, 12)

	checkCounts(t, ed, 2, 1)
	if !connected(ed, ids[0], ids[1]) {
		t.Error("nodes not connected")
	}
}

func TestDrawAlreadyConnectedDeduplicates(t *testing.T) {
	ed, _ := build(t, []geom.Point{geom.Pt(10, 10), geom.Pt(100, 10)}, course.EdgeRef{0, 1})

	ed.PointerDown(100, 10)
	ed.PointerUp(10, 10)

	checkCounts(t, ed, 2, 1)
}

func TestDrawDiscardedAtBase(t *testing.T) {
	ed := New(course.New(course.DefaultOptions()))

	ed.PointerDown(10, 10)
	ed.PointerUp(14, 12)

	checkCounts(t, ed, 1, 0)
}

func TestDrawOntoEdgeSplits(t *testing.T) {
	ed, ids := build(t,
		[]geom.Point{geom.Pt(0, 100), geom.Pt(100, 100), geom.Pt(50, 0)},
		course.EdgeRef{0, 1},
	)
	a, b, top := ids[0], ids[1], ids[2]

	ed.PointerDown(50, 0)
	ed.PointerUp(50, 104)

	checkCounts(t, ed, 4, 3)
	n, ok := ed.Course().NodeAt(geom.Pt(50, 100))
	if !ok {
		t.Fatal("no node at the projected split point")
	}
	if connected(ed, a, b) {
		t.Error("split edge still present")
	}
	for _, other := range []course.NodeID{a, b, top} {
		if !connected(ed, n, other) {
			t.Errorf("split node not connected to %d", other)
		}
	}
}

func TestDrawStartsOnEdge(t *testing.T) {
	ed, ids := build(t, []geom.Point{geom.Pt(0, 0), geom.Pt(100, 0)}, course.EdgeRef{0, 1})

	ed.PointerDown(50, 3)
	base := ed.Base()
	if n, _ := ed.Course().Node(base); n.Pos != geom.Pt(50, 0) {
		t.Fatalf("base at %v, want split point (50,0)", n.Pos)
	}
	ed.PointerUp(50, 60)

	checkCounts(t, ed, 4, 3)
	if !connected(ed, ids[0], base) || !connected(ed, base, ids[1]) {
		t.Error("edge not subdivided at base")
	}
}

func TestDrawOntoBaseEdgeSplits(t *testing.T) {
	ed, ids := build(t, []geom.Point{geom.Pt(0, 0), geom.Pt(100, 0)}, course.EdgeRef{0, 1})
	b, c := ids[0], ids[1]

	ed.PointerDown(0, 0)
	ed.PointerDrag(50, 3)
	ed.PointerUp(50, 3)

	checkCounts(t, ed, 3, 2)
	n, ok := ed.Course().NodeAt(geom.Pt(50, 0))
	if !ok {
		t.Fatal("base edge not split at the projected point")
	}
	if connected(ed, b, c) || !connected(ed, b, n) || !connected(ed, n, c) {
		t.Error("edges = want {b,n} and {n,c}")
	}
}

func TestEraseNodeRemovesEdges(t *testing.T) {
	ed, ids := build(t,
		[]geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(20, 0)},
		course.EdgeRef{0, 1}, course.EdgeRef{1, 2},
	)
	ed.SetMode(ModeErase)

	ed.PointerDown(10, 0)

	checkCounts(t, ed, 2, 0)
	if _, ok := ed.Course().Node(ids[1]); ok {
		t.Error("erased node still present")
	}
}

func TestEraseEdge(t *testing.T) {
	ed, _ := build(t, []geom.Point{geom.Pt(0, 0), geom.Pt(100, 0)}, course.EdgeRef{0, 1})
	ed.SetMode(ModeErase)

	ed.PointerDown(50, 2)

	checkCounts(t, ed, 2, 0)
}

func TestErasePrefersNode(t *testing.T) {
	ed, ids := build(t,
		[]geom.Point{geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(50, 8)},
		course.EdgeRef{0, 1},
	)
	ed.SetMode(ModeErase)

	ed.PointerDown(50, 4)

	checkCounts(t, ed, 2, 1)
	if _, ok := ed.Course().Node(ids[2]); ok {
		t.Error("node under the pointer survived")
	}
}

func TestMoveMergesNodes(t *testing.T) {
	ed, ids := build(t,
		[]geom.Point{geom.Pt(0, 0), geom.Pt(40, 0), geom.Pt(0, 40), geom.Pt(40, 40)},
		course.EdgeRef{0, 2}, course.EdgeRef{0, 3}, course.EdgeRef{1, 3},
	)
	a, b, x, y := ids[0], ids[1], ids[2], ids[3]
	ed.SetMode(ModeMove)

	ed.PointerDown(0, 0)
	if sel, ok := ed.Selected(); !ok || sel.Node != a {
		t.Fatalf("selected = %+v, %v", sel, ok)
	}
	ed.PointerDrag(20, 0)
	ed.PointerUp(40, 0)

	checkCounts(t, ed, 3, 2)
	if _, ok := ed.Course().Node(a); ok {
		t.Error("dragged node still present after merge")
	}
	if !connected(ed, b, x) || !connected(ed, b, y) {
		t.Error("former edges of the dragged node were not re-pointed")
	}
	if _, ok := ed.Selected(); ok {
		t.Error("selection not cleared")
	}
}

func TestMoveDropOnEdgeSplits(t *testing.T) {
	ed, ids := build(t,
		[]geom.Point{geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(50, 60)},
		course.EdgeRef{0, 1},
	)
	a, b, n := ids[0], ids[1], ids[2]
	ed.SetMode(ModeMove)

	ed.PointerDown(50, 60)
	ed.PointerDrag(50, 5)
	ed.PointerUp(50, 5)

	checkCounts(t, ed, 3, 2)
	if got, _ := ed.Course().Node(n); got.Pos != geom.Pt(50, 0) {
		t.Errorf("dropped node at %v, want snapped to (50,0)", got.Pos)
	}
	if connected(ed, a, b) || !connected(ed, a, n) || !connected(ed, n, b) {
		t.Error("edge not subdivided by dropped node")
	}
}

func TestMoveSplitsOnPress(t *testing.T) {
	ed, ids := build(t, []geom.Point{geom.Pt(0, 0), geom.Pt(100, 0)}, course.EdgeRef{0, 1})
	ed.SetMode(ModeMove)

	ed.PointerDown(50, 3)
	sel, ok := ed.Selected()
	if !ok || sel.Kind != course.KindNode {
		t.Fatalf("selected = %+v, %v", sel, ok)
	}
	ed.PointerDrag(50, 30)
	ed.PointerDrag(50, 50)
	ed.PointerUp(50, 50)

	checkCounts(t, ed, 3, 2)
	if got, _ := ed.Course().Node(sel.Node); got.Pos != geom.Pt(50, 50) {
		t.Errorf("new node at %v, want (50,50)", got.Pos)
	}
	if !connected(ed, ids[0], sel.Node) || !connected(ed, sel.Node, ids[1]) {
		t.Error("pulled node lost its edges")
	}
}

func TestMoveClickDoesNotMove(t *testing.T) {
	ed, ids := build(t, []geom.Point{geom.Pt(0, 0)})
	ed.SetMode(ModeMove)

	ed.PointerDown(5, 5)
	ed.PointerUp(5, 5)

	if got, _ := ed.Course().Node(ids[0]); got.Pos != geom.Pt(0, 0) {
		t.Errorf("clicked node moved to %v", got.Pos)
	}
	checkCounts(t, ed, 1, 0)
}

func TestMoveDropOnEmptyKeepsDragPosition(t *testing.T) {
	ed, ids := build(t, []geom.Point{geom.Pt(0, 0)})
	ed.SetMode(ModeMove)

	ed.PointerDown(0, 0)
	ed.PointerDrag(40, 40)
	ed.PointerUp(45, 45)

	if got, _ := ed.Course().Node(ids[0]); got.Pos != geom.Pt(40, 40) {
		t.Errorf("node at %v, want last drag position (40,40)", got.Pos)
	}
}

func TestMoveRecomputesWhileDragging(t *testing.T) {
	ed, _ := build(t, []geom.Point{geom.Pt(0, 0), geom.Pt(100, 0)}, course.EdgeRef{0, 1})
	ed.SetMode(ModeMove)

	ed.PointerDown(0, 0)
	ed.PointerDrag(0, 50)

	l := ed.Course().Edges()[0].Line
	if l.Horizontal {
		t.Error("edge still flagged horizontal after its endpoint moved")
	}
	if err := ed.Course().Validate(); err != nil {
		t.Error(err)
	}
}

func TestMoveLandmark(t *testing.T) {
	ed, _ := build(t, []geom.Point{geom.Pt(262, 430)})
	ed.SetMode(ModeMove)

	ed.PointerDown(course.DefaultStart.X, course.DefaultStart.Y)
	if sel, ok := ed.Selected(); !ok || sel.Kind != course.KindStart {
		t.Fatalf("selected = %+v, %v", sel, ok)
	}
	ed.PointerDrag(250, 420)
	ed.PointerDrag(260, 430)
	ed.PointerUp(260, 430)

	if got := ed.Course().Start(); got != geom.Pt(260, 430) {
		t.Errorf("Start() = %v, want (260,430)", got)
	}
	checkCounts(t, ed, 1, 0)
}

func TestLandmarksOnlyInMoveMode(t *testing.T) {
	ed := New(course.New(course.DefaultOptions()))
	s := course.DefaultStart

	ed.PointerMove(s.X, s.Y)
	if ed.Hover().HasNode {
		t.Error("start is a candidate in draw mode")
	}

	ed.SetMode(ModeMove)
	ed.PointerMove(s.X, s.Y)
	if h := ed.Hover(); !h.HasNode || h.Node.Kind != course.KindStart {
		t.Errorf("hover = %+v, want start", h)
	}
}

func TestSetModeClearsTransientState(t *testing.T) {
	ed := New(course.New(course.DefaultOptions()))
	ed.PointerDown(10, 10)
	ed.PointerDrag(40, 10)

	ed.SetMode(ModeMove)

	if ed.Mode() != ModeMove {
		t.Errorf("Mode() = %v", ed.Mode())
	}
	if ed.Base() != course.NoNode {
		t.Error("base survived mode change")
	}
	if _, ok := ed.Floating(); ok {
		t.Error("floating endpoint survived mode change")
	}
	if h := ed.Hover(); h.HasNode || h.HasEdge {
		t.Error("hover survived mode change")
	}
}

func TestHover(t *testing.T) {
	ed, ids := build(t, []geom.Point{geom.Pt(10, 10), geom.Pt(10, 100)}, course.EdgeRef{0, 1})

	ed.PointerMove(12, 12)
	if h := ed.Hover(); !h.HasNode || h.Node.Node != ids[0] || h.HasEdge {
		t.Errorf("hover = %+v, want node %d only", h, ids[0])
	}

	ed.PointerMove(14, 50)
	if h := ed.Hover(); h.HasNode || !h.HasEdge || h.EdgePos != geom.Pt(10, 50) {
		t.Errorf("hover = %+v, want edge at (10,50)", h)
	}

	ed.PointerMove(500, 500)
	if h := ed.Hover(); h.HasNode || h.HasEdge {
		t.Errorf("hover = %+v, want none", h)
	}
}

type recordingHooks struct {
	observability.NoopEditHooks
	ops   []string
	modes []string
}

func (r *recordingHooks) OnEdit(op, _ string, _, _ int) { r.ops = append(r.ops, op) }
func (r *recordingHooks) OnModeChange(_, to string)     { r.modes = append(r.modes, to) }

func TestEditHooks(t *testing.T) {
	rec := &recordingHooks{}
	observability.SetEditHooks(rec)
	t.Cleanup(observability.Reset)

	ed := New(course.New(course.DefaultOptions()))
	ed.PointerDown(10, 10)
	ed.PointerUp(50, 10)
	ed.SetMode(ModeErase)
	ed.PointerDown(50, 10)

	if want := []string{"add-node", "connect", "erase-node"}; !slices.Equal(rec.ops, want) {
		t.Errorf("ops = %v, want %v", rec.ops, want)
	}
	if want := []string{"erase"}; !slices.Equal(rec.modes, want) {
		t.Errorf("modes = %v, want %v", rec.modes, want)
	}
}
