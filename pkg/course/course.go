package course

import (
	"slices"

	errs "github.com/matzehuels/flashtrack/pkg/errors"
	"github.com/matzehuels/flashtrack/pkg/geom"
)

// Default sizes, in course pixels.
const (
	// DefaultNodeSize is the half-size of the hit box around a node. Half of
	// it is the threshold below which an edge counts as horizontal or vertical.
	DefaultNodeSize = 12.0
	// DefaultLandmarkSize is the radius of the start and finish circles.
	DefaultLandmarkSize = 40.0
)

// Default landmark positions for a fresh course.
var (
	DefaultStart  = geom.Pt(200, 400)
	DefaultFinish = geom.Pt(824, 400)
)

// NodeID identifies a node within one course. Ids start at 1 and are never
// reused, so the zero value means "no node".
type NodeID int

// EdgeID identifies an edge within one course. The zero value means "no edge".
type EdgeID int

// NoNode is the zero NodeID.
const NoNode NodeID = 0

// Node is a positioned vertex of the course graph.
type Node struct {
	ID  NodeID
	Pos geom.Point
}

// Edge is an undirected connection between two distinct nodes.
//
// After every recompute A is the endpoint with the smaller x (ties: smaller
// y), so Line.P1 is always A's position.
type Edge struct {
	ID   EdgeID
	A, B NodeID
	Line geom.Line
}

// Touches reports whether n is one of the edge's endpoints.
func (e Edge) Touches(n NodeID) bool { return e.A == n || e.B == n }

// Other returns the endpoint opposite n.
func (e Edge) Other(n NodeID) NodeID {
	if e.A == n {
		return e.B
	}
	return e.A
}

// Options configures hit testing for a course.
type Options struct {
	NodeSize     float64
	LandmarkSize float64
	TieBreak     TieBreak
}

// DefaultOptions returns the options used by the legacy desktop editor.
func DefaultOptions() Options {
	return Options{
		NodeSize:     DefaultNodeSize,
		LandmarkSize: DefaultLandmarkSize,
		TieBreak:     TieBreakNearest,
	}
}

func (o Options) withDefaults() Options {
	if o.NodeSize <= 0 {
		o.NodeSize = DefaultNodeSize
	}
	if o.LandmarkSize <= 0 {
		o.LandmarkSize = DefaultLandmarkSize
	}
	return o
}

// axisEps is the delta below which an edge is flagged horizontal/vertical.
func (o Options) axisEps() float64 { return o.NodeSize / 2 }

// Course is the planar course graph.
//
// The zero value is not usable; use [New] or [Import].
type Course struct {
	opts Options

	start, finish geom.Point

	nodes     map[NodeID]*Node
	nodeOrder []NodeID
	edges     map[EdgeID]*Edge
	edgeOrder []EdgeID

	lastNode NodeID
	lastEdge EdgeID
}

// New creates an empty course with the default start and finish positions.
// Zero sizes in opts fall back to the defaults.
func New(opts Options) *Course {
	return &Course{
		opts:   opts.withDefaults(),
		start:  DefaultStart,
		finish: DefaultFinish,
		nodes:  make(map[NodeID]*Node),
		edges:  make(map[EdgeID]*Edge),
	}
}

// Options returns the course's hit testing options.
func (c *Course) Options() Options { return c.opts }

// Start returns the start landmark position.
func (c *Course) Start() geom.Point { return c.start }

// Finish returns the finish landmark position.
func (c *Course) Finish() geom.Point { return c.finish }

// SetStart moves the start landmark.
func (c *Course) SetStart(p geom.Point) { c.start = p }

// SetFinish moves the finish landmark.
func (c *Course) SetFinish(p geom.Point) { c.finish = p }

// AddNode adds a node at pos and returns its id.
func (c *Course) AddNode(pos geom.Point) NodeID {
	c.lastNode++
	id := c.lastNode
	c.nodes[id] = &Node{ID: id, Pos: pos}
	c.nodeOrder = append(c.nodeOrder, id)
	return id
}

// DeleteNode removes every edge touching id, then the node itself.
// Unknown ids are ignored.
func (c *Course) DeleteNode(id NodeID) {
	if _, ok := c.nodes[id]; !ok {
		return
	}
	for _, e := range c.EdgesTouching(id) {
		c.DeleteEdge(e)
	}
	delete(c.nodes, id)
	c.nodeOrder = remove(c.nodeOrder, id)
}

// UpdateNode moves a node and recomputes the geometry of every edge touching
// it. Unknown ids are ignored.
func (c *Course) UpdateNode(id NodeID, pos geom.Point) {
	n, ok := c.nodes[id]
	if !ok {
		return
	}
	n.Pos = pos
	for _, e := range c.EdgesTouching(id) {
		c.recompute(c.edges[e])
	}
}

// AddEdge connects two existing, distinct nodes. It does not deduplicate;
// use [Course.Connect] from editing code.
func (c *Course) AddEdge(a, b NodeID) (EdgeID, error) {
	if _, ok := c.nodes[a]; !ok {
		return 0, errs.New(errs.ErrCodeInvalidInput, "unknown node %d", a)
	}
	if _, ok := c.nodes[b]; !ok {
		return 0, errs.New(errs.ErrCodeInvalidInput, "unknown node %d", b)
	}
	if a == b {
		return 0, errs.New(errs.ErrCodeInvalidInput, "edge endpoints must differ (node %d)", a)
	}
	c.lastEdge++
	e := &Edge{ID: c.lastEdge, A: a, B: b}
	c.recompute(e)
	c.edges[e.ID] = e
	c.edgeOrder = append(c.edgeOrder, e.ID)
	return e.ID, nil
}

// DeleteEdge removes an edge. Unknown ids are ignored.
func (c *Course) DeleteEdge(id EdgeID) {
	if _, ok := c.edges[id]; !ok {
		return
	}
	delete(c.edges, id)
	c.edgeOrder = remove(c.edgeOrder, id)
}

// EdgesTouching returns the ids of edges with n as an endpoint, in
// enumeration order.
func (c *Course) EdgesTouching(n NodeID) []EdgeID {
	var out []EdgeID
	for _, id := range c.edgeOrder {
		if c.edges[id].Touches(n) {
			out = append(out, id)
		}
	}
	return out
}

// Node looks up a node by id.
func (c *Course) Node(id NodeID) (Node, bool) {
	n, ok := c.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Edge looks up an edge by id.
func (c *Course) Edge(id EdgeID) (Edge, bool) {
	e, ok := c.edges[id]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// Nodes returns a snapshot of all nodes in insertion order.
func (c *Course) Nodes() []Node {
	out := make([]Node, len(c.nodeOrder))
	for i, id := range c.nodeOrder {
		out[i] = *c.nodes[id]
	}
	return out
}

// Edges returns a snapshot of all edges in insertion order.
func (c *Course) Edges() []Edge {
	out := make([]Edge, len(c.edgeOrder))
	for i, id := range c.edgeOrder {
		out[i] = *c.edges[id]
	}
	return out
}

// NodeCount returns the number of nodes.
func (c *Course) NodeCount() int { return len(c.nodeOrder) }

// EdgeCount returns the number of edges.
func (c *Course) EdgeCount() int { return len(c.edgeOrder) }

// NodeIndex returns the position of a node in enumeration order, or -1.
func (c *Course) NodeIndex(id NodeID) int { return slices.Index(c.nodeOrder, id) }

// EdgeIndex returns the position of an edge in enumeration order, or -1.
func (c *Course) EdgeIndex(id EdgeID) int { return slices.Index(c.edgeOrder, id) }

// NodeAt returns the first node positioned exactly at p.
func (c *Course) NodeAt(p geom.Point) (NodeID, bool) {
	for _, id := range c.nodeOrder {
		if c.nodes[id].Pos == p {
			return id, true
		}
	}
	return NoNode, false
}

// EdgeBetween returns the first edge joining a and b in either direction.
func (c *Course) EdgeBetween(a, b NodeID) (EdgeID, bool) {
	for _, id := range c.edgeOrder {
		e := c.edges[id]
		if (e.A == a && e.B == b) || (e.A == b && e.B == a) {
			return id, true
		}
	}
	return 0, false
}

// Clear removes every node and edge. The landmarks stay where they are and
// ids keep increasing.
func (c *Course) Clear() {
	clear(c.nodes)
	clear(c.edges)
	c.nodeOrder = c.nodeOrder[:0]
	c.edgeOrder = c.edgeOrder[:0]
}

// Validate checks the graph invariants and returns a MALFORMED_GRAPH error
// describing the first violation.
func (c *Course) Validate() error {
	if len(c.nodes) != len(c.nodeOrder) {
		return errs.New(errs.ErrCodeMalformedGraph, "node index out of sync: %d nodes, %d ordered", len(c.nodes), len(c.nodeOrder))
	}
	if len(c.edges) != len(c.edgeOrder) {
		return errs.New(errs.ErrCodeMalformedGraph, "edge index out of sync: %d edges, %d ordered", len(c.edges), len(c.edgeOrder))
	}
	seen := make(map[pair]EdgeID, len(c.edgeOrder))
	for _, id := range c.edgeOrder {
		e, ok := c.edges[id]
		if !ok {
			return errs.New(errs.ErrCodeMalformedGraph, "edge %d is ordered but missing", id)
		}
		a, okA := c.nodes[e.A]
		b, okB := c.nodes[e.B]
		if !okA || !okB {
			return errs.New(errs.ErrCodeMalformedGraph, "edge %d references a missing node (%d, %d)", id, e.A, e.B)
		}
		if e.A == e.B {
			return errs.New(errs.ErrCodeMalformedGraph, "edge %d is a self-loop on node %d", id, e.A)
		}
		k := pairOf(e.A, e.B)
		if first, dup := seen[k]; dup {
			return errs.New(errs.ErrCodeMalformedGraph, "edges %d and %d join the same nodes", first, id)
		}
		seen[k] = id
		if e.Line.P1 != a.Pos || e.Line.P2 != b.Pos {
			return errs.New(errs.ErrCodeMalformedGraph, "edge %d geometry is stale", id)
		}
	}
	return nil
}

// recompute refreshes an edge's cached line and normalizes its endpoint order.
func (c *Course) recompute(e *Edge) {
	l := geom.NewLine(c.nodes[e.A].Pos, c.nodes[e.B].Pos, c.opts.axisEps())
	if l.Swapped() {
		e.A, e.B = e.B, e.A
	}
	e.Line = l
}

// pair is an unordered node pair key.
type pair struct{ lo, hi NodeID }

func pairOf(a, b NodeID) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

func remove[T comparable](s []T, v T) []T {
	if i := slices.Index(s, v); i >= 0 {
		return slices.Delete(s, i, i+1)
	}
	return s
}
