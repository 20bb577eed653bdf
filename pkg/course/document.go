package course

import (
	errs "github.com/matzehuels/flashtrack/pkg/errors"
	"github.com/matzehuels/flashtrack/pkg/geom"
)

// EdgeRef is an edge as a pair of indices into [Document.Nodes].
type EdgeRef [2]int

// Document is the persistent form of a course. Node identity is the index in
// Nodes; edges reference those indices.
type Document struct {
	Start  geom.Point
	Finish geom.Point
	Nodes  []geom.Point
	Edges  []EdgeRef
}

// Import builds a new course from doc. See [Course.Load].
func Import(doc Document, opts Options) (*Course, error) {
	c := New(opts)
	if err := c.Load(doc); err != nil {
		return nil, err
	}
	return c, nil
}

// Load replaces the course contents with doc.
//
// Edge references outside the node range fail with MALFORMED_GRAPH and leave
// the course untouched. Self-loops are dropped and duplicate pairs collapse
// to their first occurrence, as [Course.Deduplicate] would. Edges between
// distinct nodes at the same position are kept; their lines are degenerate.
func (c *Course) Load(doc Document) error {
	for i, ref := range doc.Edges {
		for _, idx := range ref {
			if idx < 0 || idx >= len(doc.Nodes) {
				return errs.New(errs.ErrCodeMalformedGraph,
					"edge %d references node %d, course has %d nodes", i, idx, len(doc.Nodes))
			}
		}
	}

	next := New(c.opts)
	next.start, next.finish = doc.Start, doc.Finish

	ids := make([]NodeID, len(doc.Nodes))
	for i, p := range doc.Nodes {
		ids[i] = next.AddNode(p)
	}
	for _, ref := range doc.Edges {
		if ref[0] == ref[1] {
			continue
		}
		if _, err := next.AddEdge(ids[ref[0]], ids[ref[1]]); err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "load edge %v", ref)
		}
	}
	next.Deduplicate()

	*c = *next
	return nil
}

// Export returns the persistent form of the course. Node indices follow
// enumeration order; each edge is written as [A, B].
func (c *Course) Export() Document {
	doc := Document{
		Start:  c.start,
		Finish: c.finish,
		Nodes:  make([]geom.Point, len(c.nodeOrder)),
		Edges:  make([]EdgeRef, len(c.edgeOrder)),
	}
	index := make(map[NodeID]int, len(c.nodeOrder))
	for i, id := range c.nodeOrder {
		doc.Nodes[i] = c.nodes[id].Pos
		index[id] = i
	}
	for i, id := range c.edgeOrder {
		e := c.edges[id]
		doc.Edges[i] = EdgeRef{index[e.A], index[e.B]}
	}
	return doc
}
