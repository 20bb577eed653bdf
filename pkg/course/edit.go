package course

import "github.com/matzehuels/flashtrack/pkg/geom"

// Connect adds an edge between a and b and deduplicates. It returns the id of
// the edge that joins them afterwards, which is the older edge when the pair
// was already connected.
func (c *Course) Connect(a, b NodeID) (EdgeID, error) {
	if _, err := c.AddEdge(a, b); err != nil {
		return 0, err
	}
	c.Deduplicate()
	id, _ := c.EdgeBetween(a, b)
	return id, nil
}

// Merge re-points every edge of mergee onto base, deletes mergee, removes the
// duplicates and self-loops this produced, and recomputes base's edges.
// Merging a node into itself or merging unknown nodes does nothing.
func (c *Course) Merge(base, mergee NodeID) {
	if base == mergee {
		return
	}
	if _, ok := c.nodes[base]; !ok {
		return
	}
	if _, ok := c.nodes[mergee]; !ok {
		return
	}

	for _, id := range c.edgeOrder {
		e := c.edges[id]
		if e.A == mergee {
			e.A = base
		}
		if e.B == mergee {
			e.B = base
		}
	}
	delete(c.nodes, mergee)
	c.nodeOrder = remove(c.nodeOrder, mergee)

	c.Deduplicate()
	for _, id := range c.EdgesTouching(base) {
		c.recompute(c.edges[id])
	}
}

// Subdivide splits edge {a,b} at node n: the edge becomes {a,n} and a new
// edge {n,b} is added. Both are recomputed and the graph deduplicated.
// Nothing happens if the edge or node is unknown or n is already an endpoint.
func (c *Course) Subdivide(edge EdgeID, n NodeID) {
	e, ok := c.edges[edge]
	if !ok {
		return
	}
	if _, ok := c.nodes[n]; !ok || e.Touches(n) {
		return
	}

	b := e.B
	e.B = n
	c.recompute(e)
	if _, err := c.AddEdge(n, b); err != nil {
		return
	}
	c.Deduplicate()
}

// SplitEdge adds a node at pos and subdivides edge with it. It returns the
// new node, or false if the edge does not exist.
func (c *Course) SplitEdge(edge EdgeID, pos geom.Point) (NodeID, bool) {
	if _, ok := c.edges[edge]; !ok {
		return NoNode, false
	}
	n := c.AddNode(pos)
	c.Subdivide(edge, n)
	return n, true
}

// Deduplicate keeps the first edge, in enumeration order, for every
// unordered node pair and deletes the rest. Self-loops are deleted too.
// It returns the number of edges removed.
func (c *Course) Deduplicate() int {
	seen := make(map[pair]struct{}, len(c.edgeOrder))
	var drop []EdgeID
	for _, id := range c.edgeOrder {
		e := c.edges[id]
		if e.A == e.B {
			drop = append(drop, id)
			continue
		}
		k := pairOf(e.A, e.B)
		if _, dup := seen[k]; dup {
			drop = append(drop, id)
			continue
		}
		seen[k] = struct{}{}
	}
	for _, id := range drop {
		c.DeleteEdge(id)
	}
	return len(drop)
}
