// Package course provides the planar course graph: positioned nodes joined by
// straight edges, plus the fixed start and finish landmarks.
//
// # Overview
//
// A [Course] is an arena of nodes and edges addressed by stable integer ids.
// Edges hold node ids, never positions, and cache their line geometry
// ([geom.Line]). The cache is recomputed whenever an endpoint moves or an edge
// is re-pointed, so readers can always trust [Edge.Line].
//
// Both nodes and edges enumerate in insertion order. The order is what
// [Course.Export] turns into persistent indices, so it must round-trip.
//
// # Basic Usage
//
//	c := course.New(course.DefaultOptions())
//	a := c.AddNode(geom.Pt(10, 10))
//	b := c.AddNode(geom.Pt(50, 10))
//	c.Connect(a, b)
//
// # Editing Operations
//
// Composite mutations keep the graph invariants intact:
//
//   - [Course.DeleteNode] removes every touching edge before the node
//   - [Course.Merge] re-points a node's edges onto another node
//   - [Course.Subdivide] and [Course.SplitEdge] insert a node into an edge
//   - [Course.Deduplicate] keeps one edge per unordered node pair
//
// Deleting an id that does not exist is a no-op.
//
// # Spatial Queries
//
// [Course.CandidateNode] and [Course.CandidateEdge] answer "what would a
// pointer at p hit". They never fail: no hit is a normal result.
//
// # Concurrency
//
// A Course is not safe for concurrent use. Callers that share one (the HTTP
// session registry) serialize access themselves.
package course
