// Package io provides file encodings for courses.
//
// # Overview
//
// A [File] is a course plus its metadata (name, color, completed flag). The
// primary encoding is JSON; the XML layout written by the legacy desktop
// editor can be read and written for compatibility.
//
// # JSON Format
//
//	{
//	  "name": "loop",
//	  "color": "blue",
//	  "completed": false,
//	  "start":  {"x": 200, "y": 400},
//	  "finish": {"x": 824, "y": 400},
//	  "nodes": [{"x": 300, "y": 300}, {"x": 500, "y": 300}],
//	  "edges": [{"p1": 0, "p2": 1}]
//	}
//
// Edges reference nodes by their index in "nodes". The index order is the
// course's enumeration order, so exporting right after importing reproduces
// the same file.
//
// # Legacy XML
//
// The XML layout stores edges as endpoint positions rather than indices.
// [ReadLegacyXML] resolves each position to the first node placed exactly
// there; positions that match no node fail with MALFORMED_GRAPH.
//
// # Import
//
//	f, err := io.ImportJSON("loop.json")
//	c, err := f.Build(course.DefaultOptions())
//
// # Export
//
//	err := io.ExportJSON(io.NewFile("loop", c), "loop.json")
package io
