// Package pkg provides the core libraries for Flashtrack course editing.
//
// # Overview
//
// A Flashtrack course is a planar graph of positioned nodes and straight
// edges with a start and a finish circle. Players trace a path from start to
// finish without crossing an edge. The pkg directory is organized into:
//
//  1. [geom] - Points, cached line geometry and segment intersection
//  2. [course] - The course graph: ids, hit testing, connect, merge, split
//  3. [editor] - Draw, move and erase modes driven by pointer events
//  4. [play] - Tracing a path through a course
//  5. [io] - JSON and legacy XML course files
//  6. [store], [cache], [session] - Persistence, render cache, API sessions
//  7. [render/dot] - Graphviz output with pinned node positions
//
// # Architecture
//
//	pointer events ([editor.Event] or terminal mouse)
//	         ↓
//	    [editor] package (mode state machine, hover candidates)
//	         ↓
//	    [course] package (graph mutations, invariants)
//	         ↓
//	    [io] / [store] (files, Redis, MongoDB)   [render/dot] (DOT, SVG, PNG)
//
// # Quick Start
//
//	crs := course.New(course.DefaultOptions())
//	ed := editor.New(crs)
//	ed.PointerDown(100, 100)
//	ed.PointerUp(200, 100)
//
//	err := io.ExportJSON(io.NewFile("first", crs), "first.json")
//
// # Observability
//
// Library packages never log. They report through [observability] hooks,
// which the CLI connects to its logger.
package pkg
