package io

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/flashtrack/pkg/course"
	errs "github.com/matzehuels/flashtrack/pkg/errors"
	"github.com/matzehuels/flashtrack/pkg/geom"
)

type xmlCourse struct {
	XMLName   xml.Name   `xml:"course"`
	Name      string     `xml:"name"`
	Color     string     `xml:"color"`
	Completed string     `xml:"completed"`
	Start     xmlPoint   `xml:"start"`
	Finish    xmlPoint   `xml:"finish"`
	Nodes     []xmlPoint `xml:"nodes>node"`
	Edges     []xmlEdge  `xml:"edges>edge"`
}

type xmlPoint struct {
	X float64 `xml:"x"`
	Y float64 `xml:"y"`
}

type xmlEdge struct {
	P1 xmlPoint `xml:"p1"`
	P2 xmlPoint `xml:"p2"`
}

func (p xmlPoint) pt() geom.Point { return geom.Pt(p.X, p.Y) }

// ReadLegacyXML decodes a course saved by the legacy desktop editor.
//
// Edges are stored as endpoint positions and resolve to the first node at
// exactly that position. Unresolvable positions fail with MALFORMED_GRAPH.
func ReadLegacyXML(r io.Reader) (File, error) {
	var data xmlCourse
	if err := xml.NewDecoder(r).Decode(&data); err != nil {
		return File{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode xml")
	}

	f := File{
		Name:      strings.TrimSpace(data.Name),
		Color:     strings.TrimSpace(data.Color),
		Completed: parseXMLBool(data.Completed),
		Course: course.Document{
			Start:  data.Start.pt(),
			Finish: data.Finish.pt(),
			Nodes:  make([]geom.Point, len(data.Nodes)),
			Edges:  make([]course.EdgeRef, len(data.Edges)),
		},
	}
	if f.Color == "" {
		f.Color = DefaultColor
	}
	for i, p := range data.Nodes {
		f.Course.Nodes[i] = p.pt()
	}
	for i, e := range data.Edges {
		a, okA := indexOf(f.Course.Nodes, e.P1.pt())
		b, okB := indexOf(f.Course.Nodes, e.P2.pt())
		if !okA || !okB {
			return File{}, errs.New(errs.ErrCodeMalformedGraph,
				"edge %d endpoint (%v, %v) matches no node", i, e.P1.pt(), e.P2.pt())
		}
		f.Course.Edges[i] = course.EdgeRef{a, b}
	}
	return f, nil
}

// ImportLegacyXML reads a legacy XML course file at path.
func ImportLegacyXML(path string) (File, error) {
	in, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()
	return ReadLegacyXML(in)
}

// WriteLegacyXML encodes f in the legacy desktop editor's layout.
func WriteLegacyXML(f File, w io.Writer) error {
	out := xmlCourse{
		Name:      f.Name,
		Color:     f.Color,
		Completed: "0",
		Start:     xmlPoint(f.Course.Start),
		Finish:    xmlPoint(f.Course.Finish),
		Nodes:     make([]xmlPoint, len(f.Course.Nodes)),
		Edges:     make([]xmlEdge, len(f.Course.Edges)),
	}
	if out.Color == "" {
		out.Color = DefaultColor
	}
	if f.Completed {
		out.Completed = "1"
	}
	for i, p := range f.Course.Nodes {
		out.Nodes[i] = xmlPoint(p)
	}
	for i, e := range f.Course.Edges {
		if e[0] < 0 || e[0] >= len(f.Course.Nodes) || e[1] < 0 || e[1] >= len(f.Course.Nodes) {
			return errs.New(errs.ErrCodeMalformedGraph, "edge %d references a missing node", i)
		}
		out.Edges[i] = xmlEdge{P1: out.Nodes[e[0]], P2: out.Nodes[e[1]]}
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode xml: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("encode xml: %w", err)
	}
	return nil
}

func indexOf(nodes []geom.Point, p geom.Point) (int, bool) {
	for i, n := range nodes {
		if n == p {
			return i, true
		}
	}
	return 0, false
}

func parseXMLBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
