package io

import (
	"github.com/matzehuels/flashtrack/pkg/course"
	errs "github.com/matzehuels/flashtrack/pkg/errors"
	"github.com/matzehuels/flashtrack/pkg/geom"
)

// DefaultColor is the sprite color of new courses.
const DefaultColor = "blue"

// File is a course with its metadata.
type File struct {
	Name      string
	Color     string
	Completed bool
	Course    course.Document
}

// NewFile snapshots c under name with the default color.
func NewFile(name string, c *course.Course) File {
	return File{Name: name, Color: DefaultColor, Course: c.Export()}
}

// Build imports the course. Malformed edge references fail with
// MALFORMED_GRAPH.
func (f File) Build(opts course.Options) (*course.Course, error) {
	c, err := course.Import(f.Course, opts)
	if err != nil {
		return nil, errs.Wrap(errs.GetCode(err), err, "course %q", f.Name)
	}
	return c, nil
}

type file struct {
	Name      string  `json:"name,omitempty"`
	Color     string  `json:"color,omitempty"`
	Completed bool    `json:"completed"`
	Start     point   `json:"start"`
	Finish    point   `json:"finish"`
	Nodes     []point `json:"nodes"`
	Edges     []edge  `json:"edges"`
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type edge struct {
	P1 int `json:"p1"`
	P2 int `json:"p2"`
}

func toPoint(p geom.Point) point { return point{X: p.X, Y: p.Y} }
func (p point) pt() geom.Point { return geom.Pt(p.X, p.Y) }

func encodeFile(f File) file {
	out := file{
		Name:      f.Name,
		Color:     f.Color,
		Completed: f.Completed,
		Start:     toPoint(f.Course.Start),
		Finish:    toPoint(f.Course.Finish),
		Nodes:     make([]point, len(f.Course.Nodes)),
		Edges:     make([]edge, len(f.Course.Edges)),
	}
	if out.Color == "" {
		out.Color = DefaultColor
	}
	for i, p := range f.Course.Nodes {
		out.Nodes[i] = toPoint(p)
	}
	for i, e := range f.Course.Edges {
		out.Edges[i] = edge{P1: e[0], P2: e[1]}
	}
	return out
}

func decodeFile(in file) (File, error) {
	f := File{
		Name:      in.Name,
		Color:     in.Color,
		Completed: in.Completed,
		Course: course.Document{
			Start:  in.Start.pt(),
			Finish: in.Finish.pt(),
			Nodes:  make([]geom.Point, len(in.Nodes)),
			Edges:  make([]course.EdgeRef, len(in.Edges)),
		},
	}
	if f.Color == "" {
		f.Color = DefaultColor
	}
	if err := errs.ValidateColor(f.Color); err != nil {
		return File{}, err
	}
	for i, p := range in.Nodes {
		f.Course.Nodes[i] = p.pt()
	}
	for i, e := range in.Edges {
		for _, idx := range []int{e.P1, e.P2} {
			if idx < 0 || idx >= len(in.Nodes) {
				return File{}, errs.New(errs.ErrCodeMalformedGraph,
					"edge %d references node %d, file has %d nodes", i, idx, len(in.Nodes))
			}
		}
		f.Course.Edges[i] = course.EdgeRef{e.P1, e.P2}
	}
	return f, nil
}
