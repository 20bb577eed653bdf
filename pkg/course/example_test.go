package course_test

import (
	"fmt"

	"github.com/matzehuels/flashtrack/pkg/course"
	"github.com/matzehuels/flashtrack/pkg/geom"
)

func ExampleCourse_Connect() {
	c := course.New(course.DefaultOptions())
	a := c.AddNode(geom.Pt(10, 10))
	b := c.AddNode(geom.Pt(50, 10))
	id, _ := c.Connect(a, b)

	e, _ := c.Edge(id)
	fmt.Println("Nodes:", c.NodeCount())
	fmt.Println("Edges:", c.EdgeCount())
	fmt.Println("Horizontal:", e.Line.Horizontal)
	fmt.Println("Length:", e.Line.Length)
	// Output:
	// Nodes: 2
	// Edges: 1
	// Horizontal: true
	// Length: 40
}

func ExampleCourse_Merge() {
	c := course.New(course.DefaultOptions())
	a := c.AddNode(geom.Pt(0, 0))
	b := c.AddNode(geom.Pt(10, 0))
	x := c.AddNode(geom.Pt(50, 0))
	_, _ = c.Connect(a, b)
	_, _ = c.Connect(a, x)
	_, _ = c.Connect(b, x)

	// Collapse a into b: {a,b} becomes a self-loop and {a,x} a duplicate.
	c.Merge(b, a)

	fmt.Println("Nodes:", c.NodeCount())
	fmt.Println("Edges:", c.EdgeCount())
	// Output:
	// Nodes: 2
	// Edges: 1
}

func ExampleCourse_Export() {
	c := course.New(course.DefaultOptions())
	a := c.AddNode(geom.Pt(40, 0))
	b := c.AddNode(geom.Pt(0, 0))
	_, _ = c.Connect(a, b)

	doc := c.Export()
	fmt.Println(doc.Nodes)
	fmt.Println(doc.Edges)
	// Output:
	// [{40 0} {0 0}]
	// [[1 0]]
}
