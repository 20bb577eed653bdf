package io

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/flashtrack/pkg/course"
	errs "github.com/matzehuels/flashtrack/pkg/errors"
	"github.com/matzehuels/flashtrack/pkg/geom"
)

func sample(t *testing.T) File {
	t.Helper()
	c := course.New(course.DefaultOptions())
	a := c.AddNode(geom.Pt(300, 300))
	b := c.AddNode(geom.Pt(500, 250))
	x := c.AddNode(geom.Pt(400, 450.5))
	for _, pair := range [][2]course.NodeID{{a, b}, {b, x}, {x, a}} {
		if _, err := c.Connect(pair[0], pair[1]); err != nil {
			t.Fatal(err)
		}
	}
	f := NewFile("triangle", c)
	f.Completed = true
	return f
}

func TestJSONRoundTrip(t *testing.T) {
	want := sample(t)

	var buf bytes.Buffer
	if err := WriteJSON(want, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}

	c, err := got.Build(course.DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.NodeCount() != 3 || c.EdgeCount() != 3 {
		t.Errorf("built %d nodes, %d edges", c.NodeCount(), c.EdgeCount())
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	want := sample(t)
	data, err := MarshalJSON(want)
	if err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestImportExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "course.json")
	want := sample(t)

	if err := ExportJSON(want, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ImportJSON on missing file succeeded")
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errs.Code
	}{
		{"Malformed", `{"nodes": [`, errs.ErrCodeInvalidFormat},
		{"EdgePastEnd", `{"nodes": [{"x":0,"y":0}], "edges": [{"p1":0,"p2":1}]}`, errs.ErrCodeMalformedGraph},
		{"NegativeIndex", `{"nodes": [{"x":0,"y":0}], "edges": [{"p1":-1,"p2":0}]}`, errs.ErrCodeMalformedGraph},
		{"UnknownColor", `{"color": "magenta", "nodes": []}`, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestReadJSONDefaultColor(t *testing.T) {
	f, err := ReadJSON(strings.NewReader(`{"name": "bare"}`))
	if err != nil {
		t.Fatal(err)
	}
	if f.Color != DefaultColor {
		t.Errorf("Color = %q, want %q", f.Color, DefaultColor)
	}
}

const legacy = `<course>
    <name>hairpin</name>
    <color>blue</color>
    <completed>0</completed>
    <start>
        <x>200</x>
        <y>400</y>
    </start>
    <finish>
        <x>824</x>
        <y>400</y>
    </finish>
    <nodes>
        <node><x>300</x><y>300</y></node>
        <node><x>500</x><y>300</y></node>
        <node><x>500</x><y>500</y></node>
    </nodes>
    <edges>
        <edge>
            <p1><x>300</x><y>300</y></p1>
            <p2><x>500</x><y>300</y></p2>
        </edge>
        <edge>
            <p1><x>500</x><y>300</y></p1>
            <p2><x>500</x><y>500</y></p2>
        </edge>
    </edges>
</course>`

func TestReadLegacyXML(t *testing.T) {
	f, err := ReadLegacyXML(strings.NewReader(legacy))
	if err != nil {
		t.Fatalf("ReadLegacyXML: %v", err)
	}
	if f.Name != "hairpin" || f.Color != "blue" || f.Completed {
		t.Errorf("metadata = %q %q %v", f.Name, f.Color, f.Completed)
	}
	if f.Course.Start != geom.Pt(200, 400) || f.Course.Finish != geom.Pt(824, 400) {
		t.Errorf("landmarks = %v, %v", f.Course.Start, f.Course.Finish)
	}
	want := []course.EdgeRef{{0, 1}, {1, 2}}
	if !reflect.DeepEqual(f.Course.Edges, want) {
		t.Errorf("edges = %v, want %v", f.Course.Edges, want)
	}
}

func TestReadLegacyXMLUnresolvedEdge(t *testing.T) {
	bad := strings.Replace(legacy, "<p2><x>500</x><y>500</y></p2>", "<p2><x>501</x><y>500</y></p2>", 1)
	_, err := ReadLegacyXML(strings.NewReader(bad))
	if !errs.Is(err, errs.ErrCodeMalformedGraph) {
		t.Errorf("error = %v, want %s", err, errs.ErrCodeMalformedGraph)
	}
}

func TestLegacyXMLRoundTrip(t *testing.T) {
	want := sample(t)

	var buf bytes.Buffer
	if err := WriteLegacyXML(want, &buf); err != nil {
		t.Fatalf("WriteLegacyXML: %v", err)
	}
	if !strings.Contains(buf.String(), "<completed>1</completed>") {
		t.Errorf("completed flag not written:\n%s", buf.String())
	}
	got, err := ReadLegacyXML(&buf)
	if err != nil {
		t.Fatalf("ReadLegacyXML: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
