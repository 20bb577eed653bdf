package dot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/flashtrack/pkg/cache"
	"github.com/matzehuels/flashtrack/pkg/course"
	errs "github.com/matzehuels/flashtrack/pkg/errors"
	"github.com/matzehuels/flashtrack/pkg/geom"
)

func triangle(t *testing.T) *course.Course {
	t.Helper()
	c, err := course.Import(course.Document{
		Start:  course.DefaultStart,
		Finish: course.DefaultFinish,
		Nodes:  []geom.Point{geom.Pt(300, 300), geom.Pt(500, 300), geom.Pt(400, 450)},
		Edges:  []course.EdgeRef{{0, 1}, {1, 2}, {2, 0}},
	}, course.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(triangle(t), Options{})

	for _, want := range []string{
		"graph G {",
		`n1 [pos="300,-300!"]`,
		`n3 [pos="400,-450!"]`,
		"n1 -- n2;",
		"n3 -- n2;",
		"color=blue",
		"width=0.16666666666666666",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "start") {
		t.Error("ToDOT() drew landmarks without Options.Landmarks")
	}
}

func TestToDOT_Options(t *testing.T) {
	dot := ToDOT(triangle(t), Options{Scale: 144, Color: "red", Landmarks: true, Labels: true})

	for _, want := range []string{
		`n1 [pos="150,-150!", xlabel="1"]`,
		`start [pos="100,-200!"`,
		`finish [pos="412,-200!"`,
		"color=red",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOT_EdgeEndpointsOrdered(t *testing.T) {
	// Edge 3 was stored as (2, 0) and is normalized to lower x first.
	dot := ToDOT(triangle(t), Options{})
	if !strings.Contains(dot, "n1 -- n3;") {
		t.Errorf("ToDOT() missing normalized edge n1 -- n3:\n%s", dot)
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"dot", "SVG", "png"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) error: %v", s, err)
		}
	}
	if _, err := ParseFormat("pdf"); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("ParseFormat(pdf) error = %v", err)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "negative origin",
			svg:  `<svg viewBox="-4 -4 100 50">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(triangle(t), Options{Landmarks: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), `not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}

func TestRendererCaches(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRenderer(fc, time.Hour)
	c := triangle(t)

	first, err := r.Render(ctx, c, FormatSVG, Options{})
	if err != nil {
		t.Fatal(err)
	}
	key := cache.Key(string(FormatSVG), cache.Hash([]byte(ToDOT(c, Options{}))))
	cached, ok, err := fc.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("render result not cached: %v, %v", ok, err)
	}
	if string(cached) != string(first) {
		t.Error("cached bytes differ from rendered output")
	}

	// A poisoned entry proves the second call is served from the cache.
	if err := fc.Set(ctx, key, []byte("cached"), 0); err != nil {
		t.Fatal(err)
	}
	second, err := r.Render(ctx, c, FormatSVG, Options{})
	if err != nil || string(second) != "cached" {
		t.Errorf("second Render = %q, %v", second, err)
	}
}

func TestRendererDOT(t *testing.T) {
	r := NewRenderer(nil, 0)
	c := triangle(t)
	out, err := r.Render(context.Background(), c, FormatDOT, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != ToDOT(c, Options{}) {
		t.Error("DOT output differs from ToDOT")
	}
}
