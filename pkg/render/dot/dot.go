package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/flashtrack/pkg/course"
	errs "github.com/matzehuels/flashtrack/pkg/errors"
	"github.com/matzehuels/flashtrack/pkg/geom"
)

// DefaultScale maps one course pixel to one Graphviz point.
const DefaultScale = 72

// Options configures DOT generation.
type Options struct {
	// Scale is course pixels per inch. Zero means DefaultScale.
	Scale float64
	// Color is the edge color, one of the course colors. Empty means blue.
	Color string
	// Landmarks draws the start and finish circles.
	Landmarks bool
	// Labels prints node ids next to nodes.
	Labels bool
}

// Format is an output format of [Render].
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat parses "dot", "svg" or "png".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatDOT, FormatSVG, FormatPNG:
		return f, nil
	}
	return "", errs.New(errs.ErrCodeUnsupported, "unknown render format %q (want dot, svg or png)", s)
}

// ToDOT converts a course to undirected DOT with pinned node positions.
func ToDOT(c *course.Course, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	color := opts.Color
	if color == "" {
		color = "blue"
	}
	size := c.Options().NodeSize / scale

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  overlap=true;\n")
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fillcolor=white, color=%s, fixedsize=true, width=%s, label=\"\"];\n",
		color, num(size))
	fmt.Fprintf(&buf, "  edge [color=%s, penwidth=3];\n", color)
	buf.WriteString("\n")

	if opts.Landmarks {
		lsize := num(2 * c.Options().LandmarkSize / scale)
		fmt.Fprintf(&buf, "  start [pos=%q, width=%s, fillcolor=palegreen, xlabel=\"start\"];\n", pos(c.Start(), scale), lsize)
		fmt.Fprintf(&buf, "  finish [pos=%q, width=%s, fillcolor=lightpink, xlabel=\"finish\"];\n", pos(c.Finish(), scale), lsize)
	}
	for _, n := range c.Nodes() {
		attrs := []string{fmt.Sprintf("pos=%q", pos(n.Pos, scale))}
		if opts.Labels {
			attrs = append(attrs, fmt.Sprintf("xlabel=\"%d\"", n.ID))
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range c.Edges() {
		fmt.Fprintf(&buf, "  n%d -- n%d;\n", e.A, e.B)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// pos converts a course position to a pinned Graphviz position in points.
func pos(p geom.Point, scale float64) string {
	k := 72 / scale
	y := -p.Y * k
	if y == 0 {
		y = 0 // no "-0"
	}
	return num(p.X*k) + "," + num(y) + "!"
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RenderSVG renders DOT source to SVG with neato, honoring pinned positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to PNG with neato.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="(-?[0-9.]+)\s+(-?[0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's svg tag with one whose viewBox
// starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
