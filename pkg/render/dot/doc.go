// Package dot renders course snapshots with Graphviz.
//
// # Overview
//
// Unlike a laid-out diagram, a course already has coordinates. [ToDOT] pins
// every node at its course position (pos="x,y!") so neato draws the course
// as edited, with y flipped because Graphviz grows upwards.
//
// # Usage
//
//	src := dot.ToDOT(c, dot.Options{Landmarks: true})
//	svg, err := dot.RenderSVG(ctx, src)
//
// A [Renderer] adds a [cache.Cache] in front of Graphviz keyed by the DOT
// source, so re-rendering an unchanged course is a file read:
//
//	r := dot.NewRenderer(fileCache, 24*time.Hour)
//	svg, err := r.Render(ctx, c, dot.FormatSVG, dot.Options{})
//
// [cache.Cache]: github.com/matzehuels/flashtrack/pkg/cache.Cache
package dot
