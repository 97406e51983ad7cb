// Package render draws stage placements.
//
// # Overview
//
// A scene is a problem plus an optional solution. [RenderSVG] draws the room,
// the stage, pillars, listeners and performers directly as SVG with the room
// origin at the bottom-left corner, matching the contest coordinate system.
// Performers are coloured by role; a performer playing at full volume gets an
// extra ring.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg):
//
//	svg := render.RenderSVG(p, sol)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Graphviz
//
// [ToDOT] emits the scene as a Graphviz graph with every node pinned at its
// room coordinates, and [RenderDOT] lays it out with neato. Performers that
// share a role are chained with edges, which makes role clusters easy to
// spot in larger problems.
package render
