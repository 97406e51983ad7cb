package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/paiv/icfpc2023/pkg/problem"
)

// DOTOptions configures Graphviz output.
type DOTOptions struct {
	// Listeners includes listener nodes. Off by default: neato handles a few
	// thousand pinned nodes fine, but the contest problems go well past that.
	Listeners bool
	// RoleEdges chains performers of the same role with undirected edges.
	RoleEdges bool
}

// ToDOT converts a scene to Graphviz DOT. Every node carries a pinned
// position in points (inputscale=72), so neato keeps the room geometry.
func ToDOT(p *problem.Problem, sol *problem.Solution, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("graph stage {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, label=\"\", fixedsize=true];\n")
	buf.WriteString("\n")

	x0, y0, x1, y1 := p.StageBounds()
	fmt.Fprintf(&buf, "  stage [shape=box, fillcolor=%q, color=%q, width=%s, height=%s, pos=%q];\n",
		colorStage, colorStage, inches(x1-x0), inches(y1-y0), pin((x0+x1)/2, (y0+y1)/2))

	for i, c := range p.Pillars {
		fmt.Fprintf(&buf, "  pillar%d [fillcolor=%q, color=%q, width=%s, pos=%q];\n",
			i, colorPillar, colorPillar, inches(2*float64(c.R)), pin(float64(c.X), float64(c.Y)))
	}

	if opts.Listeners {
		for i, l := range p.Listeners {
			fmt.Fprintf(&buf, "  a%d [fillcolor=%q, color=%q, width=%s, pos=%q];\n",
				i, colorListener, colorListener, inches(2*listenerRadius), pin(float64(l.X), float64(l.Y)))
		}
	}

	if sol != nil {
		buf.WriteString("\n")
		last := make(map[uint32]int)
		for k, pos := range sol.Placements {
			var role uint32
			if k < len(p.Roles) {
				role = p.Roles[k]
			}
			color := RoleColor(role)
			penwidth := 1
			if sol.Volume(k) == problem.VolumeLoud {
				color, penwidth = colorRing, 3
			}
			fmt.Fprintf(&buf, "  m%d [fillcolor=%q, color=%q, penwidth=%d, width=%s, pos=%q, tooltip=\"role %d\"];\n",
				k, RoleColor(role), color, penwidth, inches(2*performerRadius), pin(pos.X, pos.Y), role)
			if opts.RoleEdges {
				if prev, ok := last[role]; ok {
					fmt.Fprintf(&buf, "  m%d -- m%d [color=%q];\n", prev, k, RoleColor(role))
				}
				last[role] = k
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func pin(x, y float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64) + "," + strconv.FormatFloat(y, 'f', 2, 64) + "!"
}

func inches(points float64) string {
	return strconv.FormatFloat(points/72, 'f', 4, 64)
}

// RenderDOT lays out a DOT graph with neato and renders it to SVG.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized <svg> header with one that
// scales cleanly when embedded.
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
