package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/paiv/icfpc2023/pkg/problem"
)

// Palette colours, taken from the contest visualiser.
const (
	colorBackground = "#ffffff"
	colorBorder     = "#d3d2d0"
	colorPillar     = "#97949a"
	colorStage      = "#f19a9a"
	colorListener   = "#7b98ff"
	colorRing       = "#ad0a0a"
)

// rolePalette colours performers; roles past the end wrap around.
var rolePalette = []string{
	"#ad0a0a", "#1b7837", "#5e3c99", "#e08214", "#2166ac",
	"#c51b7d", "#01665e", "#8c510a", "#4d4d4d", "#b2182b",
}

// RoleColor returns the fill colour used for a role.
func RoleColor(role uint32) string {
	return rolePalette[int(role)%len(rolePalette)]
}

const (
	listenerRadius  = 3.0
	performerRadius = 10.0
	ringRadius      = 12.0
	border          = 1.0
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	listeners bool
	title     string
}

// WithoutListeners omits listener dots. Large problems have tens of
// thousands of them.
func WithoutListeners() SVGOption { return func(r *svgRenderer) { r.listeners = false } }

// WithTitle adds a <title> element, shown by browsers as a tooltip.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

// RenderSVG draws p and, when sol is non-nil, its performers. The image is
// as large as the room plus a one unit border, with y pointing up.
func RenderSVG(p *problem.Problem, sol *problem.Solution, opts ...SVGOption) []byte {
	r := svgRenderer{listeners: true}
	for _, opt := range opts {
		opt(&r)
	}

	w := float64(p.RoomWidth) + 2*border
	h := float64(p.RoomHeight) + 2*border

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	if r.title != "" {
		buf.WriteString("  <title>")
		_ = xml.EscapeText(&buf, []byte(r.title))
		buf.WriteString("</title>\n")
	}
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", w, h, colorBorder)
	fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%d" height="%d" fill="%s"/>`+"\n",
		border, border, p.RoomWidth, p.RoomHeight, colorBackground)

	// Flip the room so that y grows upwards, then shift by the border.
	fmt.Fprintf(&buf, `  <g transform="translate(%.1f %.1f) scale(1 -1)">`+"\n", border, h-border)
	renderStage(&buf, p)
	renderPillars(&buf, p)
	if r.listeners {
		renderListeners(&buf, p)
	}
	if sol != nil {
		renderPerformers(&buf, p, sol)
	}
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderStage(buf *bytes.Buffer, p *problem.Problem) {
	fmt.Fprintf(buf, `    <rect id="stage" x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n",
		p.StageX, p.StageY, p.StageWidth, p.StageHeight, colorStage)
}

func renderPillars(buf *bytes.Buffer, p *problem.Problem) {
	if len(p.Pillars) == 0 {
		return
	}
	fmt.Fprintf(buf, `    <g id="pillars" fill="%s">`+"\n", colorPillar)
	for _, c := range p.Pillars {
		fmt.Fprintf(buf, `      <circle cx="%d" cy="%d" r="%d"/>`+"\n", c.X, c.Y, c.R)
	}
	buf.WriteString("    </g>\n")
}

func renderListeners(buf *bytes.Buffer, p *problem.Problem) {
	if len(p.Listeners) == 0 {
		return
	}
	fmt.Fprintf(buf, `    <g id="listeners" fill="%s">`+"\n", colorListener)
	for _, l := range p.Listeners {
		fmt.Fprintf(buf, `      <circle cx="%d" cy="%d" r="%.0f"/>`+"\n", l.X, l.Y, listenerRadius)
	}
	buf.WriteString("    </g>\n")
}

func renderPerformers(buf *bytes.Buffer, p *problem.Problem, sol *problem.Solution) {
	buf.WriteString(`    <g id="performers">` + "\n")
	for k, pos := range sol.Placements {
		var role uint32
		if k < len(p.Roles) {
			role = p.Roles[k]
		}
		if sol.Volume(k) == problem.VolumeLoud {
			fmt.Fprintf(buf, `      <circle cx="%.2f" cy="%.2f" r="%.0f" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n",
				pos.X, pos.Y, ringRadius, colorRing)
		}
		fmt.Fprintf(buf, `      <circle class="performer role-%d" cx="%.2f" cy="%.2f" r="%.0f" fill="%s"/>`+"\n",
			role, pos.X, pos.Y, performerRadius, RoleColor(role))
	}
	buf.WriteString("    </g>\n")
}
