package render

import (
	"context"
	"fmt"
	"slices"

	"github.com/paiv/icfpc2023/pkg/problem"
)

// Output formats.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz" // neato-rendered SVG
)

// Formats lists every supported format.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatDOT, FormatGraphviz}

// Options selects the output of [Render].
type Options struct {
	Format    string
	Scale     float64 // PNG only
	Listeners bool
	Title     string
}

// ValidateFormat reports an error for formats not in [Formats].
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return fmt.Errorf("unsupported format %q (want one of %v)", format, Formats)
	}
	return nil
}

// Extension returns the file extension for format, without the dot.
func Extension(format string) string {
	if format == FormatGraphviz {
		return "neato.svg"
	}
	return format
}

// Render produces the scene in the requested format.
func Render(ctx context.Context, p *problem.Problem, sol *problem.Solution, opts Options) ([]byte, error) {
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}

	var svgOpts []SVGOption
	if !opts.Listeners {
		svgOpts = append(svgOpts, WithoutListeners())
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, WithTitle(opts.Title))
	}

	switch opts.Format {
	case FormatDOT:
		return []byte(ToDOT(p, sol, DOTOptions{Listeners: opts.Listeners, RoleEdges: true})), nil
	case FormatGraphviz:
		return RenderDOT(ctx, ToDOT(p, sol, DOTOptions{Listeners: opts.Listeners, RoleEdges: true}))
	case FormatPNG:
		return ToPNG(RenderSVG(p, sol, svgOpts...), opts.Scale)
	case FormatPDF:
		return ToPDF(RenderSVG(p, sol, svgOpts...))
	default:
		return RenderSVG(p, sol, svgOpts...), nil
	}
}
