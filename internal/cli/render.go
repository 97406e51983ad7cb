package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paiv/icfpc2023/pkg/pipeline"
	"github.com/paiv/icfpc2023/pkg/problem"
	"github.com/paiv/icfpc2023/pkg/render"
)

// renderFlags holds the command-line flags for the render command.
type renderFlags struct {
	pid       int
	output    string  // output file (one format) or base path
	formats   string  // comma-separated formats
	scale     float64 // PNG zoom
	listeners bool    // draw attendees
	title     string
	noCache   bool
}

func (c *CLI) renderCommand() *cobra.Command {
	flags := renderFlags{listeners: true, scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render <problem.json> [solution.json]",
		Short: "Draw a problem and its solution",
		Long: `Draw the room, stage, pillars, attendees and performers.

Without a solution file the stored solution for the problem is drawn.
Formats: svg (default), png, pdf, dot, graphviz. PNG and PDF need
rsvg-convert on PATH.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(flags.formats)
			for _, f := range formats {
				if err := render.ValidateFormat(f); err != nil {
					return err
				}
			}
			return c.runRender(cmd.Context(), args, formats, flags)
		},
	}

	cmd.Flags().IntVarP(&flags.pid, "pid", "i", 0, "problem id (default from the file name)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): "+strings.Join(render.Formats, ", ")+" (comma-separated)")
	cmd.Flags().Float64Var(&flags.scale, "scale", flags.scale, "PNG zoom factor")
	cmd.Flags().BoolVar(&flags.listeners, "listeners", flags.listeners, "draw attendees")
	cmd.Flags().StringVar(&flags.title, "title", "", "drawing title")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the artifact cache")
	addStoreFlags(cmd.Flags())

	return cmd
}

func (c *CLI) runRender(ctx context.Context, args, formats []string, flags renderFlags) error {
	p, pid, err := c.loadJSONProblem(args[0], flags.pid)
	if err != nil {
		return err
	}

	sol, err := c.solutionFor(ctx, p, pid, args[1:])
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, flags.noCache)
	defer runner.Close()

	base := flags.output
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		if len(args) == 2 {
			base = strings.TrimSuffix(args[1], filepath.Ext(args[1]))
		}
	}
	title := flags.title
	if title == "" && pid > 0 {
		title = fmt.Sprintf("problem %d", pid)
	}

	return c.writeRender(ctx, runner, p, sol, base, pipeline.RenderOptions{
		Formats:   formats,
		Scale:     flags.scale,
		Listeners: flags.listeners,
		Title:     title,
	})
}

// solutionFor reads the solution file, or falls back to the stored solution.
// With neither, the empty stage is drawn.
func (c *CLI) solutionFor(ctx context.Context, p *problem.Problem, pid int, files []string) (*problem.Solution, error) {
	if len(files) == 1 {
		data, err := os.ReadFile(files[0])
		if err != nil {
			return nil, err
		}
		return problem.ParseSolutionJSON(data)
	}
	if pid == 0 {
		return nil, nil
	}
	st, err := c.newStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	rec, err := st.Get(ctx, pid)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.Solution == nil {
		c.Logger.Info("no stored solution, drawing the empty stage", "pid", pid)
		return nil, nil
	}
	return rec.Solution, nil
}

// writeRender renders every requested format and writes one file each.
func (c *CLI) writeRender(ctx context.Context, runner *pipeline.Runner, p *problem.Problem, sol *problem.Solution, base string, opts pipeline.RenderOptions) error {
	prog := newProgress(c.Logger)
	artifacts, cached, err := runner.Render(ctx, p, sol, opts)
	if err != nil {
		return err
	}

	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	slices.Sort(formats)

	multi := len(formats) > 1
	for _, f := range formats {
		path := outputPath(base, f, multi)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	prog.done("rendered", "formats", len(formats), "cached", cached)
	return nil
}
