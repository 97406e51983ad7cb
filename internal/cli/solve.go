package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/paiv/icfpc2023/pkg/integrations/contest"
	"github.com/paiv/icfpc2023/pkg/pipeline"
	"github.com/paiv/icfpc2023/pkg/problem"
	"github.com/paiv/icfpc2023/pkg/store"
)

// submitSettle is how long to wait after a submission before the first
// verdict check.
const submitSettle = time.Second

// runBinary is the root command: binary payload in, binary answer out.
// On interrupt the best layout so far is still written before the command
// reports the cancellation.
func (c *CLI) runBinary(ctx context.Context, path string) error {
	p, err := problem.Load(path, c.Stdin)
	if err != nil {
		return err
	}

	// Only seeded solves touch the cache; an unseeded run never opens it.
	opts := c.solveOptions()
	runner := c.newRunner(ctx, !opts.Seeded)
	defer runner.Close()

	res, err := runner.Solve(ctx, p, opts)
	if err != nil {
		return err
	}
	if _, err := c.Stdout.Write(problem.EncodeAnswer(res.Solution)); err != nil {
		return fmt.Errorf("write answer: %w", err)
	}
	return ctx.Err()
}

// solveFlags holds the flags of the solve command.
type solveFlags struct {
	pid     int
	submit  bool
	render  string
	tui     bool
	noCache bool
}

func (c *CLI) solveCommand() *cobra.Command {
	var flags solveFlags

	cmd := &cobra.Command{
		Use:   "solve <problem.json>",
		Short: "Solve a contest problem and keep the solution if it improves",
		Long: `Solve a contest problem document.

The new solution replaces the stored one only when it beats it by at least
improve_threshold points; otherwise the stored solution is marked as
attempted. Kept solutions can be rendered and submitted right away.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()
			return c.solveFile(cmd.Context(), st, args[0], flags)
		},
	}

	cmd.Flags().IntVarP(&flags.pid, "pid", "i", 0, "problem id (default from the file name)")
	cmd.Flags().BoolVar(&flags.submit, "submit", false, "submit a kept solution")
	cmd.Flags().StringVar(&flags.render, "render", "", "render a kept solution: svg, png, pdf, dot, graphviz (comma-separated)")
	cmd.Flags().BoolVar(&flags.tui, "tui", false, "show live optimizer progress")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the solution cache")
	addSolverFlags(cmd.Flags())
	addStoreFlags(cmd.Flags())
	cmd.Flags().Int64("threshold", 0, "minimum score gain to keep a solution")

	return cmd
}

// solveFile solves one problem document and updates the store.
func (c *CLI) solveFile(ctx context.Context, st store.Store, path string, flags solveFlags) error {
	p, pid, err := c.loadJSONProblem(path, flags.pid)
	if err != nil {
		return err
	}
	if err := requirePID(pid); err != nil {
		return err
	}

	rec, err := st.Get(ctx, pid)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, flags.noCache)
	defer runner.Close()

	opts := c.solveOptions()
	opts.Logger = c.Logger.With("pid", pid)
	var res *pipeline.Result
	if flags.tui {
		res, err = solveWithTUI(ctx, runner, p, opts, fmt.Sprintf("problem %d", pid))
	} else {
		res, err = runner.Solve(ctx, p, opts)
	}
	if err != nil {
		return err
	}
	for _, d := range res.Stats.Diagnostics {
		c.Logger.Warn(d, "pid", pid)
	}

	score := res.Solution.Score
	kept := rec.Improves(score, c.Config.ImproveThreshold)
	printScore(pid, score, rec.Baseline(), kept)
	printStats(res.Stats, res.CacheHit)

	if !kept {
		return st.Touch(ctx, pid)
	}
	if err := st.Save(ctx, pid, res.Solution, res.RunID); err != nil {
		return err
	}
	c.Logger.Debug("saved", "pid", pid, "run", res.RunID)

	if flags.render != "" {
		base := filepath.Join(c.Config.SolvesDir, fmt.Sprintf("solution-%d", pid))
		ropts := pipeline.RenderOptions{Formats: parseFormats(flags.render), Listeners: true, Title: fmt.Sprintf("problem %d", pid)}
		if err := c.writeRender(ctx, runner, p, res.Solution, base, ropts); err != nil {
			c.Logger.Warn("render failed", "pid", pid, "err", err)
		}
	}

	if flags.submit {
		client, err := c.newContestClient(ctx)
		if err != nil {
			return err
		}
		defer client.Close()
		return c.submitSolution(ctx, client, st, pid, res.Solution)
	}
	return ctx.Err()
}

// loadJSONProblem reads a contest problem document. The problem id comes
// from pid, else from the file name; it selects the scoring mode.
func (c *CLI) loadJSONProblem(path string, pid int) (*problem.Problem, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	if pid == 0 {
		pid, _ = store.ProblemIDFromPath(path)
	}
	mode := problem.ModePlain
	if pid > 0 {
		mode = problem.ModeForProblemID(pid, c.Config.LightningCutoff)
	}
	p, err := problem.FromJSON(data, mode, uint32(c.Config.TimeLimit))
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	return p, pid, nil
}

// submitSolution posts sol, waits briefly and records the verdict, or the
// pending submission when the server has not scored it yet.
func (c *CLI) submitSolution(ctx context.Context, client *contest.Client, st store.Store, pid int, sol *problem.Solution) error {
	spinner := newSpinner(ctx, fmt.Sprintf("submitting problem %d", pid))
	spinner.Start()
	sid, err := client.Submit(ctx, pid, sol)
	if err != nil {
		spinner.StopWithError("submit problem %d: %v", pid, err)
		return err
	}

	spinner.Update("waiting for verdict %s", sid)
	select {
	case <-ctx.Done():
		spinner.Stop()
		return errors.Join(st.SetSubmission(context.WithoutCancel(ctx), pid, sid), ctx.Err())
	case <-time.After(submitSettle):
	}

	sub, err := client.Submission(ctx, sid)
	spinner.Stop()
	if err != nil {
		c.Logger.Warn("verdict unavailable", "pid", pid, "submission", sid, "err", err)
		return st.SetSubmission(ctx, pid, sid)
	}
	return c.recordVerdict(ctx, st, pid, sub)
}

// recordVerdict stores a final score, or keeps the submission pending.
func (c *CLI) recordVerdict(ctx context.Context, st store.Store, pid int, sub *contest.Submission) error {
	score, done := sub.Result()
	if !done {
		printInfo("problem %d: submission %s is still processing", pid, sub.ID)
		return st.SetSubmission(ctx, pid, sub.ID)
	}
	if score < 0 {
		printError("problem %d: submission %s rejected", pid, sub.ID)
	} else {
		printSuccess("problem %d: verified score %s", pid, StyleNumber.Render(fmt.Sprint(score)))
	}
	return st.SetVerified(ctx, pid, score)
}
