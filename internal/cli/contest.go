package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/paiv/icfpc2023/pkg/errors"
	"github.com/paiv/icfpc2023/pkg/integrations/contest"
	"github.com/paiv/icfpc2023/pkg/store"
)

func (c *CLI) fetchCommand() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "fetch <pid|all> [last]",
		Short: "Download contest problems into the problems directory",
		Long: `Download contest problems.

  fetch 42        one problem from the CDN
  fetch 1 10      problems 1 through 10 from the API
  fetch all       every problem from the API

Files are written as problem-<pid>.json.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetch(cmd.Context(), args, refresh)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the response cache")
	cmd.Flags().String("problems", "", "problems directory")
	cmd.Flags().String("api-url", "", "contest API base URL")
	cmd.Flags().String("credentials", "", "credentials file (TOML with a [headers] table)")
	return cmd
}

// fetchRange parses the fetch arguments into an inclusive range. all is
// resolved later against the server's problem count; cdn reports a single
// problem, which is served by the CDN.
func fetchRange(args []string) (first, last int, all, cdn bool, err error) {
	if args[0] == "all" {
		if len(args) > 1 {
			return 0, 0, false, false, errors.New(errors.ErrCodeInvalidInput, "\"all\" takes no range end")
		}
		return 1, 0, true, false, nil
	}
	first, err = strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, false, false, errors.New(errors.ErrCodeInvalidInput, "invalid problem id %q", args[0])
	}
	if err := errors.ValidateProblemID(first); err != nil {
		return 0, 0, false, false, err
	}
	if len(args) == 1 {
		return first, first, false, true, nil
	}
	last, err = strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, false, false, errors.New(errors.ErrCodeInvalidInput, "invalid problem id %q", args[1])
	}
	if err := errors.ValidateProblemID(last); err != nil {
		return 0, 0, false, false, err
	}
	if last < first {
		return 0, 0, false, false, errors.New(errors.ErrCodeInvalidInput, "range end %d before start %d", last, first)
	}
	return first, last, false, false, nil
}

func (c *CLI) runFetch(ctx context.Context, args []string, refresh bool) error {
	first, last, all, cdn, err := fetchRange(args)
	if err != nil {
		return err
	}

	client, err := c.newContestClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	dir := c.Config.ProblemsDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if all {
		last, err = client.ProblemCount(ctx)
		if err != nil {
			return err
		}
		printInfo("%d problems", last)
	}

	spinner := newSpinner(ctx, "fetching")
	spinner.Start()
	defer spinner.Stop()

	for pid := first; pid <= last; pid++ {
		spinner.Update("fetching problem %d (%d/%d)", pid, pid-first+1, last-first+1)
		var data []byte
		if cdn {
			data, err = client.CDNProblem(ctx, pid)
		} else {
			data, err = client.Problem(ctx, pid, refresh)
		}
		if err != nil {
			spinner.StopWithError("problem %d: %s", pid, errors.UserMessage(err))
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf("problem-%d.json", pid))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		c.Logger.Debug("fetched", "pid", pid, "bytes", len(data), "path", path)
	}
	spinner.StopWithSuccess("fetched %d problems into %s", last-first+1, dir)
	return nil
}

func (c *CLI) submitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit <pid>",
		Short: "Submit the stored solution of a problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pid, err := parsePID(args[0])
			if err != nil {
				return err
			}
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Get(ctx, pid)
			if err != nil {
				return err
			}
			if rec == nil || rec.Solution == nil {
				return errors.New(errors.ErrCodeNotFound, "no stored solution for problem %d", pid)
			}

			client, err := c.newContestClient(ctx)
			if err != nil {
				return err
			}
			defer client.Close()
			return c.submitSolution(ctx, client, st, pid, rec.Solution)
		},
	}
	addStoreFlags(cmd.Flags())
	cmd.Flags().String("credentials", "", "credentials file (TOML with a [headers] table)")
	return cmd
}

func (c *CLI) checkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <pid>",
		Short: "Poll the verdict of a pending submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pid, err := parsePID(args[0])
			if err != nil {
				return err
			}
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			client, err := c.newContestClient(ctx)
			if err != nil {
				return err
			}
			defer client.Close()
			return c.checkSubmission(ctx, client, st, pid)
		},
	}
	addStoreFlags(cmd.Flags())
	cmd.Flags().String("credentials", "", "credentials file (TOML with a [headers] table)")
	return cmd
}

// checkSubmission fetches the verdict of pid's pending submission.
func (c *CLI) checkSubmission(ctx context.Context, client *contest.Client, st store.Store, pid int) error {
	rec, err := st.Get(ctx, pid)
	if err != nil {
		return err
	}
	if !rec.Pending() {
		printInfo("problem %d: no pending submission", pid)
		return nil
	}
	sub, err := client.Submission(ctx, rec.SubmissionID)
	if err != nil {
		return err
	}
	return c.recordVerdict(ctx, st, pid, sub)
}

func parsePID(s string) (int, error) {
	pid, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid problem id %q", s)
	}
	return pid, errors.ValidateProblemID(pid)
}
