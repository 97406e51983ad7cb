package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/paiv/icfpc2023/pkg/integrations/contest"
	"github.com/paiv/icfpc2023/pkg/store"
)

// planFlags holds the flags of the plan command.
type planFlags struct {
	once     bool
	list     bool
	noSubmit bool
	render   string
}

func (c *CLI) planCommand() *cobra.Command {
	var flags planFlags

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Keep solving problems, oldest attempt first",
		Long: `Work through the problems directory forever.

Each round picks the task whose timestamp is oldest: a pending submission
is checked, any other problem is solved again. Never-solved problems come
first; ties go to the smaller problem. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlan(cmd.Context(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.once, "once", false, "run a single task")
	cmd.Flags().BoolVar(&flags.list, "list", false, "print the task order and exit")
	cmd.Flags().BoolVarP(&flags.noSubmit, "no-submit", "n", false, "keep solutions without submitting")
	cmd.Flags().StringVar(&flags.render, "render", "", "render kept solutions in these formats")
	cmd.Flags().String("problems", "", "problems directory")
	addSolverFlags(cmd.Flags())
	addStoreFlags(cmd.Flags())
	cmd.Flags().Int64("threshold", 0, "minimum score gain to keep a solution")

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, flags planFlags) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if flags.list {
		problems, err := store.ScanProblems(c.Config.ProblemsDir)
		if err != nil {
			return err
		}
		tasks, err := store.Plan(ctx, st, problems)
		if err != nil {
			return err
		}
		for _, t := range tasks {
			since := "never"
			if !t.Since.IsZero() {
				since = formatRelativeTime(t.Since, time.Now())
			}
			printDetail("%-5s %4d  %8d bytes  %s", t.Kind, t.Problem.ID, t.Problem.Size, since)
		}
		return nil
	}

	var client *contest.Client
	defer func() {
		if client != nil {
			client.Close()
		}
	}()

	for round := 1; ; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		problems, err := store.ScanProblems(c.Config.ProblemsDir)
		if err != nil {
			return err
		}
		task, ok, err := store.Next(ctx, st, problems)
		if err != nil {
			return err
		}
		if !ok {
			printInfo("nothing to do in %s", c.Config.ProblemsDir)
			return nil
		}
		c.Logger.Info("task", "round", round, "kind", task.Kind, "pid", task.Problem.ID)

		if task.Kind == store.TaskCheck && client == nil {
			if client, err = c.newContestClient(ctx); err != nil {
				return err
			}
		}

		switch task.Kind {
		case store.TaskCheck:
			err = c.checkSubmission(ctx, client, st, task.Problem.ID)
		default:
			err = c.solveFile(ctx, st, task.Problem.Path, solveFlags{
				pid:    task.Problem.ID,
				submit: !flags.noSubmit,
				render: flags.render,
			})
		}
		if err != nil {
			return fmt.Errorf("%s problem %d: %w", task.Kind, task.Problem.ID, err)
		}
		if flags.once {
			return nil
		}
	}
}

func (c *CLI) statusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show stored solutions and their scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			records, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printInfo("no solutions yet")
				return nil
			}

			var total int64
			pending := 0
			for _, r := range records {
				if r.Verified != nil && *r.Verified > 0 {
					total += *r.Verified
				}
				if r.Pending() {
					pending++
				}
			}
			fmt.Fprintln(uiOut, recordsTable(records, time.Now()))
			printKeyValue("verified", StyleNumber.Render(fmt.Sprint(total)))
			printKeyValue("pending", fmt.Sprint(pending))
			if pending > 0 {
				printNextStep("Poll verdicts", appName+" plan")
			}
			return nil
		},
	}
	addStoreFlags(cmd.Flags())
	return cmd
}
