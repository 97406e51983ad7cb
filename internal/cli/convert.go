package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/paiv/icfpc2023/pkg/placement"
	"github.com/paiv/icfpc2023/pkg/problem"
)

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// readInput reads path, or r when path is "-".
func readInput(r io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(r)
	}
	return os.ReadFile(path)
}

func (c *CLI) packCommand() *cobra.Command {
	var (
		pid    int
		framed bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "pack <problem.json>",
		Short: "Convert a contest problem to the solver's binary payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := c.loadJSONProblem(args[0], pid)
			if err != nil {
				return err
			}
			data := problem.Encode(p)
			if framed {
				data = problem.EncodeFramed(p)
			}
			return writeOutput(c.Stdout, output, data)
		},
	}

	cmd.Flags().IntVarP(&pid, "pid", "i", 0, "problem id, selects the scoring mode (default from the file name)")
	cmd.Flags().BoolVar(&framed, "framed", false, "prefix the payload with its u32 length, as read from stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().Int("time-limit", 0, "time limit in seconds to embed")

	return cmd
}

func (c *CLI) unpackCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "unpack <answer.bin|->",
		Short: "Convert a binary solver answer to a contest solution document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(c.Stdin, args[0])
			if err != nil {
				return err
			}
			sol, err := problem.DecodeAnswer(data)
			if err != nil {
				return err
			}
			c.Logger.Info("answer", "score", sol.Score, "musicians", len(sol.Placements))

			doc, err := json.Marshal(sol)
			if err != nil {
				return err
			}
			return writeOutput(c.Stdout, output, append(doc, '\n'))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *CLI) scoreCommand() *cobra.Command {
	var (
		pid  int
		mode uint32
	)

	cmd := &cobra.Command{
		Use:   "score <problem.json> <solution.json>",
		Short: "Score a contest solution against its problem",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := c.loadJSONProblem(args[0], pid)
			if err != nil {
				return err
			}
			if mode != 0 {
				p.ScoringMode = mode
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			sol, err := problem.ParseSolutionJSON(data)
			if err != nil {
				return err
			}
			score, err := placement.Evaluate(p, sol)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.Stdout, score)
			return err
		},
	}

	cmd.Flags().IntVarP(&pid, "pid", "i", 0, "problem id, selects the scoring mode (default from the file name)")
	cmd.Flags().Uint32Var(&mode, "mode", 0, "scoring mode: 1 plain, 2 closeness (overrides --pid)")
	return cmd
}
