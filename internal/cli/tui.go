package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"

	"github.com/paiv/icfpc2023/pkg/pipeline"
	"github.com/paiv/icfpc2023/pkg/placement"
	"github.com/paiv/icfpc2023/pkg/problem"
)

var (
	barFullStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
	tuiDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

const defaultBarWidth = 40

// =============================================================================
// SolveModel - live optimizer view
// =============================================================================

type progressMsg placement.Progress

type solveDoneMsg struct {
	result *pipeline.Result
	err    error
}

// SolveModel shows optimizer progress: outer iterations against the
// performer count, the running score and accepted swaps.
type SolveModel struct {
	Title     string
	Musicians int
	Progress  placement.Progress
	Result    *pipeline.Result
	Err       error
	Stopping  bool
	Width     int

	cancel context.CancelFunc
}

// NewSolveModel creates a model for a solve of musicians performers. cancel
// stops the solver early; it keeps its best layout so far.
func NewSolveModel(title string, musicians int, cancel context.CancelFunc) SolveModel {
	return SolveModel{Title: title, Musicians: musicians, Width: defaultBarWidth, cancel: cancel}
}

func (m SolveModel) Init() tea.Cmd {
	return nil
}

func (m SolveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.Stopping && m.cancel != nil {
				m.cancel()
			}
			m.Stopping = true
		}
	case tea.WindowSizeMsg:
		m.Width = min(max(msg.Width-30, 10), 80)
	case progressMsg:
		m.Progress = placement.Progress(msg)
	case solveDoneMsg:
		m.Result, m.Err = msg.result, msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m SolveModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	if m.Stopping {
		b.WriteString(StyleWarning.Render("stopping, keeping the best layout so far"))
	} else {
		b.WriteString(tuiDimStyle.Render("q stop early"))
	}
	b.WriteString("\n\n")

	p := m.Progress
	b.WriteString(progressBar(p.Iteration, m.Musicians, m.Width))
	b.WriteString(fmt.Sprintf(" %d/%d\n\n", p.Iteration, m.Musicians))

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorGray).Width(10)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Rows(
			[]string{"score", StyleNumber.Render(strconv.FormatInt(p.Score, 10))},
			[]string{"swaps", strconv.Itoa(p.Swaps)},
			[]string{"elapsed", p.Elapsed.Round(100 * time.Millisecond).String()},
		)
	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

// progressBar draws done/total as a bar of width cells.
func progressBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = min(width, done*width/total)
	}
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// =============================================================================
// Runner
// =============================================================================

// solveWithTUI runs the solve behind a live view on stderr. Solver logs are
// silenced while the view is up; diagnostics remain in the result stats.
func solveWithTUI(ctx context.Context, runner *pipeline.Runner, p *problem.Problem, opts pipeline.Options, title string) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prog := tea.NewProgram(
		NewSolveModel(title, len(p.Roles), cancel),
		tea.WithOutput(os.Stderr),
	)

	opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	opts.Progress = func(pr placement.Progress) { prog.Send(progressMsg(pr)) }

	go func() {
		res, err := runner.Solve(ctx, p, opts)
		prog.Send(solveDoneMsg{result: res, err: err})
	}()

	final, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("progress view: %w", err)
	}
	m := final.(SolveModel)
	return m.Result, m.Err
}
