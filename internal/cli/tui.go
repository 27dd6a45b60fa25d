package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/graphdrift/graphdrift/pkg/pipeline"
	"github.com/graphdrift/graphdrift/pkg/sink"
	"github.com/graphdrift/graphdrift/pkg/solver"
)

// =============================================================================
// LayoutModel - Live relaxation progress
// =============================================================================

// frameMsg carries one solver frame into the bubbletea loop.
type frameMsg struct {
	frame *solver.Frame
}

// doneMsg carries the pipeline result once the run finishes.
type doneMsg struct {
	result *pipeline.Result
	err    error
}

type tickMsg time.Time

// LayoutModel is the bubbletea model showing the relaxation live.
type LayoutModel struct {
	graphName string
	start     time.Time
	cancel    context.CancelFunc

	frames   int
	dims     int
	nodes    int
	edges    int
	quitting bool

	result *pipeline.Result
	err    error
}

// NewLayoutModel creates a layout progress model. cancel aborts the run
// when the user quits.
func NewLayoutModel(graphName string, cancel context.CancelFunc) LayoutModel {
	return LayoutModel{
		graphName: graphName,
		start:     time.Now(),
		cancel:    cancel,
	}
}

func (m LayoutModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m LayoutModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			// Abort the run and wait for doneMsg so nothing leaks.
			m.quitting = true
			m.cancel()
			return m, nil
		}
	case frameMsg:
		m.frames++
		m.dims = msg.frame.Dims
		m.nodes = len(msg.frame.Nodes)
		m.edges = len(msg.frame.Edges)
		return m, nil
	case doneMsg:
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	case tickMsg:
		return m, tick()
	}
	return m, nil
}

func (m LayoutModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Relaxing " + m.graphName))
	b.WriteString("\n\n")

	dims := "—"
	if m.dims > 0 {
		dims = fmt.Sprintf("%dD", m.dims)
	}
	b.WriteString(fmt.Sprintf("  %s %s\n", StyleDim.Render("dims:"), StyleValue.Render(dims)))
	b.WriteString(fmt.Sprintf("  %s %s\n", StyleDim.Render("frames:"), StyleValue.Render(fmt.Sprintf("%d", m.frames))))
	if m.nodes > 0 {
		b.WriteString(fmt.Sprintf("  %s %s\n", StyleDim.Render("graph:"),
			StyleValue.Render(fmt.Sprintf("%d nodes, %d edges", m.nodes, m.edges))))
	}
	b.WriteString(fmt.Sprintf("  %s %s\n", StyleDim.Render("elapsed:"),
		StyleValue.Render(time.Since(m.start).Round(100*time.Millisecond).String())))

	b.WriteString("\n")
	if m.quitting {
		b.WriteString(StyleDim.Render("  stopping..."))
	} else {
		b.WriteString(StyleDim.Render("  q quit"))
	}
	b.WriteString("\n")

	return b.String()
}

// =============================================================================
// Program Wiring
// =============================================================================

// programSink forwards solver frames into the running bubbletea program.
type programSink struct {
	p *tea.Program
}

func (s programSink) Emit(ctx context.Context, f *solver.Frame) error {
	s.p.Send(frameMsg{frame: f})
	return nil
}

// runLayoutTUI runs the pipeline while showing live progress. Frames still
// flow to sinks; the TUI only observes them.
func (c *CLI) runLayoutTUI(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, sinks solver.Sink) (*pipeline.Result, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logging would corrupt the alt screen, drop it for the TUI run.
	opts.Logger = log.New(io.Discard)

	model := NewLayoutModel(filepath.Base(opts.Path), cancel)
	p := tea.NewProgram(model, tea.WithOutput(os.Stderr))

	go func() {
		result, err := runner.Execute(runCtx, opts, sink.Multi{sinks, programSink{p: p}})
		p.Send(doneMsg{result: result, err: err})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(LayoutModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", finalModel)
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return nil, context.Canceled
	}
	return m.result, nil
}
