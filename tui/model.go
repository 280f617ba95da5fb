// Package tui provides the Bubble Tea terminal UI for deadlinks,
// streaming styled per-file results above a live progress line and
// finishing with a styled summary.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lukemcguire/deadlinks/checker"
	"github.com/lukemcguire/deadlinks/result"
)

// Model is the Bubble Tea model for a check run.
type Model struct {
	ctx        context.Context
	cancel     context.CancelFunc
	files      *checker.Files
	spinner    spinner.Model
	progressCh chan checker.FileChecked

	checked  int
	total    int
	links    int
	dead     int
	current  string
	quitting bool
	runDone  bool
	drained  bool
	report   *result.Report
	err      error
}

// NewModel creates a TUI model that runs files and listens on progressCh.
// files must be configured to send its events to progressCh; the model
// closes the channel once the run returns.
func NewModel(ctx context.Context, cancel context.CancelFunc, files *checker.Files, progressCh chan checker.FileChecked) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		ctx:        ctx,
		cancel:     cancel,
		files:      files,
		spinner:    spin,
		progressCh: progressCh,
	}
}

// Init starts the spinner, the run, and the progress listener concurrently.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startRun(), waitForProgress(m.progressCh))
}

// startRun returns a tea.Cmd that runs the check and sends RunDoneMsg.
func (m Model) startRun() tea.Cmd {
	return func() tea.Msg {
		rep, err := m.files.Check(m.ctx)
		close(m.progressCh)
		if err != nil {
			err = fmt.Errorf("check: %w", err)
		}
		return RunDoneMsg{Report: rep, Err: err}
	}
}

// Update handles messages from the Bubble Tea runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}

	case FileCheckedMsg:
		m.checked = msg.Done
		m.total = msg.Total
		m.links = msg.Links
		m.dead = msg.Dead
		m.current = msg.Path
		// Print before reading the next event so file blocks keep their order.
		return m, tea.Sequence(
			tea.Println(RenderFile(msg.Path, msg.Entries)),
			waitForProgress(m.progressCh),
		)

	case ProgressClosedMsg:
		m.drained = true
		return m, m.quitIfFinished()

	case RunDoneMsg:
		m.runDone = true
		m.report = msg.Report
		m.err = msg.Err
		return m, m.quitIfFinished()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) quitIfFinished() tea.Cmd {
	if m.runDone && m.drained {
		return tea.Quit
	}
	return nil
}

// View renders the current TUI state.
func (m Model) View() string {
	if m.runDone && m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.runDone && m.report != nil {
		return RenderSummary(m.report)
	}
	if m.quitting {
		return dimStyle.Render("Interrupted.") + "\n"
	}
	return fmt.Sprintf("%s Checking... files %d/%d, links %d, dead %d\n%s\n",
		m.spinner.View(), m.checked, m.total, m.links, m.dead,
		dimStyle.Render("  "+m.current))
}

// HasDeadLinks reports whether the run found any dead links.
func (m Model) HasDeadLinks() bool {
	return m.report.DeadLinks() > 0
}

// Report returns the run report, or nil if the run did not finish.
func (m Model) Report() *result.Report {
	return m.report
}

// Err returns the error the run ended with, if any.
func (m Model) Err() error {
	return m.err
}

// Interrupted reports whether the user quit before the run finished.
func (m Model) Interrupted() bool {
	return m.quitting && !m.runDone
}
