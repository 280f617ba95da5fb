package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lukemcguire/deadlinks/checker"
	"github.com/lukemcguire/deadlinks/result"
)

// FileCheckedMsg reports that one file has been checked.
type FileCheckedMsg checker.FileChecked

// ProgressClosedMsg signals that no more progress events will arrive.
type ProgressClosedMsg struct{}

// RunDoneMsg signals the run has completed.
type RunDoneMsg struct {
	Report *result.Report
	Err    error
}

// waitForProgress returns a tea.Cmd that reads one event from the progress
// channel.
func waitForProgress(ch <-chan checker.FileChecked) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return ProgressClosedMsg{}
		}
		return FileCheckedMsg(evt)
	}
}
