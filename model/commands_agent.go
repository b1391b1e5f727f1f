package model

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// RunQuery runs the agent loop for one user query. The returned command
// blocks until the agent produces its final text, so the UI keeps pumping
// WaitForToolEvent alongside it to show tool activity as it happens.
func (m *Model) RunQuery(ctx context.Context, query string) tea.Cmd {
	runner := m.Runner
	if runner == nil {
		return nil
	}
	return func() tea.Msg {
		return AgentDoneMsg{Response: runner.Run(ctx, query)}
	}
}

// WaitForToolEvent delivers the next tool notification from the agent.
// The handler for ToolEventMsg re-issues this command to keep listening.
func (m *Model) WaitForToolEvent() tea.Cmd {
	ch := m.ToolEvents
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ToolEventMsg{Event: ev}
	}
}
