package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"quark/storage"
)

func renderSessionManager(sessions []storage.SessionMetadata, selectedIdx int, currentSessionID string, renameMode bool, renameInput textinput.Model, filterMode bool, filterInput textinput.Model, importMode bool, importInput textinput.Model, confirmDelete *storage.SessionMetadata, width, height int) string {
	modalWidth := width - 10
	if modalWidth > 110 {
		modalWidth = 110
	}
	modalHeight := height - 6

	if confirmDelete != nil {
		warning := lipgloss.NewStyle().Foreground(dangerColor).Render("This action cannot be undone.")
		lines := []string{
			"  Are you sure you want to delete:",
			"",
			fmt.Sprintf("  %q", confirmDelete.Name),
			"",
			"  " + warning,
		}
		footer := FormatFooter("y/Enter", "Delete", "Any other key", "Cancel")
		return RenderThreeSectionModal("Delete Session", lines, footer, ModalTypeWarning, 60, width, height)
	}

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("Session Manager")

	var header string
	switch {
	case filterMode:
		header = filterInput.View()
	case importMode:
		header = importInput.View()
	default:
		header = fmt.Sprintf("%d sessions", len(sessions))
	}

	headerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(header)

	var sessionLines []string
	maxLines := modalHeight - 8

	if len(sessions) == 0 {
		emptyMsg := "No sessions yet. Start chatting to create one!"
		if filterMode {
			emptyMsg = "No matches found"
		}
		sessionLines = append(sessionLines, lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true).
			Align(lipgloss.Center).
			Width(modalWidth).
			Render(emptyMsg))
	} else {
		startIdx, endIdx := visibleRange(len(sessions), selectedIdx, maxLines)

		for i := startIdx; i < endIdx; i++ {
			session := sessions[i]

			indicator := "  "
			if i == selectedIdx {
				indicator = "▶ "
			}

			var nameDisplay string
			if renameMode && i == selectedIdx {
				nameDisplay = lipgloss.NewStyle().
					Foreground(accentColor).
					Bold(true).
					Render(renameInput.View())
			} else {
				maxNameWidth := modalWidth - 40
				nameDisplay = runewidth.Truncate(session.Name, maxNameWidth, "...")
			}

			nameStyled := nameDisplay
			if i == selectedIdx {
				nameStyled = lipgloss.NewStyle().Foreground(successColor).Bold(true).Render(nameDisplay)
			} else if session.ID == currentSessionID {
				nameStyled = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Render(nameDisplay)
			}

			marker := ""
			if session.ID == currentSessionID && !renameMode {
				marker = DimStyle.Render(" (current)")
			}

			msgCount := fmt.Sprintf("%d msgs", session.MessageCount)
			if session.MessageCount == 1 {
				msgCount = "1 msg"
			}

			// Model name without the tag suffix
			modelName := session.Model
			if idx := strings.Index(modelName, ":"); idx > 0 {
				modelName = modelName[:idx]
			}
			modelName = runewidth.Truncate(modelName, 10, "")

			rightSide := fmt.Sprintf("%s  %10s  %8s", msgCount, modelName, formatTimeAgo(session.UpdatedAt))

			leftVisual := len(indicator) + runewidth.StringWidth(nameDisplay)
			markerVisual := 0
			if marker != "" {
				markerVisual = 10 // " (current)"
			}
			spacing := modalWidth - 4 - leftVisual - markerVisual - len(rightSide)
			if spacing < 1 {
				spacing = 1
			}

			line := indicator + nameStyled + marker + strings.Repeat(" ", spacing) + DimStyle.Render(rightSide)
			sessionLines = append(sessionLines, line)
		}
	}

	listSection := strings.Join(sessionLines, "\n")

	footer := FormatFooter(
		"j/k", "Navigate",
		"Enter", "Open",
		"n", "New",
		"r", "Rename",
		"d", "Delete",
		"e", "Export",
		"i", "Import",
		"/", "Filter",
		"Esc", "Close",
	)
	footerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footer)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleSection,
		headerSection,
		listSection,
		footerSection,
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// visibleRange computes the scroll window so the selection stays centered.
func visibleRange(total, selected, maxLines int) (int, int) {
	if total <= maxLines || maxLines <= 0 {
		return 0, total
	}
	start := 0
	end := total
	if selected < maxLines/2 {
		end = maxLines
	} else if selected >= total-maxLines/2 {
		start = total - maxLines
	} else {
		start = selected - maxLines/2
		end = start + maxLines
	}
	if end > total {
		end = total
	}
	return start, end
}

// formatTimeAgo formats a time as a relative string (e.g., "2h ago", "3d ago")
func formatTimeAgo(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return "just now"
	} else if duration < time.Hour {
		return fmt.Sprintf("%dm ago", int(duration.Minutes()))
	} else if duration < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(duration.Hours()))
	} else if duration < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(duration.Hours()/24))
	} else if duration < 30*24*time.Hour {
		return fmt.Sprintf("%dw ago", int(duration.Hours()/24/7))
	}
	return fmt.Sprintf("%dmo ago", int(duration.Hours()/24/30))
}
