package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"quark/storage"
)

func renderGlobalSearch(input textinput.Model, results []storage.SessionMessageMatch, selectedIdx int, width, height int) string {
	modalWidth := width - 10
	if modalWidth > 100 {
		modalWidth = 100
	}
	modalHeight := height - 6

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("Search All Sessions")

	headerSection := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(input.View())

	var resultLines []string
	maxLines := modalHeight - 8

	if len(results) == 0 {
		emptyMsg := "Type to search across all sessions"
		if input.Value() != "" {
			emptyMsg = "No matches found"
		}
		resultLines = append(resultLines, lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true).
			Align(lipgloss.Center).
			Width(modalWidth).
			Render(emptyMsg))
	} else {
		startIdx, endIdx := visibleRange(len(results), selectedIdx, maxLines)

		for i := startIdx; i < endIdx; i++ {
			match := results[i]

			indicator := "  "
			if i == selectedIdx {
				indicator = "▶ "
			}

			sessionName := runewidth.Truncate(match.SessionName, 24, "...")
			preview := runewidth.Truncate(strings.ReplaceAll(match.Preview, "\n", " "), modalWidth-36, "...")

			nameStyled := sessionName
			if i == selectedIdx {
				nameStyled = lipgloss.NewStyle().Foreground(successColor).Bold(true).Render(sessionName)
			} else {
				nameStyled = lipgloss.NewStyle().Foreground(accentColor).Render(sessionName)
			}

			line := fmt.Sprintf("%s%s  %s", indicator, nameStyled, DimStyle.Render(preview))
			resultLines = append(resultLines, line)
		}
	}

	listSection := strings.Join(resultLines, "\n")

	footer := FormatFooter("↑/↓", "Navigate", "Enter", "Open Session", "Esc", "Close")
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
