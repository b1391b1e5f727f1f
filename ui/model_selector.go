package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"quark/ollama"
)

func renderModelSelector(models []ollama.ModelInfo, selectedIdx int, currentModel string, filterMode bool, filterInput textinput.Model, width, height int) string {
	modalWidth := width - 10
	if modalWidth > 90 {
		modalWidth = 90
	}
	modalHeight := height - 6

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("Select Model")

	var header string
	if filterMode {
		header = filterInput.View()
	} else {
		header = fmt.Sprintf("%d models", len(models))
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

	var modelLines []string
	maxLines := modalHeight - 8

	if len(models) == 0 {
		modelLines = append(modelLines, lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true).
			Align(lipgloss.Center).
			Width(modalWidth).
			Render("No models available"))
	} else {
		startIdx, endIdx := visibleRange(len(models), selectedIdx, maxLines)

		for i := startIdx; i < endIdx; i++ {
			m := models[i]

			indicator := "  "
			if i == selectedIdx {
				indicator = "▶ "
			}

			name := runewidth.Truncate(m.Name, modalWidth-30, "...")

			nameStyled := name
			if i == selectedIdx {
				nameStyled = lipgloss.NewStyle().Foreground(successColor).Bold(true).Render(name)
			} else if m.InternalName == currentModel || m.Name == currentModel {
				nameStyled = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Render(name)
			}

			rightSide := fmt.Sprintf("%10s  %10s", m.Provider, formatModelSize(m.Size))

			spacing := modalWidth - 4 - len(indicator) - runewidth.StringWidth(name) - len(rightSide)
			if spacing < 1 {
				spacing = 1
			}

			line := indicator + nameStyled + strings.Repeat(" ", spacing) + DimStyle.Render(rightSide)
			modelLines = append(modelLines, line)
		}
	}

	listSection := strings.Join(modelLines, "\n")

	footer := FormatFooter("j/k", "Navigate", "Enter", "Select", "/", "Filter", "Esc", "Close")
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

// formatModelSize renders a model size in GB, or blank for cloud models that
// don't report one.
func formatModelSize(size int64) string {
	if size <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1f GB", float64(size)/(1024*1024*1024))
}

// filterModels does a case-insensitive substring filter on model names.
func filterModels(models []ollama.ModelInfo, pattern string) []ollama.ModelInfo {
	if pattern == "" {
		return models
	}
	patternLower := strings.ToLower(pattern)
	var filtered []ollama.ModelInfo
	for _, m := range models {
		if strings.Contains(strings.ToLower(m.Name), patternLower) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
