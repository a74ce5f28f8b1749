package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/docdrill/internal/ui/theme"
)

const titleFull = `╺┳┓┏━┓┏━╸╺┳┓┏━┓╻╻  ╻
 ┃┃┃ ┃┃   ┃┃┣┳┛┃┃  ┃
╺┻┛┗━┛┗━╸╺┻┛╹┗╸╹┗━╸┗━╸`

const titleCompact = "D · O · C · D · R · I · L · L"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	// Leave room for frame border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	title := titleFull
	if compact {
		title = titleCompact
	}
	tagline := theme.Hint.Render("Read fast. Note what matters. Explain the data.")
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(theme.Title.Render(title) + "\n\n" + tagline)
}

// renderStatsBar renders journal totals in a bordered box matching content width.
func renderStatsBar(st Stats, cw int, compact bool) string {
	exStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	quickStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	failStyle := lipgloss.NewStyle().Foreground(theme.Warning).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			exStyle.Render(fmt.Sprintf("▤%d", st.Reviewed)),
			quickStyle.Render(fmt.Sprintf("⚡%d", st.Quick)),
			failedText(st.FailedSaves, true, failStyle, dimStyle),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			exStyle.Render(fmt.Sprintf("▤ %d REVIEWED", st.Reviewed)),
			quickStyle.Render(fmt.Sprintf("⚡ %d QUICK", st.Quick)),
			failedText(st.FailedSaves, false, failStyle, dimStyle),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func failedText(n int, compact bool, active, dim lipgloss.Style) string {
	if n == 0 {
		if compact {
			return dim.Render("✓")
		}
		return dim.Render("✓ ALL NOTES SAVED")
	}
	if compact {
		return active.Render(fmt.Sprintf("!%d", n))
	}
	return active.Render(fmt.Sprintf("! %d UNSAVED", n))
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 24

// renderMenu renders each menu item as a fixed-width button, or as plain
// lines when compact.
func renderMenu(labels []string, selected, cw int, compact bool) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Primary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	var items []string
	for i, label := range labels {
		switch {
		case compact && i == selected:
			items = append(items, theme.Selected.Render(" ▸ "+label+" "))
		case compact:
			items = append(items, lipgloss.NewStyle().Foreground(theme.Text).Render("   "+label))
		case i == selected:
			items = append(items, selectedBtn.Render("▸ "+label))
		default:
			items = append(items, normalBtn.Render(label))
		}
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(items, "\n"))
}

// renderFrame wraps content in a rounded frame, centering it vertically
// and horizontally within the given dimensions.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).   // account for border chars
		Height(height - 2). // account for border chars
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
