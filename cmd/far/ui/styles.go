// Package ui renders orders for the terminal: lipgloss styles, order tables
// and glamour detail pages shared by the desk and the one-shot commands.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/orders"
)

// Status colors do not change with the theme.
var (
	colorClaimed   = lipgloss.Color("#1e88e5")
	colorCompleted = lipgloss.Color("#43a047")
	colorCancelled = lipgloss.Color("#e53935")
	colorWarning   = lipgloss.Color("#f9a825")
	colorOnBadge   = lipgloss.Color("#ffffff")
)

// Theme is the FAR palette for one terminal background.
type Theme struct {
	Leaf    lipgloss.Color // brand green
	Harvest lipgloss.Color // highlights and prompts
	Ink     lipgloss.Color
	Faded   lipgloss.Color
	Rule    lipgloss.Color
	IsDark  bool
}

func LightTheme() Theme {
	return Theme{
		Leaf:    lipgloss.Color("#2e7d32"),
		Harvest: lipgloss.Color("#ef6c00"),
		Ink:     lipgloss.Color("#1d2a1f"),
		Faded:   lipgloss.Color("#7b867d"),
		Rule:    lipgloss.Color("#d5dbd3"),
	}
}

func DarkTheme() Theme {
	return Theme{
		Leaf:    lipgloss.Color("#81c784"),
		Harvest: lipgloss.Color("#ffb74d"),
		Ink:     lipgloss.Color("#eef2ee"),
		Faded:   lipgloss.Color("#6b776d"),
		Rule:    lipgloss.Color("#2c3a2f"),
		IsDark:  true,
	}
}

// ThemeFor resolves the ui.theme setting. Anything other than "light" or
// "dark" means auto detection.
func ThemeFor(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	}
	return DetectTheme()
}

// DetectTheme picks dark for terminals reporting a dark COLORFGBG background
// or when FAR_DARK_MODE=1.
func DetectTheme() Theme {
	if fgbg := os.Getenv("COLORFGBG"); fgbg != "" {
		parts := strings.Split(fgbg, ";")
		if bg, err := strconv.Atoi(parts[len(parts)-1]); err == nil && darkANSI(bg) {
			return DarkTheme()
		}
	}
	if os.Getenv("FAR_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// darkANSI reports whether an ANSI background index is a dark color.
func darkANSI(idx int) bool {
	return (idx >= 0 && idx <= 6) || idx == 8
}

// Styles are the lipgloss styles of every desk element.
type Styles struct {
	Theme Theme

	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	Tab       lipgloss.Style
	ActiveTab lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	Prompt    lipgloss.Style
	UserInput lipgloss.Style
	Cursor    lipgloss.Style
	Selected  lipgloss.Style
	Dialog    lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Spinner lipgloss.Style
	Divider lipgloss.Style
	Badge   lipgloss.Style
}

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func strong(c lipgloss.Color) lipgloss.Style { return fg(c).Bold(true) }

// NewStyles derives the desk styles from theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header:  lipgloss.NewStyle().Background(theme.Leaf).Foreground(colorOnBadge).Bold(true).Padding(0, 2),
		Footer:  fg(theme.Faded).Padding(0, 2),
		Content: lipgloss.NewStyle().Padding(1, 2),

		Tab:       fg(theme.Faded).Padding(0, 2),
		ActiveTab: strong(theme.Leaf).Underline(true).Padding(0, 2),

		Title:    strong(theme.Leaf).MarginBottom(1),
		Subtitle: fg(theme.Faded).Italic(true),
		Body:     fg(theme.Ink),
		Muted:    fg(theme.Faded),
		Bold:     strong(theme.Ink),

		Prompt:    strong(theme.Harvest),
		UserInput: fg(theme.Ink),
		Cursor:    strong(theme.Harvest),
		Selected:  strong(theme.Leaf),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Harvest).
			Padding(0, 2),

		Success: strong(colorCompleted),
		Error:   strong(colorCancelled),
		Warning: strong(colorWarning),
		Info:    fg(colorClaimed),

		Spinner: fg(theme.Harvest),
		Divider: fg(theme.Rule),
		Badge:   strong(colorOnBadge).Padding(0, 1),
	}
}

// RenderDivider draws a rule width cells wide, at least one.
func (s Styles) RenderDivider(width int) string {
	return s.Divider.Render(strings.Repeat("─", max(width, 1)))
}

// StatusBadge renders a display status as a colored label.
func (s Styles) StatusBadge(st orders.DisplayStatus) string {
	switch st {
	case orders.DisplayCompleted:
		return s.Badge.Background(colorCompleted).Render("Selesai")
	case orders.DisplayCancelled:
		return s.Badge.Background(colorCancelled).Render("Dibatalkan")
	}
	return s.Badge.Background(colorClaimed).Render("Diklaim")
}
