package tui

import "github.com/charmbracelet/lipgloss"

// Palette with light and dark terminal variants.
var (
	colorOK     = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}
	colorFail   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}
	colorWarn   = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}
	colorAccent = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#3B82F6"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	colorText   = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}
)

func fg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

var (
	titleStyle   = fg(colorText).Bold(true)
	sectionStyle = fg(colorAccent).Bold(true).MarginTop(1)
	readyStyle   = fg(colorOK)
	failedStyle  = fg(colorFail)
	warningStyle = fg(colorWarn)
	dimStyle     = fg(colorMuted)
	activeStyle  = fg(colorText).Bold(true)
	footerStyle  = fg(colorMuted).MarginTop(1)

	progressBarFull  = fg(colorOK)
	progressBarEmpty = fg(colorMuted)
)

const (
	checkMark = "[OK]"
	crossMark = "[!!]"
	pending   = "[  ]"
)

var spinnerFrames = []string{"[.  ]", "[.. ]", "[...]", "[ ..]", "[  .]", "[   ]"}
