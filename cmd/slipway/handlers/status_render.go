package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/slipway/internal/release"
)

// Colors matching internal/ui/tui/styles.go palette.
var (
	statusColorGreen  = lipgloss.Color("#22c55e")
	statusColorRed    = lipgloss.Color("#ef4444")
	statusColorYellow = lipgloss.Color("#eab308")
	statusColorBlue   = lipgloss.Color("#3b82f6")
	statusColorDim    = lipgloss.Color("#6b7280")
	statusColorWhite  = lipgloss.Color("#f9fafb")
)

var (
	statusTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(statusColorWhite)

	statusSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(statusColorBlue)

	statusDimStyle = lipgloss.NewStyle().
			Foreground(statusColorDim)

	statusReadyStyle = lipgloss.NewStyle().
				Foreground(statusColorGreen)

	statusWarnStyle = lipgloss.NewStyle().
			Foreground(statusColorYellow)

	statusFailStyle = lipgloss.NewStyle().
			Foreground(statusColorRed)
)

// renderStatusReport produces a lipgloss-styled release status string.
func renderStatusReport(report *release.Report) string {
	var b strings.Builder
	rel := report.Release

	b.WriteString("\n")
	b.WriteString(statusTitleStyle.Render(fmt.Sprintf("  slipway status: %s", rel.Name)))
	b.WriteString("\n")
	b.WriteString(statusDimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n\n")

	b.WriteString(statusSectionStyle.Render("  Release"))
	b.WriteString("\n")
	b.WriteString(statusDimStyle.Render("  " + strings.Repeat("─", 30)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "    Namespace: %s\n", rel.Namespace)
	fmt.Fprintf(&b, "    Revision:  %d\n", rel.Revision)
	fmt.Fprintf(&b, "    Chart:     %s\n", rel.Chart)
	if rel.Tag != "" {
		fmt.Fprintf(&b, "    Tag:       %s\n", rel.Tag)
	}
	if !rel.Updated.IsZero() {
		fmt.Fprintf(&b, "    Updated:   %s\n", rel.Updated.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(&b, "    Status:    %s\n", rel.Status)

	b.WriteString("\n")
	b.WriteString(statusSectionStyle.Render("  Rollout"))
	b.WriteString("\n")
	b.WriteString(statusDimStyle.Render("  " + strings.Repeat("─", 30)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "    Replicas: %d/%d available\n", report.Available, report.Desired)
	b.WriteString("    State:    ")
	b.WriteString(renderRolloutState(report))
	b.WriteString("\n")

	return b.String()
}

// renderRolloutState styles the rollout verdict.
func renderRolloutState(report *release.Report) string {
	switch report.State {
	case release.RolloutReady:
		return statusReadyStyle.Render("Ready")
	case release.RolloutFailed:
		if report.Reason != "" {
			return statusFailStyle.Render(fmt.Sprintf("Failed (%s)", report.Reason))
		}
		return statusFailStyle.Render("Failed")
	default:
		return statusWarnStyle.Render("Progressing")
	}
}
