package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/slipway/internal/provision"
)

// styleFunc is a single-string styling function.
type styleFunc func(string) string

// sf wraps a lipgloss.Style into a styleFunc.
func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

// phaseWeights apportions the progress bar across phases. Node
// creation and the readiness wait dominate wall-clock time.
var phaseWeights = map[string]float64{
	"infrastructure": 0.15,
	"compute":        0.35,
	"bootstrap":      0.10,
	"verify":         0.40,
}

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderProgressBar(&b, m)
	renderPhases(&b, m)
	renderActivity(&b, m)
	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	title := fmt.Sprintf("slipway: %s", m.ClusterName)
	if m.Region != "" {
		title += fmt.Sprintf(" (%s)", m.Region)
	}
	b.WriteString(titleStyle.Render(title))

	status := " "
	switch {
	case m.Done:
		status += readyStyle.Render("Ready")
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	default:
		if name := activePhaseName(m); name != "" {
			status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + warningStyle.Render(name)
		} else {
			status += dimStyle.Render("Starting...")
		}
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderProgressBar(b *strings.Builder, m Model) {
	progress := calculateProgress(m)
	barWidth := 40
	if m.Width > 0 && m.Width < 80 {
		barWidth = m.Width - 30
		if barWidth < 10 {
			barWidth = 10
		}
	}
	filled := int(float64(barWidth) * progress)
	if filled > barWidth {
		filled = barWidth
	}

	bar := progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))

	fmt.Fprintf(b, "  %s %d%%\n", bar, int(progress*100))
}

func renderPhases(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Provisioning"))
	b.WriteString("\n")

	for _, phase := range m.Phases {
		var icon string
		var style styleFunc
		switch {
		case phase.Err != nil:
			icon = crossMark
			style = sf(failedStyle)
		case phase.Done:
			icon = checkMark
			style = sf(readyStyle)
		case phase.Active:
			icon = currentSpinner(m.SpinnerFrame)
			style = sf(activeStyle)
		default:
			icon = pending
			style = sf(dimStyle)
		}

		count := ""
		if c, ok := m.Counts[phase.Key]; ok && c.Total > 0 {
			count = fmt.Sprintf("  %d/%d", c.Current, c.Total)
		}
		fmt.Fprintf(b, "    %s %-16s%s\n", style(icon), style(phase.Name), dimStyle.Render(count))
	}
}

func renderActivity(b *strings.Builder, m Model) {
	if len(m.Activity) == 0 {
		return
	}

	b.WriteString(sectionStyle.Render("  Activity"))
	b.WriteString("\n")

	for _, e := range m.Activity {
		icon, style := eventIcon(e.Type, m.SpinnerFrame)
		fmt.Fprintf(b, "    %s %-24s %s\n", style(icon), style(e.Resource), dimStyle.Render(e.Message))
	}
}

func renderFooter(b *strings.Builder, m Model) {
	elapsed := formatDuration(time.Since(m.StartTime))
	b.WriteString(footerStyle.Render(fmt.Sprintf("  elapsed: %s  |  q: quit", elapsed)))
	b.WriteString("\n")
}

// Helper functions

func activePhaseName(m Model) string {
	for _, phase := range m.Phases {
		if phase.Active {
			return phase.Name
		}
	}
	return ""
}

func eventIcon(t provision.EventType, frame int) (string, styleFunc) {
	switch t {
	case provision.EventResourceCreating:
		return currentSpinner(frame), sf(activeStyle)
	case provision.EventResourceCreated:
		return checkMark, sf(readyStyle)
	case provision.EventResourceExists:
		return checkMark, sf(dimStyle)
	case provision.EventResourceDeleted:
		return checkMark, sf(warningStyle)
	default:
		return pending, sf(dimStyle)
	}
}

func currentSpinner(frame int) string {
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

func calculateProgress(m Model) float64 {
	if m.Done {
		return 1.0
	}

	var progress float64
	for _, phase := range m.Phases {
		w := phaseWeights[phase.Key]
		switch {
		case phase.Done:
			progress += w
		case phase.Active:
			if c, ok := m.Counts[phase.Key]; ok && c.Total > 0 {
				progress += w * float64(c.Current) / float64(c.Total)
			}
		}
	}

	if progress > 1.0 {
		progress = 1.0
	}
	return progress
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
