package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/slipway/internal/provision"
)

// activityTail is how many recent resource events the dashboard keeps.
const activityTail = 5

// Phase represents one provisioning phase for display.
type Phase struct {
	Name   string
	Key    string
	Done   bool
	Active bool
	Err    error
}

// PhaseCount tracks per-phase progress, such as nodes created.
type PhaseCount struct {
	Current int
	Total   int
}

// Model is the Bubble Tea model for the cluster-up dashboard.
type Model struct {
	ClusterName string
	Region      string

	Phases []Phase
	Counts map[string]PhaseCount

	// Activity holds the most recent resource events.
	Activity []provision.Event

	StartTime    time.Time
	SpinnerFrame int

	// UI state
	Width  int
	Height int
	Err    error
	Done   bool
}

// NewClusterUpModel creates a model for the cluster-up command TUI.
func NewClusterUpModel(clusterName, region string) Model {
	return Model{
		ClusterName: clusterName,
		Region:      region,
		StartTime:   time.Now(),
		Counts:      make(map[string]PhaseCount),
		Phases: []Phase{
			{Name: "Infrastructure", Key: "infrastructure"},
			{Name: "Nodes", Key: "compute"},
			{Name: "Bootstrap", Key: "bootstrap"},
			{Name: "Verify", Key: "verify"},
		},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case EventMsg:
		m.applyEvent(msg.Event)

	case ProgressMsg:
		m.Counts[msg.Phase] = PhaseCount{Current: msg.Current, Total: msg.Total}

	case TickMsg:
		m.SpinnerFrame++
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) applyEvent(e provision.Event) {
	switch e.Type {
	case provision.EventPhaseStarted, provision.EventPhaseCompleted, provision.EventPhaseFailed:
		m.updatePhase(e)
	default:
		m.Activity = append(m.Activity, e)
		if len(m.Activity) > activityTail {
			m.Activity = m.Activity[len(m.Activity)-activityTail:]
		}
	}
}

func (m *Model) updatePhase(e provision.Event) {
	idx := -1
	for i, phase := range m.Phases {
		if phase.Key == e.Phase {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	// A phase reporting in means everything before it finished.
	for i := 0; i < idx; i++ {
		m.Phases[i].Done = true
		m.Phases[i].Active = false
	}

	switch e.Type {
	case provision.EventPhaseStarted:
		m.Phases[idx].Active = true
	case provision.EventPhaseCompleted:
		m.Phases[idx].Done = true
		m.Phases[idx].Active = false
	case provision.EventPhaseFailed:
		m.Phases[idx].Active = false
		m.Phases[idx].Err = errors.New(e.Message)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
