package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/imamik/slipway/internal/provision"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m30s"},
		{3600 * time.Second, "1h0m"},
		{3661 * time.Second, "1h1m"},
	}
	for _, tt := range tests {
		got := formatDuration(tt.d)
		if got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestCalculateProgress_Done(t *testing.T) {
	m := Model{Done: true}
	p := calculateProgress(m)
	if p != 1.0 {
		t.Errorf("expected 1.0, got %v", p)
	}
}

func TestCalculateProgress_PartialPhases(t *testing.T) {
	m := NewClusterUpModel("test", "nbg1")
	m.Phases[0].Done = true // infrastructure
	m.Phases[1].Active = true
	m.Counts["compute"] = PhaseCount{Current: 1, Total: 2}

	p := calculateProgress(m)
	expected := 0.15 + 0.35*0.5
	if p < expected-0.01 || p > expected+0.01 {
		t.Errorf("expected ~%v, got %v", expected, p)
	}
}

func TestCalculateProgress_AllPhasesDone(t *testing.T) {
	m := NewClusterUpModel("test", "nbg1")
	for i := range m.Phases {
		m.Phases[i].Done = true
	}

	p := calculateProgress(m)
	if p < 0.99 {
		t.Errorf("expected ~1.0, got %v", p)
	}
}

func TestModelUpdatePhase(t *testing.T) {
	m := NewClusterUpModel("test", "nbg1")

	m.updatePhase(provision.Event{Type: provision.EventPhaseStarted, Phase: "infrastructure"})
	if !m.Phases[0].Active {
		t.Error("expected infrastructure to be active")
	}

	m.updatePhase(provision.Event{Type: provision.EventPhaseCompleted, Phase: "infrastructure"})
	if !m.Phases[0].Done {
		t.Error("expected infrastructure to be done")
	}
	if m.Phases[0].Active {
		t.Error("expected infrastructure to not be active after done")
	}

	m.updatePhase(provision.Event{Type: provision.EventPhaseStarted, Phase: "compute"})
	if !m.Phases[1].Active {
		t.Error("expected compute to be active")
	}
}

func TestModelUpdatePhase_LaterPhaseCompletesEarlier(t *testing.T) {
	m := NewClusterUpModel("test", "nbg1")

	m.updatePhase(provision.Event{Type: provision.EventPhaseStarted, Phase: "verify"})

	for i := 0; i < 3; i++ {
		if !m.Phases[i].Done {
			t.Errorf("expected phase %s to be done", m.Phases[i].Key)
		}
	}
	if !m.Phases[3].Active {
		t.Error("expected verify to be active")
	}
}

func TestModelUpdatePhase_Failed(t *testing.T) {
	m := NewClusterUpModel("test", "nbg1")

	m.updatePhase(provision.Event{Type: provision.EventPhaseFailed, Phase: "compute", Message: "server create failed"})
	if m.Phases[1].Err == nil {
		t.Fatal("expected compute phase error")
	}
	if m.Phases[1].Err.Error() != "server create failed" {
		t.Errorf("unexpected error message: %v", m.Phases[1].Err)
	}
}

func TestApplyEvent_ActivityTail(t *testing.T) {
	m := NewClusterUpModel("test", "nbg1")

	for i := 0; i < activityTail+3; i++ {
		m.applyEvent(provision.Event{
			Type:     provision.EventResourceCreated,
			Phase:    "compute",
			Resource: "server",
			Message:  "created",
		})
	}

	if len(m.Activity) != activityTail {
		t.Errorf("expected activity capped at %d, got %d", activityTail, len(m.Activity))
	}
}

func TestRenderView_Header(t *testing.T) {
	m := NewClusterUpModel("my-cluster", "nbg1")
	m.StartTime = time.Now()

	output := renderView(m)

	if !strings.Contains(output, "my-cluster") {
		t.Error("expected cluster name in output")
	}
	if !strings.Contains(output, "nbg1") {
		t.Error("expected region in output")
	}
}

func TestRenderView_Phases(t *testing.T) {
	m := NewClusterUpModel("test", "nbg1")
	m.StartTime = time.Now()
	m.Phases[0].Done = true
	m.Phases[1].Active = true
	m.Counts["compute"] = PhaseCount{Current: 2, Total: 3}

	output := renderView(m)

	if !strings.Contains(output, "Infrastructure") {
		t.Error("expected Infrastructure in output")
	}
	if !strings.Contains(output, "Nodes") {
		t.Error("expected Nodes in output")
	}
	if !strings.Contains(output, "2/3") {
		t.Error("expected node count in output")
	}
}

func TestRenderView_Activity(t *testing.T) {
	m := NewClusterUpModel("test", "nbg1")
	m.StartTime = time.Now()
	m.applyEvent(provision.Event{
		Type:     provision.EventResourceCreated,
		Phase:    "infrastructure",
		Resource: "test-net",
		Message:  "network ready",
	})

	output := renderView(m)

	if !strings.Contains(output, "test-net") {
		t.Error("expected resource name in output")
	}
	if !strings.Contains(output, "network ready") {
		t.Error("expected event message in output")
	}
}

func TestRenderView_ProgressBar(t *testing.T) {
	m := NewClusterUpModel("test", "nbg1")
	m.StartTime = time.Now()
	m.Phases[0].Done = true

	output := renderView(m)

	if !strings.Contains(output, "░") && !strings.Contains(output, "█") {
		t.Error("expected progress bar in output")
	}
}

func TestEventIcon(t *testing.T) {
	tests := []struct {
		typ  provision.EventType
		icon string
	}{
		{provision.EventResourceCreated, checkMark},
		{provision.EventResourceExists, checkMark},
		{provision.EventResourceCreating, spinnerFrames[0]},
	}
	for _, tt := range tests {
		icon, _ := eventIcon(tt.typ, 0)
		if icon != tt.icon {
			t.Errorf("eventIcon(%v) = %q, want %q", tt.typ, icon, tt.icon)
		}
	}
}
