package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/slipway/internal/provision"
)

// programObserver forwards provisioning progress into a running Bubble
// Tea program. Send is safe from the provisioning goroutine.
type programObserver struct {
	p *tea.Program
}

var _ provision.Observer = (*programObserver)(nil)

func (o *programObserver) Event(e provision.Event) {
	o.p.Send(EventMsg{Event: e})
}

func (o *programObserver) Progress(phase string, current, total int) {
	o.p.Send(ProgressMsg{Phase: phase, Current: current, Total: total})
}

// Run wraps a provisioning flow with the cluster-up dashboard. fn runs
// in the background and reports through the observer it is handed;
// the dashboard stays up until fn returns or the user quits.
func Run(ctx context.Context, clusterName, region string, fn func(provision.Observer) error) error {
	m := NewClusterUpModel(clusterName, region)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	go func() {
		if err := fn(&programObserver{p: p}); err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(DoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("TUI error: %w", err)
	}

	fm := finalModel.(Model)
	if fm.Err != nil {
		return fm.Err
	}
	return nil
}
