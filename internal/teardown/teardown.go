// Package teardown sequences full-cluster teardown. The app release is
// always dismantled before the infrastructure underneath it, and
// release-level failures never block the infrastructure teardown.
package teardown

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/imamik/slipway/internal/config"
)

// StepResult records the outcome of one teardown step.
type StepResult struct {
	Name string
	Err  error

	// Tolerated marks a step whose failure does not abort the
	// teardown, like uninstalling from a cluster that is already
	// unreachable.
	Tolerated bool
}

// OK reports whether the step succeeded.
func (r StepResult) OK() bool { return r.Err == nil }

// ReleaseManager removes the deployed app. Every step is attempted and
// reported; failures are carried in the results, not returned.
type ReleaseManager interface {
	Down(ctx context.Context, settings config.Settings) []StepResult
}

// ClusterManager destroys the cluster infrastructure.
type ClusterManager interface {
	Down(ctx context.Context, settings config.Settings) error
}

// Sequencer runs teardown in the only safe order.
type Sequencer struct {
	release ReleaseManager
	cluster ClusterManager
	log     logr.Logger
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithLogger sets the sequencer's logger.
func WithLogger(log logr.Logger) Option {
	return func(s *Sequencer) {
		s.log = log
	}
}

// NewSequencer builds a sequencer over the two managers.
func NewSequencer(release ReleaseManager, cluster ClusterManager, opts ...Option) *Sequencer {
	s := &Sequencer{
		release: release,
		cluster: cluster,
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ClusterDown removes the release first, then the infrastructure.
// Release step failures are logged and tolerated; a cluster destroy
// failure is fatal. The release steps are returned either way so the
// caller can report them.
func (s *Sequencer) ClusterDown(ctx context.Context, settings config.Settings) ([]StepResult, error) {
	steps := s.release.Down(ctx, settings)
	for _, step := range steps {
		if step.Err != nil {
			s.log.Info("release teardown step failed, continuing",
				"step", step.Name, "error", step.Err.Error())
		}
	}

	if err := s.cluster.Down(ctx, settings); err != nil {
		return steps, err
	}
	return steps, nil
}
