package release

import (
	"context"
	"fmt"

	"github.com/imamik/slipway/internal/config"
	"github.com/imamik/slipway/internal/helm"
)

// RollbackReport records which revisions a rollback moved between.
type RollbackReport struct {
	Release  string
	From, To int
}

// Rollback reverts the release to the revision deployed before the
// current one. A release without an earlier successful revision fails
// with a DeployError wrapping ErrNoPriorRevision.
func (m *Manager) Rollback(ctx context.Context, settings config.Settings) (*RollbackReport, error) {
	revisions, err := m.helm.History(settings.Release)
	if err != nil {
		if helm.IsNotFound(err) {
			return nil, &DeployError{
				Release:   settings.Release,
				Namespace: settings.Namespace,
				Err:       fmt.Errorf("release not installed: %w", ErrNoPriorRevision),
			}
		}
		return nil, err
	}

	current, target, err := previousRevision(revisions)
	if err != nil {
		return nil, &DeployError{
			Release:   settings.Release,
			Namespace: settings.Namespace,
			Revision:  current,
			Err:       err,
		}
	}

	if err := m.helm.Rollback(settings.Release, target); err != nil {
		return nil, &DeployError{
			Release:   settings.Release,
			Namespace: settings.Namespace,
			Revision:  current,
			Err:       err,
		}
	}

	m.log.Info("release rolled back", "release", settings.Release, "from", current, "to", target)
	return &RollbackReport{Release: settings.Release, From: current, To: target}, nil
}

// previousRevision picks the rollback target: the highest deployed or
// superseded revision below the current one. The current revision is
// the highest deployed one, or simply the highest when helm marks none
// as deployed.
func previousRevision(revisions []helm.Revision) (current, target int, err error) {
	for _, rev := range revisions {
		if rev.Status == helm.StatusDeployed && rev.Revision > current {
			current = rev.Revision
		}
	}
	if current == 0 {
		for _, rev := range revisions {
			if rev.Revision > current {
				current = rev.Revision
			}
		}
	}
	if current == 0 {
		return 0, 0, ErrNoPriorRevision
	}

	for _, rev := range revisions {
		if rev.Revision >= current {
			continue
		}
		switch rev.Status {
		case helm.StatusDeployed, helm.StatusSuperseded:
			if rev.Revision > target {
				target = rev.Revision
			}
		}
	}
	if target == 0 {
		return current, 0, ErrNoPriorRevision
	}
	return current, target, nil
}
