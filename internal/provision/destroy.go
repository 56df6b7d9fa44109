package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/slipway/internal/util/labels"
)

// Destroy deletes every cloud resource carrying the cluster's label and
// clears the working state. Absent resources are tolerated, so a
// destroy can be re-run after a partial failure.
func (p *HCloudProvisioner) Destroy(ctx context.Context, plan Plan) error {
	if plan.ClusterName == "" {
		return &ProvisionError{Op: "destroy", Step: "plan", Err: errors.New("cluster name required")}
	}

	st, err := p.store.Load(ctx)
	if err != nil {
		return &ProvisionError{Op: "destroy", Step: "load state", Err: err}
	}
	if st.Cluster != "" && st.Cluster != plan.ClusterName {
		return &ProvisionError{Op: "destroy", Step: "load state",
			Err: fmt.Errorf("state belongs to cluster %q", st.Cluster)}
	}

	st.Cluster = plan.ClusterName
	st.Phase = PhaseDestroying
	if err := p.store.Save(ctx, st); err != nil {
		p.log.Error(err, "save destroying state")
	}

	p.event(EventPhaseStarted, phaseDestroy, "", "deleting cluster resources")
	if err := p.infra.CleanupByLabel(ctx, labels.ClusterOnly(plan.ClusterName)); err != nil {
		st.Phase = PhasePartialFailed
		if saveErr := p.store.Save(ctx, st); saveErr != nil {
			p.log.Error(saveErr, "save partial-failed state")
		}
		p.event(EventPhaseFailed, phaseDestroy, "", "resource cleanup failed")
		return &ProvisionError{Op: "destroy", Step: "cleanup resources", Err: err}
	}
	p.event(EventResourceDeleted, phaseDestroy, plan.ClusterName, "cluster resources deleted")

	if err := p.store.Clear(ctx); err != nil {
		return &ProvisionError{Op: "destroy", Step: "clear state", Err: err}
	}
	p.event(EventPhaseCompleted, phaseDestroy, "", "cluster destroyed")
	return nil
}
