package release

import (
	"context"

	"github.com/imamik/slipway/internal/config"
	"github.com/imamik/slipway/internal/helm"
)

// RolloutState classifies where the release's deployment stands.
type RolloutState string

const (
	// RolloutReady means all replicas are updated and available.
	RolloutReady RolloutState = "Ready"
	// RolloutProgressing means replicas are still coming up.
	RolloutProgressing RolloutState = "Progressing"
	// RolloutFailed means at least one pod is stuck in a failing state.
	RolloutFailed RolloutState = "Failed"
)

// failingPodReasons are the container waiting reasons that mark a
// rollout as failed rather than merely in progress.
var failingPodReasons = map[string]bool{
	"CrashLoopBackOff":           true,
	"ImagePullBackOff":           true,
	"ErrImagePull":               true,
	"InvalidImageName":           true,
	"CreateContainerConfigError": true,
	"CreateContainerError":       true,
	"RunContainerError":          true,
}

// Report combines the helm release record with the observed rollout
// state of its deployment.
type Report struct {
	Release   *helm.ReleaseStatus
	State     RolloutState
	Available int32
	Desired   int32

	// Reason names the failing pod and its state when State is
	// RolloutFailed.
	Reason string
}

// Status reports the release's current revision and whether its
// deployment has rolled out. The deployment is expected to carry the
// release's name, the convention the app chart follows.
func (m *Manager) Status(ctx context.Context, settings config.Settings) (*Report, error) {
	rel, err := m.helm.Status(settings.Release)
	if err != nil {
		return nil, err
	}

	report := &Report{Release: rel}
	ready, available, desired, err := m.kube.DeploymentReady(ctx, settings.Namespace, settings.Release)
	if err != nil {
		return nil, err
	}
	report.Available = available
	report.Desired = desired

	if ready {
		report.State = RolloutReady
		return report, nil
	}

	report.State = RolloutProgressing
	pods, err := m.kube.ListPods(ctx, settings.Namespace)
	if err != nil {
		m.log.V(1).Info("could not inspect pods for rollout state", "error", err.Error())
		return report, nil
	}
	for _, pod := range pods {
		if failingPodReasons[pod.Status] {
			report.State = RolloutFailed
			report.Reason = pod.Name + ": " + pod.Status
			break
		}
	}
	return report, nil
}
