package handlers

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/slipway/internal/config"
	"github.com/imamik/slipway/internal/provision"
	"github.com/imamik/slipway/internal/teardown"
)

// ClusterDown uninstalls the app and deletes every cloud resource
// belonging to the cluster.
//
// App teardown failures are tolerated: once the infrastructure is
// gone the workloads are gone with it. An infrastructure deletion
// failure aborts, and re-running resumes from the saved state.
func ClusterDown(ctx context.Context, configPath string, ov config.Overrides) error {
	settings, err := resolveSettings(configPath, ov)
	if err != nil {
		return err
	}

	token, err := hcloudToken()
	if err != nil {
		return err
	}

	log := logr.FromContextOrDiscard(ctx)
	obs := provision.NewLogObserver(log)

	prov, err := newProvisioner(settings, token, obs, log)
	if err != nil {
		return err
	}
	clusterMgr := newClusterManager(prov, obs, log)

	var releaseMgr teardown.ReleaseManager
	if fileExists(settings.Kubeconfig) {
		mgr, err := newReleaseManager(settings, log)
		if err != nil {
			log.Info("release manager unavailable, skipping app teardown", "error", err.Error())
			releaseMgr = skippedRelease{reason: err}
		} else {
			releaseMgr = mgr
		}
	} else {
		releaseMgr = skippedRelease{reason: fmt.Errorf("kubeconfig not found at %s", settings.Kubeconfig)}
	}

	fmt.Printf("Destroying cluster %s...\n", settings.ClusterName)

	steps, err := newSequencer(releaseMgr, clusterMgr, log).ClusterDown(ctx, settings)
	printSteps(steps)
	if err != nil {
		return err
	}

	fmt.Printf("\nCluster %s destroyed.\n", settings.ClusterName)
	return nil
}

// skippedRelease stands in for the release manager when the cluster is
// unreachable. Deleting the infrastructure takes the workloads with it,
// so app teardown is reported as skipped rather than attempted.
type skippedRelease struct {
	reason error
}

func (s skippedRelease) Down(context.Context, config.Settings) []teardown.StepResult {
	return []teardown.StepResult{{
		Name:      "app teardown",
		Err:       fmt.Errorf("skipped: %w", s.reason),
		Tolerated: true,
	}}
}
