package handlers

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/slipway/internal/cluster"
	"github.com/imamik/slipway/internal/config"
	"github.com/imamik/slipway/internal/provision"
)

// ClusterUp converges the cluster toward the configured size and waits
// until every node is ready.
//
// On a terminal the provisioning progress is shown in the interactive
// display; otherwise events go to the structured log. Re-running
// against a live cluster converges without touching healthy resources.
func ClusterUp(ctx context.Context, configPath string, ov config.Overrides) error {
	settings, err := resolveSettings(configPath, ov)
	if err != nil {
		return err
	}

	token, err := hcloudToken()
	if err != nil {
		return err
	}

	log := logr.FromContextOrDiscard(ctx)
	log.V(1).Info("cluster up", "cluster", settings.ClusterName, "nodes", settings.Nodes)

	up := func(obs provision.Observer) (*cluster.UpResult, error) {
		prov, err := newProvisioner(settings, token, obs, log)
		if err != nil {
			return nil, err
		}
		return newClusterManager(prov, obs, log).Up(ctx, settings)
	}

	var result *cluster.UpResult
	if stdoutIsTerminal() {
		err = runTUI(ctx, settings.ClusterName, string(settings.Region), func(obs provision.Observer) error {
			r, upErr := up(obs)
			if upErr != nil {
				return upErr
			}
			result = r
			return nil
		})
	} else {
		result, err = up(provision.NewLogObserver(log))
	}
	if err != nil {
		return err
	}

	printClusterUpSuccess(result, settings)
	return nil
}

// printClusterUpSuccess outputs connection details and next steps.
func printClusterUpSuccess(result *cluster.UpResult, settings config.Settings) {
	fmt.Printf("\nCluster %s is ready!\n", settings.ClusterName)
	fmt.Printf("  Server IP:  %s\n", result.ServerIP)
	fmt.Printf("  Kubeconfig: %s\n", result.KubeconfigPath)
	fmt.Println()
	fmt.Println("Inspect the cluster with:")
	fmt.Printf("  export KUBECONFIG=%s\n", result.KubeconfigPath)
	fmt.Println("  kubectl get nodes")
	fmt.Println()
	fmt.Println("Deploy your app with:")
	fmt.Println("  slipway deploy")
}
