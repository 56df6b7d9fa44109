package handlers

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/slipway/internal/config"
	"github.com/imamik/slipway/internal/release"
)

// Deploy installs or upgrades the app's Helm release with the resolved
// image tag and waits for the rollout.
//
// The tag defaults to the short git commit hash of the working tree. A
// rollout that misses its timeout fails with a pod and event snapshot
// on stderr; the previous revision stays live.
func Deploy(ctx context.Context, configPath string, ov config.Overrides) error {
	settings, err := resolveSettings(configPath, ov)
	if err != nil {
		return err
	}
	if err := requireKubeconfig(settings); err != nil {
		return err
	}

	imageTag, err := resolveTag(ctx, settings.Tag)
	if err != nil {
		return err
	}

	log := logr.FromContextOrDiscard(ctx)
	mgr, err := newReleaseManager(settings, log)
	if err != nil {
		return err
	}

	fmt.Printf("Deploying %s:%s to %s/%s...\n",
		settings.ImageRepository, imageTag, settings.Namespace, settings.Release)

	report, err := mgr.Up(ctx, settings, imageTag)
	if err != nil {
		printDiagnostics(err)
		return err
	}

	printDeploySuccess(report)
	return nil
}

// printDeploySuccess reports the new revision.
func printDeploySuccess(report *release.UpReport) {
	fmt.Printf("\nDeployed %s revision %d\n", report.Release, report.Revision)
	fmt.Printf("  Namespace: %s\n", report.Namespace)
	fmt.Printf("  Tag:       %s\n", report.Tag)
	fmt.Println()
	fmt.Println("Check the rollout with 'slipway status'.")
}
