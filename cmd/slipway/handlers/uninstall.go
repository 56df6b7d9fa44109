package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/slipway/internal/config"
)

// Uninstall removes the app's Helm release and namespace, leaving the
// cluster running. Per-step outcomes are printed; steps that fail
// because the resource is already gone do not fail the command.
func Uninstall(ctx context.Context, configPath string, ov config.Overrides) error {
	settings, err := resolveSettings(configPath, ov)
	if err != nil {
		return err
	}
	if err := requireKubeconfig(settings); err != nil {
		return err
	}

	mgr, err := newReleaseManager(settings, logr.FromContextOrDiscard(ctx))
	if err != nil {
		return err
	}

	fmt.Printf("Removing %s from namespace %s...\n", settings.Release, settings.Namespace)

	steps := mgr.Down(ctx, settings)
	printSteps(steps)

	for _, step := range steps {
		if step.Err != nil {
			return errors.New("uninstall finished with errors")
		}
	}

	fmt.Println("\nApp removed. The cluster is still running.")
	return nil
}
