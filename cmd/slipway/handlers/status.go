package handlers

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/slipway/internal/config"
	"github.com/imamik/slipway/internal/helm"
)

// Status reports the deployed release and its rollout state.
//
// A release that was never installed is not an error: the handler says
// so and suggests the deploy command.
func Status(ctx context.Context, configPath string, ov config.Overrides) error {
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

	report, err := mgr.Status(ctx, settings)
	if err != nil {
		if helm.IsNotFound(err) {
			fmt.Printf("Release %s is not installed in namespace %s.\n", settings.Release, settings.Namespace)
			fmt.Println("Run 'slipway deploy' to install it.")
			return nil
		}
		return err
	}

	fmt.Print(renderStatusReport(report))
	return nil
}
