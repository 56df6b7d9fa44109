package handlers

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/slipway/internal/config"
)

// Rollback reverts the release to the revision deployed before the
// current one and waits for the rollout.
func Rollback(ctx context.Context, configPath string, ov config.Overrides) error {
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

	report, err := mgr.Rollback(ctx, settings)
	if err != nil {
		printDiagnostics(err)
		return err
	}

	fmt.Printf("Rolled back %s: revision %d -> %d\n", report.Release, report.From, report.To)
	fmt.Println("Check the rollout with 'slipway status'.")
	return nil
}
