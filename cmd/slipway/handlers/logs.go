package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-logr/logr"

	"github.com/imamik/slipway/internal/config"
)

// Logs streams logs from the release's pods to stdout until the
// context is canceled.
func Logs(ctx context.Context, configPath string, ov config.Overrides) error {
	settings, err := resolveSettings(configPath, ov)
	if err != nil {
		return err
	}
	if err := requireKubeconfig(settings); err != nil {
		return err
	}

	ctl, err := newKubeControl(settings, logr.FromContextOrDiscard(ctx))
	if err != nil {
		return err
	}

	fmt.Printf("Streaming logs for release %s (Ctrl+C to stop)...\n", settings.Release)

	err = ctl.FollowLogs(ctx, settings.Namespace, releaseSelector(settings.Release), os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
