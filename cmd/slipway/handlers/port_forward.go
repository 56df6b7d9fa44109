package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/slipway/internal/config"
	"github.com/imamik/slipway/internal/kube"
)

// reconnectDelay is the pause before re-establishing a dropped tunnel.
// Variable so tests can shorten it.
var reconnectDelay = 2 * time.Second

// PortForward tunnels a local port to one of the release's pods and
// keeps the tunnel alive until the context is canceled. A dropped
// connection is re-established against a live pod on the same local
// port.
func PortForward(ctx context.Context, configPath string, ov config.Overrides) error {
	settings, err := resolveSettings(configPath, ov)
	if err != nil {
		return err
	}
	if err := requireKubeconfig(settings); err != nil {
		return err
	}

	log := logr.FromContextOrDiscard(ctx)
	ctl, err := newKubeControl(settings, log)
	if err != nil {
		return err
	}

	localPort := settings.LocalPort
	for {
		pod, err := ctl.FindPod(ctx, settings.Namespace, releaseSelector(settings.Release))
		if err != nil {
			return err
		}

		result, err := ctl.PortForward(ctx, kube.PortForwardOptions{
			Namespace:  settings.Namespace,
			Pod:        pod.Name,
			LocalPort:  localPort,
			RemotePort: settings.RemotePort,
		})
		if err != nil {
			return err
		}
		// Reconnects keep the port the first tunnel got.
		localPort = result.LocalPort

		fmt.Printf("Forwarding localhost:%d -> %s:%d  (Ctrl+C to stop)\n",
			result.LocalPort, pod.Name, settings.RemotePort)

		select {
		case <-ctx.Done():
			result.Stop()
			return nil
		case tunnelErr := <-result.ErrCh:
			result.Stop()
			if ctx.Err() != nil {
				return nil
			}
			if tunnelErr != nil {
				log.Info("tunnel dropped, reconnecting", "error", tunnelErr.Error())
			} else {
				log.Info("tunnel closed, reconnecting")
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(reconnectDelay):
			}
		}
	}
}
