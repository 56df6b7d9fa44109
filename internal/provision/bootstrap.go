package provision

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/imamik/slipway/internal/kube"
	"github.com/imamik/slipway/internal/platform/ssh"
	"github.com/imamik/slipway/internal/util/retry"
)

// CommandRunner executes commands on a cluster node.
type CommandRunner interface {
	Execute(ctx context.Context, command string) (string, error)
	Output(ctx context.Context, command string) (string, error)
}

// NodeDialer opens a connection to a node. Swapped out in tests.
type NodeDialer func(host string, privateKey []byte) (CommandRunner, error)

func sshDialer(host string, privateKey []byte) (CommandRunner, error) {
	return ssh.NewClient(ssh.Config{
		Host:       host,
		User:       "root",
		PrivateKey: privateKey,
	})
}

const kubeconfigRemotePath = "/etc/rancher/k3s/k3s.yaml"

// fetchKubeconfig pulls the admin kubeconfig off the server node once
// k3s has written it, then points it at the node's public address. The
// SSH dial retries on its own while cloud-init brings sshd up; the
// retry here covers the window between sshd and k3s writing the file.
func (p *HCloudProvisioner) fetchKubeconfig(ctx context.Context, serverIP string, privateKey []byte) ([]byte, error) {
	runner, err := p.dial(serverIP, privateKey)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", serverIP, err)
	}

	var raw string
	err = retry.Do(ctx, func() error {
		out, err := runner.Output(ctx, "cat "+kubeconfigRemotePath)
		if err != nil {
			return err
		}
		raw = out
		return nil
	}, p.retryOpts...)
	if err != nil {
		return nil, fmt.Errorf("fetch kubeconfig from %s: %w", serverIP, err)
	}

	server := "https://" + net.JoinHostPort(serverIP, "6443")
	rewritten, err := kube.RewriteServer([]byte(raw), server)
	if err != nil {
		return nil, fmt.Errorf("rewrite kubeconfig server: %w", err)
	}
	return rewritten, nil
}

func defaultRetryOpts() []retry.Option {
	return []retry.Option{
		retry.Attempts(60),
		retry.Delay(5 * time.Second),
		retry.Multiplier(1),
	}
}
