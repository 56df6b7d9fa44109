// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic
// and can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/mattn/go-isatty"
	corev1 "k8s.io/api/core/v1"

	"github.com/imamik/slipway/internal/cluster"
	"github.com/imamik/slipway/internal/config"
	"github.com/imamik/slipway/internal/helm"
	"github.com/imamik/slipway/internal/kube"
	"github.com/imamik/slipway/internal/platform/hcloud"
	"github.com/imamik/slipway/internal/platform/s3"
	"github.com/imamik/slipway/internal/provision"
	"github.com/imamik/slipway/internal/release"
	"github.com/imamik/slipway/internal/tag"
	"github.com/imamik/slipway/internal/teardown"
	"github.com/imamik/slipway/internal/ui/tui"
)

// ClusterLifecycle interface for testing - matches cluster.Manager.
type ClusterLifecycle interface {
	Up(ctx context.Context, settings config.Settings) (*cluster.UpResult, error)
	Down(ctx context.Context, settings config.Settings) error
}

// ReleaseLifecycle interface for testing - matches release.Manager.
type ReleaseLifecycle interface {
	Up(ctx context.Context, settings config.Settings, tag string) (*release.UpReport, error)
	Down(ctx context.Context, settings config.Settings) []teardown.StepResult
	Rollback(ctx context.Context, settings config.Settings) (*release.RollbackReport, error)
	Status(ctx context.Context, settings config.Settings) (*release.Report, error)
}

// KubeControl interface for testing - the kube.Client methods the
// observability handlers use.
type KubeControl interface {
	ListPods(ctx context.Context, namespace string) ([]kube.PodInfo, error)
	FindPod(ctx context.Context, namespace, selector string) (*corev1.Pod, error)
	FollowLogs(ctx context.Context, namespace, selector string, out io.Writer) error
	PortForward(ctx context.Context, opts kube.PortForwardOptions) (*kube.PortForwardResult, error)
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// resolveSettings loads and validates the configuration.
	resolveSettings = config.Resolve

	// newProvisioner builds the cloud provisioner over a state store.
	newProvisioner = func(settings config.Settings, token string, obs provision.Observer, log logr.Logger) (provision.Provisioner, error) {
		store, err := newStateStore(settings, log)
		if err != nil {
			return nil, err
		}
		infra := hcloud.NewRealClient(token, hcloud.WithLogger(log))
		return provision.NewHCloudProvisioner(infra, store,
			provision.WithObserver(obs),
			provision.WithLogger(log),
		), nil
	}

	// newClusterManager builds the cluster lifecycle manager.
	newClusterManager = func(p provision.Provisioner, obs provision.Observer, log logr.Logger) ClusterLifecycle {
		return cluster.NewManager(p,
			cluster.WithObserver(obs),
			cluster.WithLogger(log),
		)
	}

	// newReleaseManager builds the app release manager from the cluster
	// kubeconfig.
	newReleaseManager = func(settings config.Settings, log logr.Logger) (ReleaseLifecycle, error) {
		helmClient, err := helm.NewClient(settings.Kubeconfig, settings.Namespace, helm.WithLogger(log))
		if err != nil {
			return nil, err
		}
		kubeClient, err := kube.NewClient(settings.Kubeconfig, kube.WithLogger(log))
		if err != nil {
			return nil, err
		}
		return release.NewManager(helmClient, kubeClient, release.WithLogger(log)), nil
	}

	// newKubeControl builds the kubernetes control client.
	newKubeControl = func(settings config.Settings, log logr.Logger) (KubeControl, error) {
		return kube.NewClient(settings.Kubeconfig, kube.WithLogger(log))
	}

	// newSequencer builds the teardown sequencer.
	newSequencer = func(releaseMgr teardown.ReleaseManager, clusterMgr teardown.ClusterManager, log logr.Logger) *teardown.Sequencer {
		return teardown.NewSequencer(releaseMgr, clusterMgr, teardown.WithLogger(log))
	}

	// resolveTag determines the image tag for a deploy.
	resolveTag = func(ctx context.Context, override string) (string, error) {
		return tag.Resolver{}.Resolve(ctx, override)
	}

	// runTUI drives the interactive cluster-up display.
	runTUI = tui.Run

	// stdoutIsTerminal reports whether stdout is attached to a terminal.
	stdoutIsTerminal = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}
)

// hcloudToken reads the Hetzner Cloud API token from the environment.
func hcloudToken() (string, error) {
	token := os.Getenv("HCLOUD_TOKEN")
	if token == "" {
		return "", errors.New("HCLOUD_TOKEN environment variable is not set")
	}
	return token, nil
}

// newStateStore builds the provisioner state store, wiring the Object
// Storage mirror when a state bucket is configured.
func newStateStore(settings config.Settings, log logr.Logger) (*provision.Store, error) {
	var remote provision.RemoteStore
	if settings.HasRemoteState() {
		endpoint := settings.StateEndpoint
		if endpoint == "" {
			endpoint = settings.Region.ObjectStorageEndpoint()
		}
		client, err := s3.NewClient(endpoint, string(settings.Region),
			os.Getenv("HETZNER_S3_ACCESS_KEY"), os.Getenv("HETZNER_S3_SECRET_KEY"))
		if err != nil {
			return nil, fmt.Errorf("object storage client for state bucket %q: %w", settings.StateBucket, err)
		}
		remote = client
	}
	return provision.NewStore(settings.StateDir, remote, settings.StateBucket, log), nil
}

// requireKubeconfig verifies the cluster credentials exist before an
// app operation.
func requireKubeconfig(settings config.Settings) error {
	if fileExists(settings.Kubeconfig) {
		return nil
	}
	return fmt.Errorf("kubeconfig not found at %s - run 'slipway cluster-up' first", settings.Kubeconfig)
}

// releaseSelector returns the label selector for the release's pods.
// The app chart labels pods with the standard instance label.
func releaseSelector(releaseName string) string {
	return "app.kubernetes.io/instance=" + releaseName
}

// printDiagnostics writes a deploy failure's pod and event snapshot to
// stderr, when one was captured.
func printDiagnostics(err error) {
	var deployErr *release.DeployError
	if errors.As(err, &deployErr) {
		if diag := deployErr.Diagnostics(); diag != "" {
			fmt.Fprintln(os.Stderr, diag)
		}
	}
}

// printSteps reports per-step teardown outcomes.
func printSteps(steps []teardown.StepResult) {
	for _, step := range steps {
		if step.OK() {
			fmt.Printf("  [OK] %s\n", step.Name)
			continue
		}
		fmt.Printf("  [!!] %s: %v (ignored)\n", step.Name, step.Err)
	}
}
