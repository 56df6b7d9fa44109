// Package release manages the app's lifecycle inside the cluster:
// deploy through helm, wait for the rollout, tear down, roll back, and
// report status. Helm owns the revision bookkeeping; this package owns
// the policy around it.
package release

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	helmrelease "helm.sh/helm/v3/pkg/release"

	"github.com/imamik/slipway/internal/config"
	"github.com/imamik/slipway/internal/helm"
	"github.com/imamik/slipway/internal/kube"
	"github.com/imamik/slipway/internal/teardown"
)

const (
	defaultRolloutTimeout = 5 * time.Minute
	eventTailLimit        = 30
)

// HelmClient is the slice of the helm driver this package needs.
// Implemented by helm.Client.
type HelmClient interface {
	InstallOrUpgrade(ctx context.Context, releaseName, chartPath string, values map[string]interface{}) (*helmrelease.Release, error)
	Uninstall(releaseName string) (bool, error)
	Rollback(releaseName string, revision int) error
	History(releaseName string) ([]helm.Revision, error)
	Status(releaseName string) (*helm.ReleaseStatus, error)
}

// KubeClient is the slice of the cluster control client this package
// needs. Implemented by kube.Client.
type KubeClient interface {
	EnsureNamespace(ctx context.Context, name string) error
	DeleteNamespace(ctx context.Context, name string) (bool, error)
	WaitForDeployment(ctx context.Context, namespace, name string, timeout time.Duration) error
	DeploymentReady(ctx context.Context, namespace, name string) (ready bool, available, desired int32, err error)
	ListPods(ctx context.Context, namespace string) ([]kube.PodInfo, error)
	RecentEvents(ctx context.Context, namespace string, limit int) ([]string, error)
}

// Manager drives the release lifecycle.
type Manager struct {
	helm HelmClient
	kube KubeClient
	log  logr.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(log logr.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// NewManager builds a manager over the helm driver and cluster client.
func NewManager(helmClient HelmClient, kubeClient KubeClient, opts ...Option) *Manager {
	m := &Manager{
		helm: helmClient,
		kube: kubeClient,
		log:  logr.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// UpReport describes a completed deploy.
type UpReport struct {
	Release   string
	Namespace string
	Revision  int
	Tag       string
}

// Up deploys the given image tag: ensure the namespace, install or
// upgrade the release, and wait for the Deployment to roll out. A
// rollout that misses the timeout comes back as a DeployError carrying
// a pod snapshot and the namespace's recent events.
func (m *Manager) Up(ctx context.Context, settings config.Settings, tag string) (*UpReport, error) {
	if err := m.kube.EnsureNamespace(ctx, settings.Namespace); err != nil {
		return nil, err
	}

	values := map[string]interface{}{
		"image": map[string]interface{}{
			"repository": settings.ImageRepository,
			"tag":        tag,
		},
	}
	rel, err := m.helm.InstallOrUpgrade(ctx, settings.Release, settings.Chart, values)
	if err != nil {
		return nil, err
	}
	m.log.Info("release applied", "release", settings.Release, "revision", rel.Version, "tag", tag)

	timeout := settings.RolloutTimeout.Duration
	if timeout <= 0 {
		timeout = defaultRolloutTimeout
	}
	if err := m.kube.WaitForDeployment(ctx, settings.Namespace, settings.Release, timeout); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", ErrRolloutTimeout, err)
		}
		return nil, m.deployError(ctx, settings, rel.Version, err)
	}

	return &UpReport{
		Release:   settings.Release,
		Namespace: settings.Namespace,
		Revision:  rel.Version,
		Tag:       tag,
	}, nil
}

// deployError decorates a rollout failure with whatever diagnostics the
// cluster will still give us.
func (m *Manager) deployError(ctx context.Context, settings config.Settings, revision int, cause error) error {
	deployErr := &DeployError{
		Release:   settings.Release,
		Namespace: settings.Namespace,
		Revision:  revision,
		Err:       cause,
	}

	pods, err := m.kube.ListPods(ctx, settings.Namespace)
	if err != nil {
		m.log.V(1).Info("could not snapshot pods for diagnostics", "error", err.Error())
	} else {
		deployErr.Pods = pods
	}

	events, err := m.kube.RecentEvents(ctx, settings.Namespace, eventTailLimit)
	if err != nil {
		m.log.V(1).Info("could not fetch events for diagnostics", "error", err.Error())
	} else {
		deployErr.Events = events
	}

	return deployErr
}

// Down removes the release and its namespace. Both steps are always
// attempted and both tolerate an app that was never installed; the
// per-step outcomes are returned for reporting.
func (m *Manager) Down(ctx context.Context, settings config.Settings) []teardown.StepResult {
	steps := make([]teardown.StepResult, 0, 2)

	removed, err := m.helm.Uninstall(settings.Release)
	if err == nil && !removed {
		m.log.Info("release not installed, nothing to uninstall", "release", settings.Release)
	}
	steps = append(steps, teardown.StepResult{Name: "helm uninstall", Err: err, Tolerated: true})

	deleted, err := m.kube.DeleteNamespace(ctx, settings.Namespace)
	if err == nil && !deleted {
		m.log.Info("namespace already absent", "namespace", settings.Namespace)
	}
	steps = append(steps, teardown.StepResult{Name: "delete namespace", Err: err, Tolerated: true})

	return steps
}
