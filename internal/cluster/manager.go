// Package cluster coordinates the cluster lifecycle: converge the
// infrastructure, write the admin kubeconfig, and wait until the
// desired node count reports Ready. Teardown is delegated back to the
// provisioner; the teardown sequencer guarantees the release is gone
// before this package runs a Down.
package cluster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/slipway/internal/config"
	"github.com/imamik/slipway/internal/kube"
	"github.com/imamik/slipway/internal/provision"
)

const defaultReadyTimeout = 10 * time.Minute

// phaseVerify is the lifecycle phase after provisioning, waiting for
// nodes to report Ready. The provisioner emits its own phases.
const phaseVerify = "verify"

// NodeWaiter blocks until the cluster has the wanted number of ready
// nodes. Implemented by kube.Client.
type NodeWaiter interface {
	WaitForNodesReady(ctx context.Context, want int, timeout time.Duration) error
}

// KubeFactory builds a control client for a freshly written kubeconfig.
type KubeFactory func(kubeconfigPath string) (NodeWaiter, error)

// UpResult reports where the new cluster can be reached.
type UpResult struct {
	ServerIP       string
	KubeconfigPath string
}

// Manager drives cluster up and down.
type Manager struct {
	provisioner  provision.Provisioner
	kubeFactory  KubeFactory
	readyTimeout time.Duration
	observer     provision.Observer
	log          logr.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithKubeFactory substitutes the control client construction, used by
// tests.
func WithKubeFactory(f KubeFactory) Option {
	return func(m *Manager) {
		m.kubeFactory = f
	}
}

// WithReadyTimeout bounds the node readiness wait.
func WithReadyTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.readyTimeout = d
	}
}

// WithObserver routes the manager's own lifecycle events to obs. Wire
// the same observer into the provisioner for the full picture.
func WithObserver(obs provision.Observer) Option {
	return func(m *Manager) {
		m.observer = obs
	}
}

// WithLogger sets the manager's logger.
func WithLogger(log logr.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// NewManager builds a manager over the given provisioner.
func NewManager(provisioner provision.Provisioner, opts ...Option) *Manager {
	m := &Manager{
		provisioner:  provisioner,
		readyTimeout: defaultReadyTimeout,
		observer:     provision.NopObserver{},
		log:          logr.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.kubeFactory == nil {
		m.kubeFactory = func(kubeconfigPath string) (NodeWaiter, error) {
			return kube.NewClient(kubeconfigPath)
		}
	}
	return m
}

func (m *Manager) event(t provision.EventType, message string) {
	m.observer.Event(provision.Event{
		Type:      t,
		Phase:     phaseVerify,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// PlanFor maps the resolved settings onto a provisioning plan.
func PlanFor(settings config.Settings) provision.Plan {
	return provision.Plan{
		ClusterName: settings.ClusterName,
		Location:    string(settings.Region),
		ServerType:  string(settings.ServerType.Normalize()),
		Nodes:       settings.Nodes,
	}
}

// Up converges the infrastructure, writes the kubeconfig, and waits for
// all nodes to become ready. Re-running against a live cluster is a
// no-op converge plus a readiness check.
func (m *Manager) Up(ctx context.Context, settings config.Settings) (*UpResult, error) {
	result, err := m.provisioner.Converge(ctx, PlanFor(settings))
	if err != nil {
		return nil, err
	}

	if err := kube.WriteKubeconfig(settings.Kubeconfig, result.Kubeconfig); err != nil {
		return nil, err
	}
	m.log.Info("kubeconfig written", "path", settings.Kubeconfig)

	m.event(provision.EventPhaseStarted, fmt.Sprintf("waiting for %d node(s) to become ready", settings.Nodes))
	waiter, err := m.kubeFactory(settings.Kubeconfig)
	if err != nil {
		m.event(provision.EventPhaseFailed, "could not reach cluster")
		return nil, fmt.Errorf("build cluster client: %w", err)
	}
	if err := waiter.WaitForNodesReady(ctx, settings.Nodes, m.readyTimeout); err != nil {
		m.event(provision.EventPhaseFailed, "nodes not ready")
		return nil, fmt.Errorf("wait for nodes: %w", err)
	}
	m.event(provision.EventPhaseCompleted, "all nodes ready")
	m.log.Info("cluster ready", "nodes", settings.Nodes, "server", result.ServerIP)

	return &UpResult{
		ServerIP:       result.ServerIP,
		KubeconfigPath: settings.Kubeconfig,
	}, nil
}

// Down destroys the cluster's infrastructure and removes the local
// kubeconfig. Never call this while the release still matters; the
// teardown sequencer runs the release teardown first.
func (m *Manager) Down(ctx context.Context, settings config.Settings) error {
	if err := m.provisioner.Destroy(ctx, PlanFor(settings)); err != nil {
		return err
	}

	if err := os.Remove(settings.Kubeconfig); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove kubeconfig %s: %w", settings.Kubeconfig, err)
	}
	m.log.Info("cluster destroyed", "cluster", settings.ClusterName)
	return nil
}
