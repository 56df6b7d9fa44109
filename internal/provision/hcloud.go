package provision

import (
	"context"
	"net"
	"time"

	"github.com/go-logr/logr"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	hcloud_internal "github.com/imamik/slipway/internal/platform/hcloud"
	"github.com/imamik/slipway/internal/util/labels"
	"github.com/imamik/slipway/internal/util/naming"
	"github.com/imamik/slipway/internal/util/retry"
)

const (
	networkCIDR = "10.0.0.0/16"
	subnetCIDR  = "10.0.1.0/24"
	networkZone = "eu-central"
)

const (
	phaseInfrastructure = "infrastructure"
	phaseCompute        = "compute"
	phaseBootstrap      = "bootstrap"
	phaseDestroy        = "destroy"
)

// HCloudProvisioner converges k3s clusters on Hetzner Cloud.
type HCloudProvisioner struct {
	infra     hcloud_internal.InfrastructureManager
	store     *Store
	dial      NodeDialer
	observer  Observer
	log       logr.Logger
	retryOpts []retry.Option
}

var _ Provisioner = (*HCloudProvisioner)(nil)

// Option configures an HCloudProvisioner.
type Option func(*HCloudProvisioner)

// WithObserver routes progress events to obs.
func WithObserver(obs Observer) Option {
	return func(p *HCloudProvisioner) {
		p.observer = obs
	}
}

// WithLogger sets the provisioner's logger.
func WithLogger(log logr.Logger) Option {
	return func(p *HCloudProvisioner) {
		p.log = log
	}
}

// WithDialer substitutes the node connection, used by tests.
func WithDialer(dial NodeDialer) Option {
	return func(p *HCloudProvisioner) {
		p.dial = dial
	}
}

// NewHCloudProvisioner builds a provisioner over the given
// infrastructure API and state store.
func NewHCloudProvisioner(infra hcloud_internal.InfrastructureManager, store *Store, opts ...Option) *HCloudProvisioner {
	p := &HCloudProvisioner{
		infra:     infra,
		store:     store,
		dial:      sshDialer,
		observer:  NopObserver{},
		log:       logr.Discard(),
		retryOpts: defaultRetryOpts(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *HCloudProvisioner) event(t EventType, phase, resource, message string) {
	p.observer.Event(Event{
		Type:      t,
		Phase:     phase,
		Resource:  resource,
		Message:   message,
		Timestamp: time.Now(),
	})
}

type serverSpec struct {
	name      string
	role      string
	userData  string
	networkID int64
}

// ensureServer returns the named server, creating it when absent.
func (p *HCloudProvisioner) ensureServer(ctx context.Context, plan Plan, spec serverSpec) (*hcloud.Server, error) {
	existing, err := p.infra.GetServerByName(ctx, spec.name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		p.event(EventResourceExists, phaseCompute, spec.name, "server exists")
		return existing, nil
	}

	p.event(EventResourceCreating, phaseCompute, spec.name, "creating server")
	server, err := p.infra.CreateServer(ctx, hcloud_internal.ServerCreateOpts{
		Name:       spec.name,
		Image:      plan.Image,
		ServerType: plan.ServerType,
		Location:   plan.Location,
		SSHKeys:    []string{naming.SSHKey(plan.ClusterName)},
		Labels:     labels.ForNode(plan.ClusterName, spec.role),
		UserData:   spec.userData,
		NetworkID:  spec.networkID,
	})
	if err != nil {
		return nil, err
	}
	p.event(EventResourceCreated, phaseCompute, spec.name, "server created")
	return server, nil
}

// ingressRules opens SSH, the Kubernetes API, and HTTP(S).
func ingressRules() []hcloud.FirewallRule {
	anywhere := []net.IPNet{
		mustCIDR("0.0.0.0/0"),
		mustCIDR("::/0"),
	}
	tcp := func(description, port string) hcloud.FirewallRule {
		return hcloud.FirewallRule{
			Description: hcloud.Ptr(description),
			Direction:   hcloud.FirewallRuleDirectionIn,
			Protocol:    hcloud.FirewallRuleProtocolTCP,
			Port:        hcloud.Ptr(port),
			SourceIPs:   anywhere,
		}
	}
	return []hcloud.FirewallRule{
		tcp("SSH", "22"),
		tcp("Kubernetes API", "6443"),
		tcp("HTTP", "80"),
		tcp("HTTPS", "443"),
	}
}

func mustCIDR(cidr string) net.IPNet {
	_, n, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(err)
	}
	return *n
}
