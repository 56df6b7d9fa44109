package hcloud

import (
	"context"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// ServerCreateOpts holds the parameters for creating a cluster node.
type ServerCreateOpts struct {
	Name       string
	Image      string
	ServerType string
	Location   string
	SSHKeys    []string
	Labels     map[string]string
	UserData   string
	// NetworkID, when non-zero, attaches the server to that private
	// network at creation time.
	NetworkID int64
}

// ServerManager defines the interface for managing servers.
type ServerManager interface {
	// CreateServer creates the server, waits for it to come up, and
	// returns it with public addresses populated.
	CreateServer(ctx context.Context, opts ServerCreateOpts) (*hcloud.Server, error)
	DeleteServer(ctx context.Context, name string) error
	// GetServerByName returns the server, or nil if it does not exist.
	GetServerByName(ctx context.Context, name string) (*hcloud.Server, error)
	// GetServerIP returns the server's public address, preferring IPv4.
	GetServerIP(ctx context.Context, name string) (string, error)
	GetServersByLabel(ctx context.Context, labels map[string]string) ([]*hcloud.Server, error)
}

// SSHKeyManager defines the interface for managing SSH keys.
type SSHKeyManager interface {
	EnsureSSHKey(ctx context.Context, name, publicKey string, labels map[string]string) (*hcloud.SSHKey, error)
	GetSSHKey(ctx context.Context, name string) (*hcloud.SSHKey, error)
	DeleteSSHKey(ctx context.Context, name string) error
}

// NetworkManager defines the interface for managing private networks.
type NetworkManager interface {
	EnsureNetwork(ctx context.Context, name, ipRange string, labels map[string]string) (*hcloud.Network, error)
	EnsureSubnet(ctx context.Context, network *hcloud.Network, ipRange, networkZone string) error
	GetNetwork(ctx context.Context, name string) (*hcloud.Network, error)
	DeleteNetwork(ctx context.Context, name string) error
}

// FirewallManager defines the interface for managing firewalls.
type FirewallManager interface {
	// EnsureFirewall creates the firewall or replaces the rules of an
	// existing one. A non-empty applyToSelector applies the firewall to
	// all servers matching that label selector.
	EnsureFirewall(ctx context.Context, name string, rules []hcloud.FirewallRule, labels map[string]string, applyToSelector string) (*hcloud.Firewall, error)
	GetFirewall(ctx context.Context, name string) (*hcloud.Firewall, error)
	DeleteFirewall(ctx context.Context, name string) error
}

// InfrastructureManager combines everything cluster provisioning needs.
type InfrastructureManager interface {
	ServerManager
	SSHKeyManager
	NetworkManager
	FirewallManager

	// CleanupByLabel deletes all resources matching the label selector
	// in dependency order.
	CleanupByLabel(ctx context.Context, labels map[string]string) error
}
