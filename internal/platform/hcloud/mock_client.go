package hcloud

import (
	"context"
	"net"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// MockClient is a function-field implementation of InfrastructureManager
// for tests. Unset fields fall back to benign defaults.
type MockClient struct {
	CreateServerFunc      func(ctx context.Context, opts ServerCreateOpts) (*hcloud.Server, error)
	DeleteServerFunc      func(ctx context.Context, name string) error
	GetServerByNameFunc   func(ctx context.Context, name string) (*hcloud.Server, error)
	GetServerIPFunc       func(ctx context.Context, name string) (string, error)
	GetServersByLabelFunc func(ctx context.Context, labels map[string]string) ([]*hcloud.Server, error)

	EnsureSSHKeyFunc func(ctx context.Context, name, publicKey string, labels map[string]string) (*hcloud.SSHKey, error)
	GetSSHKeyFunc    func(ctx context.Context, name string) (*hcloud.SSHKey, error)
	DeleteSSHKeyFunc func(ctx context.Context, name string) error

	EnsureNetworkFunc func(ctx context.Context, name, ipRange string, labels map[string]string) (*hcloud.Network, error)
	EnsureSubnetFunc  func(ctx context.Context, network *hcloud.Network, ipRange, networkZone string) error
	GetNetworkFunc    func(ctx context.Context, name string) (*hcloud.Network, error)
	DeleteNetworkFunc func(ctx context.Context, name string) error

	EnsureFirewallFunc func(ctx context.Context, name string, rules []hcloud.FirewallRule, labels map[string]string, applyToSelector string) (*hcloud.Firewall, error)
	GetFirewallFunc    func(ctx context.Context, name string) (*hcloud.Firewall, error)
	DeleteFirewallFunc func(ctx context.Context, name string) error

	CleanupByLabelFunc func(ctx context.Context, labels map[string]string) error
}

var _ InfrastructureManager = (*MockClient)(nil)

// CreateServer mocks server creation.
func (m *MockClient) CreateServer(ctx context.Context, opts ServerCreateOpts) (*hcloud.Server, error) {
	if m.CreateServerFunc != nil {
		return m.CreateServerFunc(ctx, opts)
	}
	server := &hcloud.Server{ID: 1, Name: opts.Name, Status: hcloud.ServerStatusRunning}
	server.PublicNet.IPv4.IP = net.ParseIP("192.0.2.10")
	return server, nil
}

// DeleteServer mocks server deletion.
func (m *MockClient) DeleteServer(ctx context.Context, name string) error {
	if m.DeleteServerFunc != nil {
		return m.DeleteServerFunc(ctx, name)
	}
	return nil
}

// GetServerByName mocks server lookup; the default reports absence.
func (m *MockClient) GetServerByName(ctx context.Context, name string) (*hcloud.Server, error) {
	if m.GetServerByNameFunc != nil {
		return m.GetServerByNameFunc(ctx, name)
	}
	return nil, nil
}

// GetServerIP mocks public address lookup.
func (m *MockClient) GetServerIP(ctx context.Context, name string) (string, error) {
	if m.GetServerIPFunc != nil {
		return m.GetServerIPFunc(ctx, name)
	}
	return "192.0.2.10", nil
}

// GetServersByLabel mocks labeled listing; the default is empty.
func (m *MockClient) GetServersByLabel(ctx context.Context, labels map[string]string) ([]*hcloud.Server, error) {
	if m.GetServersByLabelFunc != nil {
		return m.GetServersByLabelFunc(ctx, labels)
	}
	return nil, nil
}

// EnsureSSHKey mocks key upload.
func (m *MockClient) EnsureSSHKey(ctx context.Context, name, publicKey string, labels map[string]string) (*hcloud.SSHKey, error) {
	if m.EnsureSSHKeyFunc != nil {
		return m.EnsureSSHKeyFunc(ctx, name, publicKey, labels)
	}
	return &hcloud.SSHKey{ID: 1, Name: name, PublicKey: publicKey}, nil
}

// GetSSHKey mocks key lookup; the default reports absence.
func (m *MockClient) GetSSHKey(ctx context.Context, name string) (*hcloud.SSHKey, error) {
	if m.GetSSHKeyFunc != nil {
		return m.GetSSHKeyFunc(ctx, name)
	}
	return nil, nil
}

// DeleteSSHKey mocks key deletion.
func (m *MockClient) DeleteSSHKey(ctx context.Context, name string) error {
	if m.DeleteSSHKeyFunc != nil {
		return m.DeleteSSHKeyFunc(ctx, name)
	}
	return nil
}

// EnsureNetwork mocks network creation.
func (m *MockClient) EnsureNetwork(ctx context.Context, name, ipRange string, labels map[string]string) (*hcloud.Network, error) {
	if m.EnsureNetworkFunc != nil {
		return m.EnsureNetworkFunc(ctx, name, ipRange, labels)
	}
	return &hcloud.Network{ID: 1, Name: name}, nil
}

// EnsureSubnet mocks subnet creation.
func (m *MockClient) EnsureSubnet(ctx context.Context, network *hcloud.Network, ipRange, networkZone string) error {
	if m.EnsureSubnetFunc != nil {
		return m.EnsureSubnetFunc(ctx, network, ipRange, networkZone)
	}
	return nil
}

// GetNetwork mocks network lookup; the default reports absence.
func (m *MockClient) GetNetwork(ctx context.Context, name string) (*hcloud.Network, error) {
	if m.GetNetworkFunc != nil {
		return m.GetNetworkFunc(ctx, name)
	}
	return nil, nil
}

// DeleteNetwork mocks network deletion.
func (m *MockClient) DeleteNetwork(ctx context.Context, name string) error {
	if m.DeleteNetworkFunc != nil {
		return m.DeleteNetworkFunc(ctx, name)
	}
	return nil
}

// EnsureFirewall mocks firewall creation.
func (m *MockClient) EnsureFirewall(ctx context.Context, name string, rules []hcloud.FirewallRule, labels map[string]string, applyToSelector string) (*hcloud.Firewall, error) {
	if m.EnsureFirewallFunc != nil {
		return m.EnsureFirewallFunc(ctx, name, rules, labels, applyToSelector)
	}
	return &hcloud.Firewall{ID: 1, Name: name}, nil
}

// GetFirewall mocks firewall lookup; the default reports absence.
func (m *MockClient) GetFirewall(ctx context.Context, name string) (*hcloud.Firewall, error) {
	if m.GetFirewallFunc != nil {
		return m.GetFirewallFunc(ctx, name)
	}
	return nil, nil
}

// DeleteFirewall mocks firewall deletion.
func (m *MockClient) DeleteFirewall(ctx context.Context, name string) error {
	if m.DeleteFirewallFunc != nil {
		return m.DeleteFirewallFunc(ctx, name)
	}
	return nil
}

// CleanupByLabel mocks labeled teardown.
func (m *MockClient) CleanupByLabel(ctx context.Context, labels map[string]string) error {
	if m.CleanupByLabelFunc != nil {
		return m.CleanupByLabelFunc(ctx, labels)
	}
	return nil
}
