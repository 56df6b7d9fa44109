package hcloud

import (
	"context"
	"fmt"
	"net"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/slipway/internal/util/retry"
)

// CreateServer creates the server and blocks until the create and
// follow-up actions (start, network attach) completed. The returned
// server has its address assignments populated.
func (c *RealClient) CreateServer(ctx context.Context, opts ServerCreateOpts) (*hcloud.Server, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.ServerCreate)
	defer cancel()

	createOpts, err := c.buildServerCreateOpts(ctx, opts)
	if err != nil {
		return nil, err
	}

	result, err := c.createServerWithRetry(ctx, createOpts)
	if err != nil {
		return nil, err
	}

	// Re-fetch so the returned server carries the assigned addresses.
	server, _, err := c.client.Server.GetByID(ctx, result.Server.ID)
	if err != nil {
		return nil, fmt.Errorf("get server %q after creation: %w", opts.Name, err)
	}
	if server == nil {
		return nil, fmt.Errorf("server %q disappeared after creation", opts.Name)
	}
	return server, nil
}

// buildServerCreateOpts resolves names to API objects and assembles the
// creation options.
func (c *RealClient) buildServerCreateOpts(ctx context.Context, opts ServerCreateOpts) (hcloud.ServerCreateOpts, error) {
	serverType, _, err := c.client.ServerType.Get(ctx, opts.ServerType)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("get server type %q: %w", opts.ServerType, err)
	}
	if serverType == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("server type not found: %s", opts.ServerType)
	}

	image, _, err := c.client.Image.GetForArchitecture(ctx, opts.Image, serverType.Architecture)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("get image %q: %w", opts.Image, err)
	}
	if image == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("image not found for %s: %s", serverType.Architecture, opts.Image)
	}

	sshKeys, err := c.resolveSSHKeys(ctx, opts.SSHKeys)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	location, _, err := c.client.Location.Get(ctx, opts.Location)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("get location %q: %w", opts.Location, err)
	}
	if location == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("location not found: %s", opts.Location)
	}

	createOpts := hcloud.ServerCreateOpts{
		Name:       opts.Name,
		ServerType: serverType,
		Image:      image,
		Location:   location,
		SSHKeys:    sshKeys,
		Labels:     opts.Labels,
		UserData:   opts.UserData,
		PublicNet: &hcloud.ServerCreatePublicNet{
			EnableIPv4: true,
			EnableIPv6: true,
		},
	}
	if opts.NetworkID != 0 {
		createOpts.Networks = []*hcloud.Network{{ID: opts.NetworkID}}
	}
	return createOpts, nil
}

// createServerWithRetry creates the server, retrying transient API
// failures, and waits for the create action and its follow-ups.
func (c *RealClient) createServerWithRetry(ctx context.Context, opts hcloud.ServerCreateOpts) (hcloud.ServerCreateResult, error) {
	var result hcloud.ServerCreateResult

	err := retry.Do(ctx, func() error {
		res, _, err := c.client.Server.Create(ctx, opts)
		if err != nil {
			if isInvalidParameter(err) {
				return retry.Permanent(err)
			}
			return err
		}
		result = res
		return nil
	},
		retry.Attempts(c.timeouts.RetryAttempts),
		retry.Delay(c.timeouts.RetryDelay))
	if err != nil {
		return result, fmt.Errorf("create server %q: %w", opts.Name, err)
	}

	actions := result.NextActions
	if result.Action != nil {
		actions = append([]*hcloud.Action{result.Action}, actions...)
	}
	if err := waitForActions(ctx, c.client, actions...); err != nil {
		return result, fmt.Errorf("wait for server %q creation: %w", opts.Name, err)
	}
	return result, nil
}

// resolveSSHKeys resolves key names to API objects.
func (c *RealClient) resolveSSHKeys(ctx context.Context, names []string) ([]*hcloud.SSHKey, error) {
	var keys []*hcloud.SSHKey
	for _, name := range names {
		key, _, err := c.client.SSHKey.Get(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("get ssh key %q: %w", name, err)
		}
		if key == nil {
			return nil, fmt.Errorf("ssh key not found: %s", name)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// GetServerByName returns the named server, or nil if it does not exist.
func (c *RealClient) GetServerByName(ctx context.Context, name string) (*hcloud.Server, error) {
	server, _, err := c.client.Server.Get(ctx, name)
	return server, err
}

// GetServerIP returns the server's public address, preferring IPv4 and
// falling back to the first host in its IPv6 network.
func (c *RealClient) GetServerIP(ctx context.Context, name string) (string, error) {
	server, _, err := c.client.Server.Get(ctx, name)
	if err != nil {
		return "", fmt.Errorf("get server %q: %w", name, err)
	}
	if server == nil {
		return "", fmt.Errorf("server not found: %s", name)
	}

	ip := ServerIPv4(server)
	if ip == "" {
		ip = serverIPv6Host(server)
	}
	if ip == "" {
		return "", fmt.Errorf("server %s has no public address", name)
	}
	return ip, nil
}

// GetServersByLabel returns all servers matching the given labels.
func (c *RealClient) GetServersByLabel(ctx context.Context, labels map[string]string) ([]*hcloud.Server, error) {
	servers, err := c.client.Server.AllWithOpts(ctx, hcloud.ServerListOpts{
		ListOpts: hcloud.ListOpts{LabelSelector: buildLabelSelector(labels)},
	})
	if err != nil {
		return nil, fmt.Errorf("list servers: %w", err)
	}
	return servers, nil
}

// DeleteServer deletes the named server if it exists.
func (c *RealClient) DeleteServer(ctx context.Context, name string) error {
	return (&DeleteOperation[*hcloud.Server]{
		Name:         name,
		ResourceType: "server",
		Get:          c.client.Server.Get,
		Delete: func(ctx context.Context, server *hcloud.Server) (*hcloud.Response, error) {
			_, resp, err := c.client.Server.DeleteWithResult(ctx, server)
			return resp, err
		},
	}).Execute(ctx, c)
}

// ServerIPv4 extracts the public IPv4 address, or empty if unset.
func ServerIPv4(s *hcloud.Server) string {
	if s != nil && s.PublicNet.IPv4.IP != nil {
		return s.PublicNet.IPv4.IP.String()
	}
	return ""
}

// serverIPv6Host returns the conventional host address (::1) inside the
// server's public IPv6 network, or empty if the server has none.
func serverIPv6Host(s *hcloud.Server) string {
	if s == nil || s.PublicNet.IPv6.IP == nil {
		return ""
	}
	ip := make(net.IP, len(s.PublicNet.IPv6.IP))
	copy(ip, s.PublicNet.IPv6.IP)
	ip[len(ip)-1] |= 1
	return ip.String()
}
