package hcloud

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// CleanupError accumulates per-resource failures from a cleanup run.
type CleanupError struct {
	Errors []error
}

func (e *CleanupError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("cleanup encountered %d errors: %v", len(e.Errors), e.Errors)
}

func (e *CleanupError) Unwrap() error {
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return errors.Join(e.Errors...)
}

// Add records a non-nil error.
func (e *CleanupError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors reports whether any error was recorded.
func (e *CleanupError) HasErrors() bool {
	return len(e.Errors) > 0
}

// resource constrains the cleanup helpers to the resource kinds the
// provisioner creates.
type resource interface {
	*hcloud.Server | *hcloud.Firewall | *hcloud.Network | *hcloud.SSHKey
}

type resourceInfo struct {
	Name string
	ID   int64
}

func getResourceInfo[T resource](r T) resourceInfo {
	switch v := any(r).(type) {
	case *hcloud.Server:
		return resourceInfo{Name: v.Name, ID: v.ID}
	case *hcloud.Firewall:
		return resourceInfo{Name: v.Name, ID: v.ID}
	case *hcloud.Network:
		return resourceInfo{Name: v.Name, ID: v.ID}
	case *hcloud.SSHKey:
		return resourceInfo{Name: v.Name, ID: v.ID}
	default:
		return resourceInfo{}
	}
}

// deleteByLabel lists resources of one kind and deletes them,
// collecting failures instead of stopping at the first one.
func deleteByLabel[T resource](
	ctx context.Context,
	c *RealClient,
	resourceType string,
	listFn func(context.Context) ([]T, error),
	deleteFn func(context.Context, T) error,
) error {
	resources, err := listFn(ctx)
	if err != nil {
		return fmt.Errorf("list %s: %w", resourceType, err)
	}

	var deleteErrs []error
	for _, r := range resources {
		info := getResourceInfo(r)
		c.log.Info("deleting resource", "kind", resourceType, "name", info.Name, "id", info.ID)
		if err := deleteFn(ctx, r); err != nil {
			if IsNotFound(err) {
				continue
			}
			c.log.Error(err, "delete failed", "kind", resourceType, "name", info.Name)
			deleteErrs = append(deleteErrs, fmt.Errorf("%s %q: %w", resourceType, info.Name, err))
		}
	}

	if len(deleteErrs) > 0 {
		return errors.Join(deleteErrs...)
	}
	return nil
}

// CleanupByLabel deletes all resources matching the label selector in
// dependency order: servers first, then firewalls, networks, and SSH
// keys. Failures are accumulated into a CleanupError so every resource
// kind gets an attempt.
func (c *RealClient) CleanupByLabel(ctx context.Context, labels map[string]string) error {
	selector := buildLabelSelector(labels)
	c.log.Info("cleaning up labeled resources", "selector", selector)

	cleanupErrs := &CleanupError{}

	if err := c.deleteServersByLabel(ctx, selector); err != nil {
		cleanupErrs.Add(fmt.Errorf("servers: %w", err))
	}
	if err := c.deleteFirewallsByLabel(ctx, selector); err != nil {
		cleanupErrs.Add(fmt.Errorf("firewalls: %w", err))
	}
	if err := c.deleteNetworksByLabel(ctx, selector); err != nil {
		cleanupErrs.Add(fmt.Errorf("networks: %w", err))
	}
	if err := c.deleteSSHKeysByLabel(ctx, selector); err != nil {
		cleanupErrs.Add(fmt.Errorf("ssh keys: %w", err))
	}

	if cleanupErrs.HasErrors() {
		return cleanupErrs
	}
	return nil
}

// buildLabelSelector converts a label map to the API's selector syntax.
func buildLabelSelector(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}

	selector := ""
	for k, v := range labels {
		if selector != "" {
			selector += ","
		}
		selector += fmt.Sprintf("%s=%s", k, v)
	}
	return selector
}

// deleteServersByLabel deletes matching servers and waits until the API
// stops listing them. Networks and firewalls cannot be removed while a
// server still references them.
func (c *RealClient) deleteServersByLabel(ctx context.Context, selector string) error {
	list := func(ctx context.Context) ([]*hcloud.Server, error) {
		return c.client.Server.AllWithOpts(ctx, hcloud.ServerListOpts{
			ListOpts: hcloud.ListOpts{LabelSelector: selector},
		})
	}

	servers, err := list(ctx)
	if err != nil {
		return fmt.Errorf("list servers: %w", err)
	}

	var deleteErrs []error
	for _, s := range servers {
		c.log.Info("deleting resource", "kind", "server", "name", s.Name, "id", s.ID)
		if _, _, err := c.client.Server.DeleteWithResult(ctx, s); err != nil && !IsNotFound(err) {
			c.log.Error(err, "delete failed", "kind", "server", "name", s.Name)
			deleteErrs = append(deleteErrs, fmt.Errorf("server %q: %w", s.Name, err))
		}
	}

	// Wait up to 5 minutes for the deletions to finish.
	if len(servers) > 0 {
		for i := 0; i < 60; i++ {
			remaining, err := list(ctx)
			if err != nil {
				c.log.Error(err, "checking remaining servers")
				break
			}
			if len(remaining) == 0 {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(5 * time.Second):
			}
		}
	}

	if len(deleteErrs) > 0 {
		return errors.Join(deleteErrs...)
	}
	return nil
}

// deleteFirewallsByLabel deletes matching firewalls, retrying while a
// firewall is still applied to a server that is being torn down.
func (c *RealClient) deleteFirewallsByLabel(ctx context.Context, selector string) error {
	firewalls, err := c.client.Firewall.AllWithOpts(ctx, hcloud.FirewallListOpts{
		ListOpts: hcloud.ListOpts{LabelSelector: selector},
	})
	if err != nil {
		return fmt.Errorf("list firewalls: %w", err)
	}

	var deleteErrs []error
	for _, fw := range firewalls {
		c.log.Info("deleting resource", "kind", "firewall", "name", fw.Name, "id", fw.ID)

		for i := 0; i < 30; i++ {
			_, err = c.client.Firewall.Delete(ctx, fw)
			if err == nil || IsNotFound(err) {
				err = nil
				break
			}
			if !isResourceInUse(err) {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.timeouts.RetryDelay):
			}
		}
		if err != nil {
			c.log.Error(err, "delete failed", "kind", "firewall", "name", fw.Name)
			deleteErrs = append(deleteErrs, fmt.Errorf("firewall %q: %w", fw.Name, err))
		}
	}

	if len(deleteErrs) > 0 {
		return errors.Join(deleteErrs...)
	}
	return nil
}

func (c *RealClient) deleteNetworksByLabel(ctx context.Context, selector string) error {
	return deleteByLabel(ctx, c, "network",
		func(ctx context.Context) ([]*hcloud.Network, error) {
			return c.client.Network.AllWithOpts(ctx, hcloud.NetworkListOpts{
				ListOpts: hcloud.ListOpts{LabelSelector: selector},
			})
		},
		func(ctx context.Context, n *hcloud.Network) error {
			_, err := c.client.Network.Delete(ctx, n)
			return err
		},
	)
}

func (c *RealClient) deleteSSHKeysByLabel(ctx context.Context, selector string) error {
	return deleteByLabel(ctx, c, "ssh key",
		func(ctx context.Context) ([]*hcloud.SSHKey, error) {
			return c.client.SSHKey.AllWithOpts(ctx, hcloud.SSHKeyListOpts{
				ListOpts: hcloud.ListOpts{LabelSelector: selector},
			})
		},
		func(ctx context.Context, k *hcloud.SSHKey) error {
			_, err := c.client.SSHKey.Delete(ctx, k)
			return err
		},
	)
}
