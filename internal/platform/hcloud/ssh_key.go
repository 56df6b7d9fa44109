package hcloud

import (
	"context"
	"fmt"
	"strings"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// EnsureSSHKey returns the named SSH key, uploading it when absent. Key
// material is immutable in the API, so an existing key with different
// material is an error rather than an update.
func (c *RealClient) EnsureSSHKey(ctx context.Context, name, publicKey string, labels map[string]string) (*hcloud.SSHKey, error) {
	return (&EnsureOperation[*hcloud.SSHKey, hcloud.SSHKeyCreateOpts, any]{
		Name:         name,
		ResourceType: "ssh key",
		Get:          c.client.SSHKey.Get,
		Create:       simpleCreate(c.client.SSHKey.Create),
		Validate: func(key *hcloud.SSHKey) error {
			if !sameKeyMaterial(key.PublicKey, publicKey) {
				return fmt.Errorf("ssh key %q exists with different key material", name)
			}
			return nil
		},
		CreateOptsMapper: func() hcloud.SSHKeyCreateOpts {
			return hcloud.SSHKeyCreateOpts{
				Name:      name,
				PublicKey: publicKey,
				Labels:    labels,
			}
		},
	}).Execute(ctx, c)
}

// GetSSHKey returns the named SSH key, or nil if it does not exist.
func (c *RealClient) GetSSHKey(ctx context.Context, name string) (*hcloud.SSHKey, error) {
	key, _, err := c.client.SSHKey.Get(ctx, name)
	return key, err
}

// DeleteSSHKey deletes the named SSH key if it exists.
func (c *RealClient) DeleteSSHKey(ctx context.Context, name string) error {
	return (&DeleteOperation[*hcloud.SSHKey]{
		Name:         name,
		ResourceType: "ssh key",
		Get:          c.client.SSHKey.Get,
		Delete:       c.client.SSHKey.Delete,
	}).Execute(ctx, c)
}

// sameKeyMaterial compares the algorithm and base64 key fields of two
// authorized_keys lines, ignoring comments.
func sameKeyMaterial(a, b string) bool {
	fa := strings.Fields(a)
	fb := strings.Fields(b)
	if len(fa) < 2 || len(fb) < 2 {
		return strings.TrimSpace(a) == strings.TrimSpace(b)
	}
	return fa[0] == fb[0] && fa[1] == fb[1]
}
