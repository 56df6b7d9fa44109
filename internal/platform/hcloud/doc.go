// Package hcloud wraps the Hetzner Cloud API behind small, mockable
// interfaces with retry, timeout, and error classification built in.
//
// Resource writes go through two generic engines: DeleteOperation gives
// idempotent, lock-aware deletion for any resource type, and
// EnsureOperation gives get-or-create with optional update and
// validation of an existing resource. Servers are the exception; their
// creation involves action waiting and image resolution and is
// implemented directly.
//
// CleanupByLabel tears down every labeled resource in dependency order
// (servers, firewalls, networks, SSH keys) and collects per-resource
// failures instead of stopping at the first one.
//
// Operation timeouts and retry parameters come from LoadTimeouts and can
// be overridden through SLIPWAY_HCLOUD_* environment variables.
package hcloud
