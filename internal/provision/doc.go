// Package provision converges Hetzner Cloud infrastructure toward a
// single-cluster plan: SSH key, private network, firewall, and k3s
// nodes bootstrapped through cloud-init. Converge and Destroy are both
// idempotent; progress between runs lives in a working-state file that
// can be mirrored into object storage.
package provision
