// Package labels defines the label sets slipway stamps on Hetzner Cloud
// resources. Every resource carries the cluster label, which is what
// teardown sweeps by.
package labels

// Label keys, namespaced under the slipway.io prefix.
const (
	// KeyCluster identifies which cluster a resource belongs to.
	KeyCluster = "slipway.io/cluster"

	// KeyRole marks a server's role in the cluster.
	KeyRole = "slipway.io/role"

	// KeyManagedBy marks resources created by slipway.
	KeyManagedBy = "slipway.io/managed-by"
)

// Role values for cluster servers.
const (
	RoleServer = "server"
	RoleAgent  = "agent"
)

// ManagedBy is the value stamped on every resource slipway creates.
const ManagedBy = "slipway"

// ForCluster returns the labels for a cluster-scoped resource.
func ForCluster(cluster string) map[string]string {
	return map[string]string{
		KeyCluster:   cluster,
		KeyManagedBy: ManagedBy,
	}
}

// ForNode returns the labels for a cluster server with the given role.
func ForNode(cluster, role string) map[string]string {
	l := ForCluster(cluster)
	l[KeyRole] = role
	return l
}

// ClusterOnly returns just the cluster label. Teardown matches on this
// alone so resources are swept regardless of what stamped them.
func ClusterOnly(cluster string) map[string]string {
	return map[string]string{KeyCluster: cluster}
}

// Selector returns the label selector matching all resources of a
// cluster, in the form the firewall apply-to rules expect.
func Selector(cluster string) string {
	return KeyCluster + "=" + cluster
}
