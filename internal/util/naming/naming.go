// Package naming provides the names slipway gives Hetzner Cloud
// resources. Cluster-wide resources (network, firewall, SSH key) share
// the cluster name; servers append their role.
package naming

import "fmt"

func Network(cluster string) string {
	return cluster
}

func Firewall(cluster string) string {
	return cluster
}

func SSHKey(cluster string) string {
	return cluster
}

// ServerNode names the node running the k3s server.
func ServerNode(cluster string) string {
	return fmt.Sprintf("%s-server", cluster)
}

// AgentNode names the i-th agent node, counted from 1.
func AgentNode(cluster string, index int) string {
	return fmt.Sprintf("%s-agent-%d", cluster, index)
}
