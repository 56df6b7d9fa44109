// Package ssh runs commands on cluster nodes over SSH.
//
// slipway uses it after server creation to watch the k3s install
// finish and to fetch the admin kubeconfig from the control node.
// Connections are dialed per call with retry, since the node's sshd
// only comes up partway through cloud-init.
package ssh
