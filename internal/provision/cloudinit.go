package provision

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Nodes install k3s through cloud-init so no push-based configuration
// step is needed. The server reads its own public address from the
// metadata service for the TLS SAN; agents join over the server's
// public address.

const serverUserDataFormat = `#cloud-config
package_update: true
runcmd:
  - |
    PUBLIC_IP=$(curl -s http://169.254.169.254/hetzner/v1/metadata/public-ipv4)
    curl -sfL https://get.k3s.io | K3S_TOKEN='%s' sh -s - server --tls-san "$PUBLIC_IP"
`

const agentUserDataFormat = `#cloud-config
package_update: true
runcmd:
  - |
    curl -sfL https://get.k3s.io | K3S_URL='https://%s:6443' K3S_TOKEN='%s' sh -s - agent
`

func serverUserData(token string) string {
	return fmt.Sprintf(serverUserDataFormat, token)
}

func agentUserData(serverIP, token string) string {
	return fmt.Sprintf(agentUserDataFormat, serverIP, token)
}

// newToken generates the k3s join token shared by the cluster's nodes.
func newToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
