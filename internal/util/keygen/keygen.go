package keygen

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"

	"golang.org/x/crypto/ssh"
)

// KeyPair holds an ed25519 SSH key pair in ready-to-use formats.
type KeyPair struct {
	// Private is the private key in PEM-encoded OpenSSH format.
	Private []byte
	// Public is the public key in OpenSSH authorized_keys format.
	Public []byte
	// Fingerprint is the SHA256 fingerprint of the public key.
	Fingerprint string
}

// Generate creates a new ed25519 key pair for SSH authentication.
func Generate(comment string) (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
	}

	block, err := ssh.MarshalPrivateKey(priv, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH public key: %w", err)
	}

	return &KeyPair{
		Private:     pem.EncodeToMemory(block),
		Public:      ssh.MarshalAuthorizedKey(sshPub),
		Fingerprint: ssh.FingerprintSHA256(sshPub),
	}, nil
}
