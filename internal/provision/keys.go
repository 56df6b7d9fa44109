package provision

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/imamik/slipway/internal/util/keygen"
)

// EnsureKeyPair returns the cluster's SSH key pair, generating one on
// first use. The key files live next to the state file.
func (s *Store) EnsureKeyPair() (*keygen.KeyPair, error) {
	privPath := filepath.Join(s.dir, privateKeyFile)
	pubPath := filepath.Join(s.dir, publicKeyFile)

	priv, privErr := os.ReadFile(privPath)
	pub, pubErr := os.ReadFile(pubPath)
	if privErr == nil && pubErr == nil {
		return &keygen.KeyPair{Private: priv, Public: pub}, nil
	}
	if privErr != nil && !errors.Is(privErr, os.ErrNotExist) {
		return nil, fmt.Errorf("read private key: %w", privErr)
	}
	if pubErr != nil && !errors.Is(pubErr, os.ErrNotExist) {
		return nil, fmt.Errorf("read public key: %w", pubErr)
	}

	pair, err := keygen.Generate("slipway")
	if err != nil {
		return nil, fmt.Errorf("generate ssh key pair: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir %s: %w", s.dir, err)
	}
	if err := os.WriteFile(privPath, pair.Private, 0o600); err != nil {
		return nil, fmt.Errorf("write private key: %w", err)
	}
	if err := os.WriteFile(pubPath, pair.Public, 0o644); err != nil {
		return nil, fmt.Errorf("write public key: %w", err)
	}
	return pair, nil
}
