package provision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"

	"github.com/imamik/slipway/internal/platform/s3"
)

const (
	stateFileName  = "state.yaml"
	stateObjectKey = "state.yaml"
	privateKeyFile = "id_ed25519"
	publicKeyFile  = "id_ed25519.pub"
)

// RemoteStore mirrors the working state into an object storage bucket.
// Implemented by platform/s3.Client.
type RemoteStore interface {
	EnsureBucket(ctx context.Context, bucket string) error
	PutObject(ctx context.Context, bucket, key string, data []byte) error
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	DeleteObject(ctx context.Context, bucket, key string) error
	WriteMetadata(ctx context.Context, bucket, cluster string) error
	GetMetadata(ctx context.Context, bucket string) (*s3.BucketMetadata, error)
}

// Store persists the working state under the state directory and
// mirrors it into object storage when a bucket is configured.
type Store struct {
	dir    string
	bucket string
	remote RemoteStore
	log    logr.Logger
}

// NewStore creates a store rooted at dir. remote may be nil when no
// state bucket is configured.
func NewStore(dir string, remote RemoteStore, bucket string, log logr.Logger) *Store {
	return &Store{dir: dir, bucket: bucket, remote: remote, log: log}
}

// Path returns the location of the local state file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, stateFileName)
}

// HasRemote reports whether a remote mirror is configured.
func (s *Store) HasRemote() bool {
	return s.remote != nil && s.bucket != ""
}

// Load reads the working state, falling back to the remote mirror when
// no local copy exists. Missing state on both sides yields a fresh
// absent state.
func (s *Store) Load(ctx context.Context) (*State, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return s.loadRemote(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	return parseState(data)
}

func (s *Store) loadRemote(ctx context.Context) (*State, error) {
	if !s.HasRemote() {
		return NewState(), nil
	}
	data, err := s.remote.GetObject(ctx, s.bucket, stateObjectKey)
	if err != nil {
		if s3.IsNotFound(err) {
			return NewState(), nil
		}
		return nil, fmt.Errorf("pull remote state: %w", err)
	}
	s.log.V(1).Info("pulled state from remote mirror", "bucket", s.bucket)
	return parseState(data)
}

func parseState(data []byte) (*State, error) {
	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	if st.Phase == "" {
		st.Phase = PhaseAbsent
	}
	return &st, nil
}

// Save writes the state locally and pushes it to the remote mirror. A
// failed mirror push is logged, not fatal: the local copy is the
// working truth.
func (s *Store) Save(ctx context.Context, st *State) error {
	st.UpdatedAt = time.Now().UTC()
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create state dir %s: %w", s.dir, err)
	}
	if err := os.WriteFile(s.Path(), data, 0o600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if s.HasRemote() {
		if err := s.remote.PutObject(ctx, s.bucket, stateObjectKey, data); err != nil {
			s.log.Error(err, "push state to remote mirror failed", "bucket", s.bucket)
		}
	}
	return nil
}

// Claim marks the bucket as owned by the given cluster. A bucket that
// already holds another cluster's state is refused.
func (s *Store) Claim(ctx context.Context, cluster string) error {
	if !s.HasRemote() {
		return nil
	}
	if err := s.remote.EnsureBucket(ctx, s.bucket); err != nil {
		return err
	}
	meta, err := s.remote.GetMetadata(ctx, s.bucket)
	if err != nil {
		return err
	}
	if meta == nil {
		return s.remote.WriteMetadata(ctx, s.bucket, cluster)
	}
	if meta.Cluster != cluster {
		return fmt.Errorf("bucket %q already holds state for cluster %q", s.bucket, meta.Cluster)
	}
	return nil
}

// Clear removes the local state and key files and the remote mirror
// objects. Remote deletions are best effort; the bucket itself stays.
func (s *Store) Clear(ctx context.Context) error {
	for _, name := range []string{stateFileName, privateKeyFile, publicKeyFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	if s.HasRemote() {
		for _, key := range []string{stateObjectKey, s3.MetadataKey} {
			if err := s.remote.DeleteObject(ctx, s.bucket, key); err != nil {
				s.log.Error(err, "delete remote state object failed", "bucket", s.bucket, "key", key)
			}
		}
	}
	return nil
}
