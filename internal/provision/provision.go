package provision

import (
	"context"
	"errors"
	"fmt"
)

// DefaultImage is the OS image cluster nodes boot from.
const DefaultImage = "ubuntu-24.04"

// Plan describes the cluster the provisioner converges toward.
type Plan struct {
	ClusterName string
	Location    string
	ServerType  string

	// Image overrides the node OS image. Empty means DefaultImage.
	Image string

	// Nodes is the total node count including the k3s server.
	Nodes int
}

func (p Plan) withDefaults() Plan {
	if p.Image == "" {
		p.Image = DefaultImage
	}
	if p.Nodes < 1 {
		p.Nodes = 1
	}
	return p
}

func (p Plan) validate() error {
	if p.ClusterName == "" {
		return errors.New("cluster name required")
	}
	if p.Location == "" {
		return errors.New("location required")
	}
	if p.ServerType == "" {
		return errors.New("server type required")
	}
	return nil
}

// Result carries what the cluster manager needs after a converge.
type Result struct {
	// Kubeconfig is the admin kubeconfig, already pointing at the
	// server node's public address.
	Kubeconfig []byte

	// ServerIP is the public address of the k3s server node.
	ServerIP string
}

// Provisioner converges cloud infrastructure toward a plan and tears it
// down again. Both operations are idempotent: re-running a converge
// after a failure resumes where it stopped, and destroying an absent
// cluster succeeds.
type Provisioner interface {
	Converge(ctx context.Context, plan Plan) (*Result, error)
	Destroy(ctx context.Context, plan Plan) error
}

// ProvisionError marks a converge or destroy failure with the step that
// caused it. The working state is saved as partial-failed before the
// error is returned, so re-running the operation is safe.
type ProvisionError struct {
	Op   string
	Step string
	Err  error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Step, e.Err)
}

func (e *ProvisionError) Unwrap() error { return e.Err }
