package provision

import "time"

// Phase is where a cluster stands in its lifecycle.
type Phase string

const (
	PhaseAbsent        Phase = "absent"
	PhaseProvisioning  Phase = "provisioning"
	PhaseReady         Phase = "ready"
	PhaseDestroying    Phase = "destroying"
	PhasePartialFailed Phase = "partial-failed"
)

// State is the working state of one cluster, persisted across runs so a
// failed converge can resume and a destroy knows what it is removing.
type State struct {
	Phase    Phase  `yaml:"phase"`
	Cluster  string `yaml:"cluster,omitempty"`
	ServerIP string `yaml:"serverIP,omitempty"`

	// Token is the k3s join token shared by all nodes of the cluster.
	Token string `yaml:"token,omitempty"`

	Resources Resources `yaml:"resources,omitempty"`
	UpdatedAt time.Time `yaml:"updatedAt,omitempty"`
}

// Resources records the cloud resource IDs the converge created.
type Resources struct {
	SSHKeyID   int64          `yaml:"sshKeyID,omitempty"`
	NetworkID  int64          `yaml:"networkID,omitempty"`
	FirewallID int64          `yaml:"firewallID,omitempty"`
	Servers    []ServerRecord `yaml:"servers,omitempty"`
}

// ServerRecord is one provisioned server.
type ServerRecord struct {
	Name     string `yaml:"name"`
	ID       int64  `yaml:"id"`
	Role     string `yaml:"role"`
	PublicIP string `yaml:"publicIP,omitempty"`
}

// NewState returns the state of a cluster that does not exist yet.
func NewState() *State {
	return &State{Phase: PhaseAbsent}
}

// UpsertServer records a server, replacing an earlier record of the
// same name.
func (s *State) UpsertServer(rec ServerRecord) {
	for i, existing := range s.Resources.Servers {
		if existing.Name == rec.Name {
			s.Resources.Servers[i] = rec
			return
		}
	}
	s.Resources.Servers = append(s.Resources.Servers, rec)
}
