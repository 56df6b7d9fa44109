package naming

import "testing"

func TestNames(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"network", Network("demo"), "demo"},
		{"firewall", Firewall("demo"), "demo"},
		{"ssh key", SSHKey("demo"), "demo"},
		{"server node", ServerNode("demo"), "demo-server"},
		{"agent node", AgentNode("demo", 1), "demo-agent-1"},
		{"agent node 2", AgentNode("demo", 2), "demo-agent-2"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}
