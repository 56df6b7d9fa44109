package provision

import (
	"context"
	"errors"
	"fmt"

	hcloud_internal "github.com/imamik/slipway/internal/platform/hcloud"
	"github.com/imamik/slipway/internal/util/labels"
	"github.com/imamik/slipway/internal/util/naming"
)

// Converge brings the cloud infrastructure to the planned shape and
// returns the cluster's admin kubeconfig. Every resource is ensured by
// name, so re-running after a failure resumes where it stopped.
func (p *HCloudProvisioner) Converge(ctx context.Context, plan Plan) (*Result, error) {
	plan = plan.withDefaults()
	if err := plan.validate(); err != nil {
		return nil, &ProvisionError{Op: "converge", Step: "plan", Err: err}
	}

	st, err := p.store.Load(ctx)
	if err != nil {
		return nil, &ProvisionError{Op: "converge", Step: "load state", Err: err}
	}
	if st.Cluster != "" && st.Cluster != plan.ClusterName {
		return nil, &ProvisionError{Op: "converge", Step: "load state",
			Err: fmt.Errorf("state belongs to cluster %q", st.Cluster)}
	}
	if err := p.store.Claim(ctx, plan.ClusterName); err != nil {
		return nil, &ProvisionError{Op: "converge", Step: "claim state bucket", Err: err}
	}

	st.Cluster = plan.ClusterName
	st.Phase = PhaseProvisioning
	if st.Token == "" {
		token, err := newToken()
		if err != nil {
			return nil, &ProvisionError{Op: "converge", Step: "generate token", Err: err}
		}
		st.Token = token
	}
	if err := p.store.Save(ctx, st); err != nil {
		return nil, &ProvisionError{Op: "converge", Step: "save state", Err: err}
	}

	result, err := p.converge(ctx, plan, st)
	if err != nil {
		st.Phase = PhasePartialFailed
		if saveErr := p.store.Save(ctx, st); saveErr != nil {
			p.log.Error(saveErr, "save partial-failed state")
		}
		return nil, err
	}

	st.Phase = PhaseReady
	if err := p.store.Save(ctx, st); err != nil {
		return nil, &ProvisionError{Op: "converge", Step: "save state", Err: err}
	}
	return result, nil
}

func (p *HCloudProvisioner) converge(ctx context.Context, plan Plan, st *State) (*Result, error) {
	fail := func(phase, step string, err error) (*Result, error) {
		p.event(EventPhaseFailed, phase, "", step+" failed")
		return nil, &ProvisionError{Op: "converge", Step: step, Err: err}
	}

	cluster := plan.ClusterName
	p.event(EventPhaseStarted, phaseInfrastructure, "", "reconciling infrastructure")

	pair, err := p.store.EnsureKeyPair()
	if err != nil {
		return fail(phaseInfrastructure, "ensure key pair", err)
	}
	sshKey, err := p.infra.EnsureSSHKey(ctx, naming.SSHKey(cluster), string(pair.Public), labels.ForCluster(cluster))
	if err != nil {
		return fail(phaseInfrastructure, "ensure ssh key", err)
	}
	st.Resources.SSHKeyID = sshKey.ID
	p.event(EventResourceCreated, phaseInfrastructure, naming.SSHKey(cluster), "ssh key ready")

	network, err := p.infra.EnsureNetwork(ctx, naming.Network(cluster), networkCIDR, labels.ForCluster(cluster))
	if err != nil {
		return fail(phaseInfrastructure, "ensure network", err)
	}
	if err := p.infra.EnsureSubnet(ctx, network, subnetCIDR, networkZone); err != nil {
		return fail(phaseInfrastructure, "ensure subnet", err)
	}
	st.Resources.NetworkID = network.ID
	p.event(EventResourceCreated, phaseInfrastructure, naming.Network(cluster), "network ready")

	firewall, err := p.infra.EnsureFirewall(ctx, naming.Firewall(cluster), ingressRules(), labels.ForCluster(cluster), labels.Selector(cluster))
	if err != nil {
		return fail(phaseInfrastructure, "ensure firewall", err)
	}
	st.Resources.FirewallID = firewall.ID
	p.event(EventResourceCreated, phaseInfrastructure, naming.Firewall(cluster), "firewall ready")
	p.event(EventPhaseCompleted, phaseInfrastructure, "", "infrastructure ready")

	p.event(EventPhaseStarted, phaseCompute, "", fmt.Sprintf("reconciling %d node(s)", plan.Nodes))
	server, err := p.ensureServer(ctx, plan, serverSpec{
		name:      naming.ServerNode(cluster),
		role:      labels.RoleServer,
		userData:  serverUserData(st.Token),
		networkID: network.ID,
	})
	if err != nil {
		return fail(phaseCompute, "ensure server node", err)
	}
	serverIP := hcloud_internal.ServerIPv4(server)
	if serverIP == "" {
		return fail(phaseCompute, "ensure server node", errors.New("server has no public IPv4"))
	}
	st.ServerIP = serverIP
	st.UpsertServer(ServerRecord{
		Name:     server.Name,
		ID:       server.ID,
		Role:     labels.RoleServer,
		PublicIP: serverIP,
	})
	p.observer.Progress(phaseCompute, 1, plan.Nodes)

	for i := 1; i < plan.Nodes; i++ {
		name := naming.AgentNode(cluster, i)
		agent, err := p.ensureServer(ctx, plan, serverSpec{
			name:      name,
			role:      labels.RoleAgent,
			userData:  agentUserData(serverIP, st.Token),
			networkID: network.ID,
		})
		if err != nil {
			return fail(phaseCompute, fmt.Sprintf("ensure agent node %s", name), err)
		}
		st.UpsertServer(ServerRecord{
			Name:     agent.Name,
			ID:       agent.ID,
			Role:     labels.RoleAgent,
			PublicIP: hcloud_internal.ServerIPv4(agent),
		})
		p.observer.Progress(phaseCompute, i+1, plan.Nodes)
	}
	p.event(EventPhaseCompleted, phaseCompute, "", "nodes ready")

	p.event(EventPhaseStarted, phaseBootstrap, "", "fetching cluster credentials")
	kubeconfig, err := p.fetchKubeconfig(ctx, serverIP, pair.Private)
	if err != nil {
		return fail(phaseBootstrap, "fetch kubeconfig", err)
	}
	p.event(EventPhaseCompleted, phaseBootstrap, "", "cluster credentials ready")

	return &Result{Kubeconfig: kubeconfig, ServerIP: serverIP}, nil
}
