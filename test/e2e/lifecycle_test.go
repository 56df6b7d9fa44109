//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/slipway/cmd/slipway/handlers"
	"github.com/imamik/slipway/internal/config"
	"github.com/imamik/slipway/internal/helm"
	"github.com/imamik/slipway/internal/kube"
	"github.com/imamik/slipway/internal/util/labels"
	"github.com/imamik/slipway/internal/util/naming"
)

// Two real nginx tags so upgrade and rollback move between distinct
// image versions.
const (
	firstTag  = "1.27-alpine"
	secondTag = "1.28-alpine"
)

// currentRelease queries helm for the release under test. Returns the
// raw error so specs can poll for not-found after uninstall.
func currentRelease() (*helm.ReleaseStatus, error) {
	client, err := helm.NewClient(kubeconfigPath, settings.Namespace)
	if err != nil {
		return nil, err
	}
	return client.Status(settings.Release)
}

var _ = Describe("slipway lifecycle", Ordered, func() {
	var serverID int64

	It("provisions the cluster", func() {
		ctx, cancel := context.WithTimeout(suiteCtx, 15*time.Minute)
		defer cancel()

		Expect(handlers.ClusterUp(ctx, configPath, config.Overrides{})).To(Succeed())

		By("writing the kubeconfig")
		Expect(kubeconfigPath).To(BeAnExistingFile())

		By("creating the labeled server")
		server, err := infra.GetServerByName(ctx, naming.ServerNode(clusterName))
		Expect(err).NotTo(HaveOccurred())
		Expect(server).NotTo(BeNil())
		Expect(server.Labels).To(HaveKeyWithValue(labels.KeyCluster, clusterName))
		serverID = server.ID

		By("reporting ready nodes")
		kubeClient, err := kube.NewClient(kubeconfigPath)
		Expect(err).NotTo(HaveOccurred())
		ready, total, err := kubeClient.ReadyNodes(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(settings.Nodes))
		Expect(ready).To(Equal(settings.Nodes))
	})

	It("converges on re-run without replacing the server", func() {
		ctx, cancel := context.WithTimeout(suiteCtx, 5*time.Minute)
		defer cancel()

		Expect(handlers.ClusterUp(ctx, configPath, config.Overrides{})).To(Succeed())

		server, err := infra.GetServerByName(ctx, naming.ServerNode(clusterName))
		Expect(err).NotTo(HaveOccurred())
		Expect(server).NotTo(BeNil())
		Expect(server.ID).To(Equal(serverID))
	})

	It("deploys the app", func() {
		ctx, cancel := context.WithTimeout(suiteCtx, 10*time.Minute)
		defer cancel()

		Expect(handlers.Deploy(ctx, configPath, config.Overrides{Tag: firstTag})).To(Succeed())

		status, err := currentRelease()
		Expect(err).NotTo(HaveOccurred())
		Expect(status.Revision).To(Equal(1))
		Expect(status.Tag).To(Equal(firstTag))
		Expect(status.Status).To(Equal("deployed"))
	})

	It("reports status and pods", func() {
		ctx, cancel := context.WithTimeout(suiteCtx, 2*time.Minute)
		defer cancel()

		Expect(handlers.Status(ctx, configPath, config.Overrides{})).To(Succeed())
		Expect(handlers.Pods(ctx, configPath, config.Overrides{})).To(Succeed())

		kubeClient, err := kube.NewClient(kubeconfigPath)
		Expect(err).NotTo(HaveOccurred())
		pod, err := kubeClient.FindPod(ctx, settings.Namespace, "app.kubernetes.io/instance="+settings.Release)
		Expect(err).NotTo(HaveOccurred())
		Expect(pod.Status.Phase).To(BeEquivalentTo("Running"))
	})

	It("forwards the app port", func() {
		ctx, cancel := context.WithTimeout(suiteCtx, 3*time.Minute)
		defer cancel()
		tunnelCtx, stopTunnel := context.WithCancel(ctx)
		defer stopTunnel()

		done := make(chan error, 1)
		go func() {
			done <- handlers.PortForward(tunnelCtx, configPath, config.Overrides{})
		}()

		By("reaching the app through the tunnel")
		url := fmt.Sprintf("http://127.0.0.1:%d/", settings.LocalPort)
		Eventually(func() error {
			resp, err := http.Get(url)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status %d", resp.StatusCode)
			}
			return nil
		}, time.Minute, 2*time.Second).Should(Succeed())

		By("closing cleanly on cancel")
		stopTunnel()
		Eventually(done, 30*time.Second).Should(Receive(BeNil()))
	})

	It("upgrades to a new tag", func() {
		ctx, cancel := context.WithTimeout(suiteCtx, 10*time.Minute)
		defer cancel()

		Expect(handlers.Deploy(ctx, configPath, config.Overrides{Tag: secondTag})).To(Succeed())

		status, err := currentRelease()
		Expect(err).NotTo(HaveOccurred())
		Expect(status.Revision).To(Equal(2))
		Expect(status.Tag).To(Equal(secondTag))
	})

	It("rolls back to the previous tag", func() {
		ctx, cancel := context.WithTimeout(suiteCtx, 10*time.Minute)
		defer cancel()

		Expect(handlers.Rollback(ctx, configPath, config.Overrides{})).To(Succeed())

		// Helm records a rollback as a new revision pointing at the
		// old values.
		status, err := currentRelease()
		Expect(err).NotTo(HaveOccurred())
		Expect(status.Revision).To(Equal(3))
		Expect(status.Tag).To(Equal(firstTag))
	})

	It("uninstalls the app but keeps the cluster", func() {
		ctx, cancel := context.WithTimeout(suiteCtx, 5*time.Minute)
		defer cancel()

		Expect(handlers.Uninstall(ctx, configPath, config.Overrides{})).To(Succeed())

		By("forgetting the release")
		Eventually(func() bool {
			_, err := currentRelease()
			return helm.IsNotFound(err)
		}, 2*time.Minute, 5*time.Second).Should(BeTrue())

		By("keeping the node up")
		kubeClient, err := kube.NewClient(kubeconfigPath)
		Expect(err).NotTo(HaveOccurred())
		ready, _, err := kubeClient.ReadyNodes(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(ready).To(Equal(settings.Nodes))
	})

	It("destroys the cluster", func() {
		ctx, cancel := context.WithTimeout(suiteCtx, 15*time.Minute)
		defer cancel()

		Expect(handlers.ClusterDown(ctx, configPath, config.Overrides{})).To(Succeed())
		destroyed = true

		By("leaving no labeled servers behind")
		servers, err := infra.GetServersByLabel(ctx, labels.ClusterOnly(clusterName))
		Expect(err).NotTo(HaveOccurred())
		Expect(servers).To(BeEmpty())

		By("deleting the network, firewall, and SSH key")
		network, err := infra.GetNetwork(ctx, naming.Network(clusterName))
		Expect(err).NotTo(HaveOccurred())
		Expect(network).To(BeNil())

		firewall, err := infra.GetFirewall(ctx, naming.Firewall(clusterName))
		Expect(err).NotTo(HaveOccurred())
		Expect(firewall).To(BeNil())

		key, err := infra.GetSSHKey(ctx, naming.SSHKey(clusterName))
		Expect(err).NotTo(HaveOccurred())
		Expect(key).To(BeNil())
	})
})
