package kube

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
)

const nodePollInterval = 5 * time.Second

// ReadyNodes returns how many nodes report Ready, and how many exist.
func (c *Client) ReadyNodes(ctx context.Context) (ready, total int, err error) {
	nodes, err := c.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return 0, 0, fmt.Errorf("list nodes: %w", err)
	}

	for i := range nodes.Items {
		if isNodeReady(&nodes.Items[i]) {
			ready++
		}
	}
	return ready, len(nodes.Items), nil
}

// WaitForNodesReady polls until at least want nodes are Ready.
func (c *Client) WaitForNodesReady(ctx context.Context, want int, timeout time.Duration) error {
	err := wait.PollUntilContextTimeout(ctx, nodePollInterval, timeout, true, func(ctx context.Context) (bool, error) {
		ready, _, err := c.ReadyNodes(ctx)
		if err != nil {
			// API server may still be settling right after bootstrap.
			c.log.V(1).Info("node poll failed, retrying", "error", err.Error())
			return false, nil
		}
		return ready >= want, nil
	})
	if err != nil {
		return fmt.Errorf("%d node(s) not ready within %s: %w", want, timeout, err)
	}
	return nil
}

func isNodeReady(node *corev1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady && cond.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}
