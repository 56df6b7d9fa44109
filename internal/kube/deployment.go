package kube

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
)

const deploymentPollInterval = 5 * time.Second

// WaitForDeployment polls until the deployment has all replicas updated
// and available.
func (c *Client) WaitForDeployment(ctx context.Context, namespace, name string, timeout time.Duration) error {
	err := wait.PollUntilContextTimeout(ctx, deploymentPollInterval, timeout, true, func(ctx context.Context) (bool, error) {
		deployment, err := c.clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			// The deployment may not exist yet right after install.
			return false, nil
		}
		return isDeploymentReady(deployment), nil
	})
	if err != nil {
		return fmt.Errorf("deployment %s/%s not ready within %s: %w", namespace, name, timeout, err)
	}
	return nil
}

// DeploymentReady reports whether the deployment exists and has all
// replicas available, plus the ready/desired counts for display.
func (c *Client) DeploymentReady(ctx context.Context, namespace, name string) (ready bool, available, desired int32, err error) {
	deployment, err := c.clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return false, 0, 0, fmt.Errorf("get deployment %s/%s: %w", namespace, name, err)
	}
	return isDeploymentReady(deployment), deployment.Status.AvailableReplicas, deploymentReplicas(deployment), nil
}

func isDeploymentReady(deployment *appsv1.Deployment) bool {
	replicas := deploymentReplicas(deployment)
	if deployment.Status.UpdatedReplicas != replicas {
		return false
	}
	if deployment.Status.Replicas != replicas {
		return false
	}
	if deployment.Status.AvailableReplicas != replicas {
		return false
	}

	for _, condition := range deployment.Status.Conditions {
		if condition.Type == appsv1.DeploymentAvailable &&
			condition.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}

func deploymentReplicas(deployment *appsv1.Deployment) int32 {
	if deployment.Spec.Replicas != nil {
		return *deployment.Spec.Replicas
	}
	return 1
}
