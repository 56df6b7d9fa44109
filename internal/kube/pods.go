package kube

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/duration"
)

// PodInfo is one row of pod status, formatted for display.
type PodInfo struct {
	Name     string
	Ready    string
	Status   string
	Restarts int32
	Age      string
}

// ListPods returns display rows for every pod in the namespace.
func (c *Client) ListPods(ctx context.Context, namespace string) ([]PodInfo, error) {
	pods, err := c.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list pods in %s: %w", namespace, err)
	}

	infos := make([]PodInfo, 0, len(pods.Items))
	for i := range pods.Items {
		infos = append(infos, podInfo(&pods.Items[i]))
	}
	return infos, nil
}

// FindPod returns the best target pod matching the label selector: a ready
// pod if one exists, otherwise a pod that has not terminated.
func (c *Client) FindPod(ctx context.Context, namespace, selector string) (*corev1.Pod, error) {
	pods, err := c.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{
		LabelSelector: selector,
	})
	if err != nil {
		return nil, fmt.Errorf("list pods with selector %q: %w", selector, err)
	}
	if len(pods.Items) == 0 {
		return nil, fmt.Errorf("no pods match %q in namespace %s", selector, namespace)
	}

	var fallback *corev1.Pod
	for i := range pods.Items {
		pod := &pods.Items[i]
		if pod.DeletionTimestamp != nil {
			continue
		}
		if isPodReady(pod) {
			return pod, nil
		}
		if fallback == nil && pod.Status.Phase != corev1.PodFailed && pod.Status.Phase != corev1.PodSucceeded {
			fallback = pod
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	return &pods.Items[0], nil
}

func podInfo(pod *corev1.Pod) PodInfo {
	var ready, restarts int32
	for _, cs := range pod.Status.ContainerStatuses {
		if cs.Ready {
			ready++
		}
		restarts += cs.RestartCount
	}

	age := ""
	if !pod.CreationTimestamp.IsZero() {
		age = duration.HumanDuration(time.Since(pod.CreationTimestamp.Time))
	}

	return PodInfo{
		Name:     pod.Name,
		Ready:    fmt.Sprintf("%d/%d", ready, len(pod.Spec.Containers)),
		Status:   podStatus(pod),
		Restarts: restarts,
		Age:      age,
	}
}

// podStatus reports what kubectl would show in the STATUS column: a
// terminating marker, a container waiting reason, or the phase.
func podStatus(pod *corev1.Pod) string {
	if pod.DeletionTimestamp != nil {
		return "Terminating"
	}
	for _, cs := range pod.Status.ContainerStatuses {
		if cs.State.Waiting != nil && cs.State.Waiting.Reason != "" {
			return cs.State.Waiting.Reason
		}
	}
	return string(pod.Status.Phase)
}

func isPodReady(pod *corev1.Pod) bool {
	if pod.Status.Phase != corev1.PodRunning {
		return false
	}
	for _, cond := range pod.Status.Conditions {
		if cond.Type == corev1.PodReady && cond.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}
