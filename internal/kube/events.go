package kube

import (
	"context"
	"fmt"
	"sort"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// RecentEvents returns the newest events in the namespace as display
// lines, oldest first, at most limit of them.
func (c *Client) RecentEvents(ctx context.Context, namespace string, limit int) ([]string, error) {
	events, err := c.clientset.CoreV1().Events(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list events in %s: %w", namespace, err)
	}

	items := events.Items
	sort.SliceStable(items, func(i, j int) bool {
		return eventTime(&items[i]).Before(eventTime(&items[j]))
	})
	if limit > 0 && len(items) > limit {
		items = items[len(items)-limit:]
	}

	lines := make([]string, 0, len(items))
	for i := range items {
		e := &items[i]
		lines = append(lines, fmt.Sprintf("%s %s %s/%s: %s",
			e.Type, e.Reason, e.InvolvedObject.Kind, e.InvolvedObject.Name, e.Message))
	}
	return lines, nil
}

func eventTime(e *corev1.Event) time.Time {
	if !e.LastTimestamp.IsZero() {
		return e.LastTimestamp.Time
	}
	if !e.EventTime.IsZero() {
		return e.EventTime.Time
	}
	return e.CreationTimestamp.Time
}
