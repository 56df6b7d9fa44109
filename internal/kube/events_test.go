package kube

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func testEvent(name, reason, message string, age time.Duration) *corev1.Event {
	return &corev1.Event{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "demo"},
		Type:       corev1.EventTypeWarning,
		Reason:     reason,
		Message:    message,
		InvolvedObject: corev1.ObjectReference{
			Kind:      "Pod",
			Name:      "demo-abc",
			Namespace: "demo",
		},
		LastTimestamp: metav1.NewTime(time.Now().Add(-age)),
	}
}

func TestRecentEvents(t *testing.T) {
	t.Parallel()
	c := newTestClient(
		testEvent("e1", "BackOff", "Back-off restarting failed container", time.Minute),
		testEvent("e2", "Failed", "Failed to pull image", 3*time.Minute),
	)

	lines, err := c.RecentEvents(context.Background(), "demo", 10)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	// Oldest first.
	assert.Contains(t, lines[0], "Failed to pull image")
	assert.Contains(t, lines[1], "Back-off restarting failed container")
	assert.Contains(t, lines[1], "Warning BackOff Pod/demo-abc")
}

func TestRecentEvents_Limit(t *testing.T) {
	t.Parallel()
	c := newTestClient(
		testEvent("e1", "BackOff", "oldest", 3*time.Minute),
		testEvent("e2", "BackOff", "middle", 2*time.Minute),
		testEvent("e3", "BackOff", "newest", time.Minute),
	)

	lines, err := c.RecentEvents(context.Background(), "demo", 2)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "middle")
	assert.Contains(t, lines[1], "newest")
}

func TestRecentEvents_Empty(t *testing.T) {
	t.Parallel()

	lines, err := newTestClient().RecentEvents(context.Background(), "demo", 10)
	require.NoError(t, err)
	assert.Empty(t, lines)
}
