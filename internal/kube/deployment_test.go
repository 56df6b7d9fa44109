package kube

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func testDeployment(replicas, updated, available int32, availableCond bool) *appsv1.Deployment {
	condStatus := corev1.ConditionFalse
	if availableCond {
		condStatus = corev1.ConditionTrue
	}
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: "demo", Namespace: "demo"},
		Spec:       appsv1.DeploymentSpec{Replicas: &replicas},
		Status: appsv1.DeploymentStatus{
			Replicas:          updated,
			UpdatedReplicas:   updated,
			AvailableReplicas: available,
			Conditions: []appsv1.DeploymentCondition{
				{Type: appsv1.DeploymentAvailable, Status: condStatus},
			},
		},
	}
}

func TestIsDeploymentReady(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		deployment *appsv1.Deployment
		want       bool
	}{
		{"all replicas available", testDeployment(2, 2, 2, true), true},
		{"rollout in progress", testDeployment(2, 1, 1, false), false},
		{"available count lags", testDeployment(2, 2, 1, true), false},
		{"condition not yet true", testDeployment(1, 1, 1, false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, isDeploymentReady(tt.deployment))
		})
	}
}

func TestIsDeploymentReady_NilReplicasDefaultsToOne(t *testing.T) {
	t.Parallel()

	d := testDeployment(1, 1, 1, true)
	d.Spec.Replicas = nil
	assert.True(t, isDeploymentReady(d))
}

func TestDeploymentReady(t *testing.T) {
	t.Parallel()
	c := newTestClient(testDeployment(2, 2, 2, true))

	ready, available, desired, err := c.DeploymentReady(context.Background(), "demo", "demo")
	require.NoError(t, err)
	assert.True(t, ready)
	assert.Equal(t, int32(2), available)
	assert.Equal(t, int32(2), desired)
}

func TestDeploymentReady_Missing(t *testing.T) {
	t.Parallel()

	_, _, _, err := newTestClient().DeploymentReady(context.Background(), "demo", "demo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get deployment demo/demo")
}

func TestWaitForDeployment_Ready(t *testing.T) {
	t.Parallel()
	c := newTestClient(testDeployment(1, 1, 1, true))

	err := c.WaitForDeployment(context.Background(), "demo", "demo", 5*time.Second)
	assert.NoError(t, err)
}

func TestWaitForDeployment_Timeout(t *testing.T) {
	t.Parallel()
	c := newTestClient(testDeployment(2, 1, 1, false))

	err := c.WaitForDeployment(context.Background(), "demo", "demo", 100*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not ready within")
}
