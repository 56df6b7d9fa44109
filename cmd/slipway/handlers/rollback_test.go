package handlers

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/slipway/internal/config"
	"github.com/imamik/slipway/internal/release"
)

func TestRollback_Success(t *testing.T) {
	saveAndRestoreFactories(t)

	stubResolve(testSettings())
	fileExists = func(string) bool { return true }

	fake := &fakeReleaseManager{
		rollbackReport: &release.RollbackReport{Release: "app", From: 3, To: 2},
	}
	useReleaseManager(fake)

	output := captureOutput(func() {
		err := Rollback(context.Background(), "", config.Overrides{})
		require.NoError(t, err)
	})

	assert.Equal(t, 1, fake.rollbackCalls)
	assert.Contains(t, output, "Rolled back app: revision 3 -> 2")
	assert.Contains(t, output, "slipway status")
}

func TestRollback_NoPriorRevision(t *testing.T) {
	saveAndRestoreFactories(t)

	stubResolve(testSettings())
	fileExists = func(string) bool { return true }

	fake := &fakeReleaseManager{
		rollbackErr: &release.DeployError{
			Release:   "app",
			Namespace: "app",
			Err:       fmt.Errorf("first deploy: %w", release.ErrNoPriorRevision),
		},
	}
	useReleaseManager(fake)

	err := Rollback(context.Background(), "", config.Overrides{})
	require.Error(t, err)
	assert.ErrorIs(t, err, release.ErrNoPriorRevision)
}

func TestRollback_MissingKubeconfig(t *testing.T) {
	saveAndRestoreFactories(t)

	stubResolve(testSettings())
	fileExists = func(string) bool { return false }

	err := Rollback(context.Background(), "", config.Overrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 'slipway cluster-up' first")
}
