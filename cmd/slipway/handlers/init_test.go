package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/slipway/internal/config"
)

func testWizardResult() *config.WizardResult {
	return &config.WizardResult{
		ClusterName:     "demo",
		Region:          config.RegionHelsinki,
		ServerType:      config.TypeCX23,
		Nodes:           2,
		ImageRepository: "ghcr.io/acme/demo",
		Chart:           "./charts/demo",
	}
}

func TestInit_Success(t *testing.T) {
	saveAndRestoreFactories(t)

	fileExists = func(string) bool { return false }
	runWizard = func(context.Context) (*config.WizardResult, error) {
		return testWizardResult(), nil
	}

	var savedPath string
	var saved config.Settings
	saveSettings = func(s config.Settings, path string) error {
		saved = s
		savedPath = path
		return nil
	}

	output := captureOutput(func() {
		err := Init(context.Background(), "slipway.yaml")
		require.NoError(t, err)
	})

	assert.Equal(t, "slipway.yaml", savedPath)
	assert.Equal(t, "demo", saved.ClusterName)
	assert.Equal(t, config.RegionHelsinki, saved.Region)
	assert.Equal(t, 2, saved.Nodes)
	assert.Equal(t, "ghcr.io/acme/demo", saved.ImageRepository)
	assert.Equal(t, "./charts/demo", saved.Chart)

	assert.Contains(t, output, "Configuration saved!")
	assert.Contains(t, output, "slipway cluster-up")
	assert.Contains(t, output, "slipway deploy")
}

func TestInit_WarnsOnOverwrite(t *testing.T) {
	saveAndRestoreFactories(t)

	fileExists = func(string) bool { return true }
	runWizard = func(context.Context) (*config.WizardResult, error) {
		return testWizardResult(), nil
	}
	saveSettings = func(config.Settings, string) error { return nil }

	output := captureOutput(func() {
		err := Init(context.Background(), "slipway.yaml")
		require.NoError(t, err)
	})

	assert.Contains(t, output, "already exists and will be overwritten")
}

func TestInit_WizardCanceled(t *testing.T) {
	saveAndRestoreFactories(t)

	fileExists = func(string) bool { return false }
	runWizard = func(context.Context) (*config.WizardResult, error) {
		return nil, errors.New("user aborted")
	}

	var err error
	captureOutput(func() {
		err = Init(context.Background(), "slipway.yaml")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wizard canceled")
}

func TestInit_SaveError(t *testing.T) {
	saveAndRestoreFactories(t)

	fileExists = func(string) bool { return false }
	runWizard = func(context.Context) (*config.WizardResult, error) {
		return testWizardResult(), nil
	}
	saveSettings = func(config.Settings, string) error {
		return errors.New("disk full")
	}

	var err error
	captureOutput(func() {
		err = Init(context.Background(), "slipway.yaml")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write config")
}

func TestPrintInitSuccess(t *testing.T) {
	settings := testWizardResult().ToSettings()

	output := captureOutput(func() {
		printInitSuccess("deploy/slipway.yaml", settings)
	})

	assert.Contains(t, output, "deploy/slipway.yaml")
	assert.Contains(t, output, "demo")
	assert.Contains(t, output, "hel1")
	assert.Contains(t, output, "2 x cx23")
	assert.Contains(t, output, "ghcr.io/acme/demo")
}
