package helm

import (
	"context"
	"errors"
	"fmt"

	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/release"
	"helm.sh/helm/v3/pkg/storage/driver"
)

const upgradeMaxHistory = 10

// InstallOrUpgrade installs the chart at chartPath as releaseName, or
// upgrades it when release history already exists. The rollout wait
// happens at the caller, so neither action blocks on resource readiness.
func (c *Client) InstallOrUpgrade(ctx context.Context, releaseName, chartPath string, values map[string]interface{}) (*release.Release, error) {
	history := action.NewHistory(c.actionConfig)
	history.Max = 1
	_, err := history.Run(releaseName)
	switch {
	case errors.Is(err, driver.ErrReleaseNotFound):
		return c.install(ctx, releaseName, chartPath, values)
	case err != nil:
		return nil, fmt.Errorf("check release %s history: %w", releaseName, err)
	default:
		return c.upgrade(ctx, releaseName, chartPath, values)
	}
}

func (c *Client) install(ctx context.Context, releaseName, chartPath string, values map[string]interface{}) (*release.Release, error) {
	chrt, err := c.loadChart(chartPath)
	if err != nil {
		return nil, err
	}

	install := action.NewInstall(c.actionConfig)
	install.ReleaseName = releaseName
	install.Namespace = c.namespace
	install.CreateNamespace = true
	install.Wait = false
	install.Timeout = actionTimeout

	c.log.Info("installing release", "release", releaseName, "chart", chrt.Name())
	rel, err := install.RunWithContext(ctx, chrt, values)
	if err != nil {
		return nil, fmt.Errorf("helm install %s: %w", releaseName, err)
	}
	return rel, nil
}

func (c *Client) upgrade(ctx context.Context, releaseName, chartPath string, values map[string]interface{}) (*release.Release, error) {
	chrt, err := c.loadChart(chartPath)
	if err != nil {
		return nil, err
	}

	upgrade := action.NewUpgrade(c.actionConfig)
	upgrade.Namespace = c.namespace
	upgrade.Wait = false
	upgrade.Timeout = actionTimeout
	upgrade.MaxHistory = upgradeMaxHistory

	c.log.Info("upgrading release", "release", releaseName, "chart", chrt.Name())
	rel, err := upgrade.RunWithContext(ctx, releaseName, chrt, values)
	if err != nil {
		return nil, fmt.Errorf("helm upgrade %s: %w", releaseName, err)
	}
	return rel, nil
}

func (c *Client) loadChart(chartPath string) (*chart.Chart, error) {
	chrt, err := loader.Load(chartPath)
	if err != nil {
		return nil, fmt.Errorf("load chart %s: %w", chartPath, err)
	}
	return chrt, nil
}
