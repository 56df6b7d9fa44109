package helm

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/release"
	"helm.sh/helm/v3/pkg/storage/driver"
)

// Release status values as helm's storage records them.
const (
	StatusDeployed   = "deployed"
	StatusSuperseded = "superseded"
	StatusFailed     = "failed"
)

const historyMax = 20

// Revision is one entry of a release's history.
type Revision struct {
	Revision    int
	Status      string
	Chart       string
	AppVersion  string
	Updated     time.Time
	Description string
}

// ReleaseStatus describes the current state of a release.
type ReleaseStatus struct {
	Name       string
	Namespace  string
	Revision   int
	Status     string
	Chart      string
	AppVersion string

	// Tag is image.tag from the release's values, when set.
	Tag string

	Updated time.Time
	Notes   string
}

// IsNotFound reports whether err means the release has no history.
func IsNotFound(err error) bool {
	return errors.Is(err, driver.ErrReleaseNotFound)
}

// Uninstall removes the release. Returns false without error when it was
// not installed.
func (c *Client) Uninstall(releaseName string) (bool, error) {
	uninstall := action.NewUninstall(c.actionConfig)
	uninstall.Wait = true
	uninstall.Timeout = actionTimeout

	_, err := uninstall.Run(releaseName)
	if err != nil {
		if errors.Is(err, driver.ErrReleaseNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("helm uninstall %s: %w", releaseName, err)
	}
	return true, nil
}

// Rollback reverts the release to the given revision and waits for the
// restored resources.
func (c *Client) Rollback(releaseName string, revision int) error {
	rollback := action.NewRollback(c.actionConfig)
	rollback.Version = revision
	rollback.Wait = true
	rollback.Timeout = actionTimeout

	c.log.Info("rolling back release", "release", releaseName, "revision", revision)
	if err := rollback.Run(releaseName); err != nil {
		return fmt.Errorf("helm rollback %s to revision %d: %w", releaseName, revision, err)
	}
	return nil
}

// History returns the release's revisions, oldest first. A release
// without history surfaces an error matched by IsNotFound.
func (c *Client) History(releaseName string) ([]Revision, error) {
	history := action.NewHistory(c.actionConfig)
	history.Max = historyMax

	releases, err := history.Run(releaseName)
	if err != nil {
		return nil, fmt.Errorf("release %s history: %w", releaseName, err)
	}

	revisions := make([]Revision, 0, len(releases))
	for _, rel := range releases {
		revisions = append(revisions, revisionFromRelease(rel))
	}
	// The storage driver does not guarantee an order.
	sort.Slice(revisions, func(i, j int) bool {
		return revisions[i].Revision < revisions[j].Revision
	})
	return revisions, nil
}

// Status reports the release's current revision and chart.
func (c *Client) Status(releaseName string) (*ReleaseStatus, error) {
	get := action.NewGet(c.actionConfig)
	rel, err := get.Run(releaseName)
	if err != nil {
		return nil, fmt.Errorf("get release %s: %w", releaseName, err)
	}

	status := &ReleaseStatus{
		Name:      rel.Name,
		Namespace: rel.Namespace,
		Revision:  rel.Version,
	}
	if rel.Info != nil {
		status.Status = rel.Info.Status.String()
		status.Updated = rel.Info.LastDeployed.Time
		status.Notes = rel.Info.Notes
	}
	if rel.Chart != nil && rel.Chart.Metadata != nil {
		status.Chart = fmt.Sprintf("%s-%s", rel.Chart.Metadata.Name, rel.Chart.Metadata.Version)
		status.AppVersion = rel.Chart.Metadata.AppVersion
	}
	if image, ok := rel.Config["image"].(map[string]interface{}); ok {
		if tag, ok := image["tag"].(string); ok {
			status.Tag = tag
		}
	}
	return status, nil
}

func revisionFromRelease(rel *release.Release) Revision {
	if rel == nil {
		return Revision{}
	}
	rev := Revision{Revision: rel.Version}
	if rel.Info != nil {
		rev.Status = rel.Info.Status.String()
		rev.Updated = rel.Info.LastDeployed.Time
		rev.Description = rel.Info.Description
	}
	if rel.Chart != nil && rel.Chart.Metadata != nil {
		rev.Chart = fmt.Sprintf("%s-%s", rel.Chart.Metadata.Name, rel.Chart.Metadata.Version)
		rev.AppVersion = rel.Chart.Metadata.AppVersion
	}
	return rev
}
