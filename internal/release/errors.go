package release

import (
	"errors"
	"fmt"
	"strings"

	"github.com/imamik/slipway/internal/kube"
)

// ErrNoPriorRevision means the release has no earlier revision to roll
// back to.
var ErrNoPriorRevision = errors.New("no prior revision to roll back to")

// ErrRolloutTimeout means the release's deployment never became ready
// within the rollout timeout.
var ErrRolloutTimeout = errors.New("rollout timed out")

// DeployError reports a failed install, upgrade or rollback. For
// rollout timeouts it carries a pod snapshot and the namespace's recent
// events, taken right after the failure.
type DeployError struct {
	Release   string
	Namespace string
	Revision  int
	Err       error

	Pods   []kube.PodInfo
	Events []string
}

// Error implements the error interface.
func (e *DeployError) Error() string {
	if e.Revision > 0 {
		return fmt.Sprintf("deploy %s/%s (revision %d): %v", e.Namespace, e.Release, e.Revision, e.Err)
	}
	return fmt.Sprintf("deploy %s/%s: %v", e.Namespace, e.Release, e.Err)
}

// Unwrap returns the underlying error.
func (e *DeployError) Unwrap() error { return e.Err }

// Diagnostics renders the captured pod snapshot and event tail, or an
// empty string when nothing was captured.
func (e *DeployError) Diagnostics() string {
	if len(e.Pods) == 0 && len(e.Events) == 0 {
		return ""
	}

	var b strings.Builder
	if len(e.Pods) > 0 {
		fmt.Fprintf(&b, "Pods in namespace %s:\n", e.Namespace)
		for _, pod := range e.Pods {
			fmt.Fprintf(&b, "  %s  %s  %s  restarts=%d  age=%s\n",
				pod.Name, pod.Ready, pod.Status, pod.Restarts, pod.Age)
		}
	}
	if len(e.Events) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Recent events:\n")
		for _, line := range e.Events {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	return b.String()
}
