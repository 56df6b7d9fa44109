// Package helm drives the app release through helm's action API: install
// or upgrade from a local chart, uninstall, rollback, history and status.
// Revision bookkeeping stays in helm's own release storage.
package helm

import (
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"
	"helm.sh/helm/v3/pkg/action"
	"k8s.io/client-go/tools/clientcmd"
)

const actionTimeout = 5 * time.Minute

// Client runs helm actions against one namespace of one cluster.
type Client struct {
	namespace    string
	actionConfig *action.Configuration
	log          logr.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger that receives helm's debug output at V(1).
func WithLogger(log logr.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// WithActionConfig substitutes the action configuration, used by tests to
// run against in-memory release storage.
func WithActionConfig(cfg *action.Configuration) ClientOption {
	return func(c *Client) {
		c.actionConfig = cfg
	}
}

// NewClient builds a client from a kubeconfig file, storing release
// records in the given namespace.
func NewClient(kubeconfigPath, namespace string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		namespace: namespace,
		log:       logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.actionConfig != nil {
		return c, nil
	}

	restConfig, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("build rest config from %s: %w", kubeconfigPath, err)
	}

	getter := &restClientGetter{
		kubeconfigPath: kubeconfigPath,
		namespace:      namespace,
		config:         restConfig,
	}

	actionConfig := new(action.Configuration)
	debugLog := func(format string, v ...interface{}) {
		c.log.V(1).Info(fmt.Sprintf(format, v...))
	}
	if err := actionConfig.Init(getter, namespace, os.Getenv("HELM_DRIVER"), debugLog); err != nil {
		return nil, fmt.Errorf("init helm action config: %w", err)
	}
	c.actionConfig = actionConfig
	return c, nil
}
