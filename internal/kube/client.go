// Package kube wraps the Kubernetes API operations slipway needs against
// the app cluster: namespace lifecycle, readiness waits, pod inspection,
// log following and port forwarding.
package kube

import (
	"fmt"

	"github.com/go-logr/logr"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// Client talks to a single cluster identified by a kubeconfig file.
type Client struct {
	clientset  kubernetes.Interface
	restConfig *rest.Config
	log        logr.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger used for stream progress. The default
// discards everything.
func WithLogger(log logr.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient builds a client from a kubeconfig file.
func NewClient(kubeconfigPath string, opts ...ClientOption) (*Client, error) {
	config, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("build rest config from %s: %w", kubeconfigPath, err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("create clientset: %w", err)
	}

	c := &Client{
		clientset:  clientset,
		restConfig: config,
		log:        logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}
