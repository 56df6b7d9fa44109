package hcloud

import (
	"github.com/go-logr/logr"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// RealClient implements InfrastructureManager against the live API.
type RealClient struct {
	client   *hcloud.Client
	timeouts Timeouts
	log      logr.Logger
}

var _ InfrastructureManager = (*RealClient)(nil)

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithTimeouts overrides the operation timeouts.
func WithTimeouts(t Timeouts) ClientOption {
	return func(c *RealClient) {
		c.timeouts = t
	}
}

// WithLogger sets the logger used for cleanup progress. The default
// discards everything.
func WithLogger(log logr.Logger) ClientOption {
	return func(c *RealClient) {
		c.log = log
	}
}

// WithHCloudClient substitutes the underlying API client, used by tests
// to point at a local server.
func WithHCloudClient(client *hcloud.Client) ClientOption {
	return func(c *RealClient) {
		c.client = client
	}
}

// NewRealClient creates a client authenticated with the given API token.
func NewRealClient(token string, opts ...ClientOption) *RealClient {
	c := &RealClient{
		timeouts: LoadTimeouts(),
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = hcloud.NewClient(
			hcloud.WithToken(token),
			hcloud.WithApplication("slipway", ""),
		)
	}
	return c
}
