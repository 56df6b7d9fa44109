package ssh

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/imamik/slipway/internal/util/retry"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 10 * time.Second
	defaultAttempts    = 60
	defaultRetryDelay  = 5 * time.Second
	defaultMaxDelay    = 10 * time.Second
)

// Config holds the connection parameters for one node.
type Config struct {
	Host       string
	Port       int
	User       string
	PrivateKey []byte

	// DialTimeout bounds the TCP connect of a single attempt.
	DialTimeout time.Duration

	// RetryAttempts is the number of connection attempts, including
	// the first. Fresh servers refuse connections until cloud-init
	// has brought sshd up.
	RetryAttempts int

	// RetryDelay is the delay before the first reconnect.
	RetryDelay time.Duration

	// HostKeyCallback verifies the host key. The default accepts any
	// key, which fits the throwaway servers slipway creates and
	// destroys itself.
	HostKeyCallback ssh.HostKeyCallback
}

// Client executes commands on a remote node. The private key is parsed
// once at construction; connections are dialed per call.
type Client struct {
	config Config
	signer ssh.Signer
}

// NewClient validates the configuration and parses the private key.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("host required")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("user required")
	}
	if len(cfg.PrivateKey) == 0 {
		return nil, fmt.Errorf("private key required")
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.RetryAttempts == 0 {
		cfg.RetryAttempts = defaultAttempts
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.HostKeyCallback == nil {
		cfg.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // throwaway servers, see Config
	}

	signer, err := ssh.ParsePrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	return &Client{config: cfg, signer: signer}, nil
}

// Execute runs the command and returns its combined stdout and stderr.
func (c *Client) Execute(ctx context.Context, command string) (string, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = client.Close() }()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("open session on %s: %w", c.config.Host, err)
	}
	defer func() { _ = session.Close() }()

	output, err := session.CombinedOutput(command)
	if err != nil {
		return string(output), fmt.Errorf("run %q on %s: %w (output: %s)",
			command, c.config.Host, err, string(output))
	}
	return string(output), nil
}

// Output runs the command and returns its stdout only. Use this when
// the result is parsed, so stderr noise cannot corrupt it.
func (c *Client) Output(ctx context.Context, command string) (string, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = client.Close() }()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("open session on %s: %w", c.config.Host, err)
	}
	defer func() { _ = session.Close() }()

	output, err := session.Output(command)
	if err != nil {
		return "", fmt.Errorf("run %q on %s: %w", command, c.config.Host, err)
	}
	return string(output), nil
}

// connect dials the node, retrying while sshd is still coming up.
func (c *Client) connect(ctx context.Context) (*ssh.Client, error) {
	clientConfig := &ssh.ClientConfig{
		User:            c.config.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(c.signer)},
		HostKeyCallback: c.config.HostKeyCallback,
		Timeout:         c.config.DialTimeout,
	}

	addr := fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)
	var client *ssh.Client

	err := retry.Do(ctx, func() error {
		var dialErr error
		client, dialErr = ssh.Dial("tcp", addr, clientConfig)
		return dialErr
	},
		retry.Attempts(c.config.RetryAttempts),
		retry.Delay(c.config.RetryDelay),
		retry.MaxDelay(defaultMaxDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	return client, nil
}
