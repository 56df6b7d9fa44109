package kube

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/tools/portforward"
	"k8s.io/client-go/transport/spdy"
)

const portForwardReadyTimeout = 30 * time.Second

// PortForwardOptions names the tunnel endpoints.
type PortForwardOptions struct {
	Namespace  string
	Pod        string
	LocalPort  int // 0 picks a free port
	RemotePort int
}

// PortForwardResult is an established tunnel. ErrCh receives the terminal
// error when the tunnel drops; Stop tears it down.
type PortForwardResult struct {
	LocalPort int
	ErrCh     <-chan error
	Stop      func()
}

// PortForward opens an SPDY tunnel to one pod and returns once it is
// ready to accept connections.
func (c *Client) PortForward(ctx context.Context, opts PortForwardOptions) (*PortForwardResult, error) {
	if opts.Pod == "" || opts.Namespace == "" {
		return nil, errors.New("namespace and pod are required")
	}
	if opts.RemotePort <= 0 {
		return nil, errors.New("remote port must be positive")
	}
	if c.restConfig == nil {
		return nil, errors.New("rest config required for port forwarding")
	}

	pod, err := c.clientset.CoreV1().Pods(opts.Namespace).Get(ctx, opts.Pod, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("get pod %s/%s: %w", opts.Namespace, opts.Pod, err)
	}
	if pod.Status.Phase != corev1.PodRunning {
		return nil, fmt.Errorf("pod %s/%s is not running (phase: %s)", opts.Namespace, opts.Pod, pod.Status.Phase)
	}

	localPort := opts.LocalPort
	if localPort == 0 {
		localPort, err = freePort()
		if err != nil {
			return nil, err
		}
	}

	path := fmt.Sprintf("/api/v1/namespaces/%s/pods/%s/portforward", opts.Namespace, opts.Pod)
	hostPort := c.restConfig.Host
	if u, err := url.Parse(c.restConfig.Host); err == nil && u.Host != "" {
		hostPort = u.Host
	}
	serverURL := url.URL{Scheme: "https", Path: path, Host: hostPort}

	transport, upgrader, err := spdy.RoundTripperFor(c.restConfig)
	if err != nil {
		return nil, fmt.Errorf("create spdy transport: %w", err)
	}
	dialer := spdy.NewDialer(upgrader, &http.Client{Transport: transport}, http.MethodPost, &serverURL)

	readyChan := make(chan struct{})
	errChan := make(chan error, 1)
	stopChan := make(chan struct{})

	ports := []string{fmt.Sprintf("%d:%d", localPort, opts.RemotePort)}
	fw, err := portforward.New(dialer, ports, stopChan, readyChan, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create port forwarder: %w", err)
	}

	go func() {
		errChan <- fw.ForwardPorts()
	}()

	select {
	case <-readyChan:
		return &PortForwardResult{
			LocalPort: localPort,
			ErrCh:     errChan,
			Stop:      func() { close(stopChan) },
		}, nil
	case err := <-errChan:
		return nil, fmt.Errorf("port forward to %s/%s: %w", opts.Namespace, opts.Pod, err)
	case <-ctx.Done():
		close(stopChan)
		return nil, fmt.Errorf("port forward canceled: %w", ctx.Err())
	case <-time.After(portForwardReadyTimeout):
		close(stopChan)
		return nil, errors.New("port forward not ready within 30s")
	}
}

func freePort() (int, error) {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		return 0, fmt.Errorf("find free port: %w", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	_ = listener.Close()
	return port, nil
}
