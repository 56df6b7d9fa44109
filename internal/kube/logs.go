package kube

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	logTailLines      = int64(10)
	logScannerInitial = 64 * 1024
	logScannerMax     = 1024 * 1024
	logRelistDelay    = 2 * time.Second
	logBackoffInitial = 250 * time.Millisecond
	logBackoffMax     = 2 * time.Second
)

// FollowLogs streams logs from every pod matching the label selector to
// out, one line at a time, until ctx is cancelled. When all streams end
// while ctx is still alive (pods replaced during an upgrade), the pod set
// is listed again and streaming resumes.
func (c *Client) FollowLogs(ctx context.Context, namespace, selector string, out io.Writer) error {
	var mu sync.Mutex

	for first := true; ; first = false {
		pods, err := c.livePods(ctx, namespace, selector)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if len(pods) == 0 {
			if first {
				return fmt.Errorf("no pods match %q in namespace %s", selector, namespace)
			}
			return nil
		}

		prefixed := len(pods) > 1
		g, gctx := errgroup.WithContext(ctx)
		for i := range pods {
			pod := pods[i]
			g.Go(func() error {
				return c.followPodLogs(gctx, pod, prefixed, &mu, out)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(logRelistDelay):
		}
	}
}

func (c *Client) livePods(ctx context.Context, namespace, selector string) ([]*corev1.Pod, error) {
	list, err := c.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{
		LabelSelector: selector,
	})
	if err != nil {
		return nil, fmt.Errorf("list pods with selector %q: %w", selector, err)
	}

	var pods []*corev1.Pod
	for i := range list.Items {
		pod := &list.Items[i]
		if pod.Status.Phase == corev1.PodSucceeded || pod.Status.Phase == corev1.PodFailed {
			continue
		}
		pods = append(pods, pod)
	}
	return pods, nil
}

// followPodLogs streams one pod's logs until the stream ends or ctx is
// cancelled. Streams that are not up yet (container still starting) are
// retried with backoff.
func (c *Client) followPodLogs(ctx context.Context, pod *corev1.Pod, prefixed bool, mu *sync.Mutex, out io.Writer) error {
	tail := logTailLines
	opts := &corev1.PodLogOptions{Follow: true, TailLines: &tail}

	backoff := logBackoffInitial
	for {
		if ctx.Err() != nil {
			return nil
		}

		stream, err := c.clientset.CoreV1().Pods(pod.Namespace).GetLogs(pod.Name, opts).Stream(ctx)
		if err != nil {
			if ctx.Err() != nil || apierrors.IsNotFound(err) {
				return nil
			}
			if isWaitingToStart(err) {
				c.log.V(1).Info("log stream not ready, retrying", "pod", pod.Name, "backoff", backoff.String())
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(backoff):
				}
				if backoff < logBackoffMax {
					backoff *= 2
				}
				continue
			}
			return fmt.Errorf("stream logs for %s: %w", pod.Name, err)
		}

		backoff = logBackoffInitial
		scanner := bufio.NewScanner(stream)
		scanner.Buffer(make([]byte, logScannerInitial), logScannerMax)
		for scanner.Scan() {
			mu.Lock()
			if prefixed {
				fmt.Fprintf(out, "[%s] %s\n", pod.Name, scanner.Text())
			} else {
				fmt.Fprintln(out, scanner.Text())
			}
			mu.Unlock()
		}
		_ = stream.Close()

		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			c.log.V(1).Info("log stream ended", "pod", pod.Name, "error", err.Error())
		}
		return nil
	}
}

// isWaitingToStart matches the BadRequest the apiserver returns while a
// container has not started, e.g. "is waiting to start: ContainerCreating".
func isWaitingToStart(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "is waiting to start") ||
		strings.Contains(msg, "containercreating") ||
		strings.Contains(msg, "podinitializing")
}
