package hcloud

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/hetznercloud/hcloud-go/v2/hcloud/schema"
)

func TestCleanupError(t *testing.T) {
	t.Parallel()
	t.Run("single error", func(t *testing.T) {
		t.Parallel()
		ce := &CleanupError{}
		ce.Add(errors.New("test error"))

		if !ce.HasErrors() {
			t.Error("expected HasErrors() to return true")
		}
		if ce.Error() != "test error" {
			t.Errorf("expected 'test error', got %q", ce.Error())
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		t.Parallel()
		ce := &CleanupError{}
		ce.Add(errors.New("error 1"))
		ce.Add(errors.New("error 2"))

		errStr := ce.Error()
		if errStr != "cleanup encountered 2 errors: [error 1 error 2]" {
			t.Errorf("unexpected error message: %q", errStr)
		}
	})

	t.Run("no errors", func(t *testing.T) {
		t.Parallel()
		ce := &CleanupError{}
		if ce.HasErrors() {
			t.Error("expected HasErrors() to return false")
		}
	})

	t.Run("add nil error", func(t *testing.T) {
		t.Parallel()
		ce := &CleanupError{}
		ce.Add(nil)
		if ce.HasErrors() {
			t.Error("adding nil should not create an error")
		}
	})

	t.Run("unwrap single error", func(t *testing.T) {
		t.Parallel()
		original := errors.New("original error")
		ce := &CleanupError{}
		ce.Add(original)

		if !errors.Is(ce.Unwrap(), original) {
			t.Error("Unwrap should return the original error")
		}
	})

	t.Run("unwrap multiple errors", func(t *testing.T) {
		t.Parallel()
		err1 := errors.New("first")
		err2 := errors.New("second")
		ce := &CleanupError{}
		ce.Add(err1)
		ce.Add(err2)

		unwrapped := ce.Unwrap()
		if !errors.Is(unwrapped, err1) {
			t.Error("expected Unwrap result to contain first error")
		}
		if !errors.Is(unwrapped, err2) {
			t.Error("expected Unwrap result to contain second error")
		}
	})
}

func TestGetResourceInfo(t *testing.T) {
	t.Parallel()

	if info := getResourceInfo(&hcloud.Server{ID: 1, Name: "server-1"}); info.Name != "server-1" || info.ID != 1 {
		t.Errorf("server: got %+v", info)
	}
	if info := getResourceInfo(&hcloud.Firewall{ID: 2, Name: "fw-1"}); info.Name != "fw-1" || info.ID != 2 {
		t.Errorf("firewall: got %+v", info)
	}
	if info := getResourceInfo(&hcloud.Network{ID: 3, Name: "net-1"}); info.Name != "net-1" || info.ID != 3 {
		t.Errorf("network: got %+v", info)
	}
	if info := getResourceInfo(&hcloud.SSHKey{ID: 4, Name: "key-1"}); info.Name != "key-1" || info.ID != 4 {
		t.Errorf("ssh key: got %+v", info)
	}
}

func TestBuildLabelSelector(t *testing.T) {
	t.Parallel()

	if got := buildLabelSelector(nil); got != "" {
		t.Errorf("expected empty selector for nil labels, got %q", got)
	}
	if got := buildLabelSelector(map[string]string{}); got != "" {
		t.Errorf("expected empty selector for empty labels, got %q", got)
	}
	if got := buildLabelSelector(map[string]string{"cluster": "test"}); got != "cluster=test" {
		t.Errorf("expected 'cluster=test', got %q", got)
	}

	// Map order is unspecified, so check parts.
	got := buildLabelSelector(map[string]string{"a": "1", "b": "2"})
	parts := strings.Split(got, ",")
	if len(parts) != 2 {
		t.Fatalf("expected 2 selector parts, got %q", got)
	}
	seen := map[string]bool{}
	for _, p := range parts {
		seen[p] = true
	}
	if !seen["a=1"] || !seen["b=2"] {
		t.Errorf("unexpected selector %q", got)
	}
}

// TestRealClient_CleanupByLabel_Order verifies the dependency order:
// servers are removed before firewalls, firewalls before networks, and
// networks before SSH keys.
func TestRealClient_CleanupByLabel_Order(t *testing.T) {
	t.Parallel()
	ts := newTestServer()
	defer ts.close()

	var mu sync.Mutex
	var order []string
	serversGone := false

	recordDelete := func(kind string) {
		mu.Lock()
		order = append(order, kind)
		mu.Unlock()
	}

	ts.handleFunc("/servers", func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		gone := serversGone
		mu.Unlock()
		if gone {
			jsonResponse(w, http.StatusOK, schema.ServerListResponse{})
			return
		}
		jsonResponse(w, http.StatusOK, schema.ServerListResponse{
			Servers: []schema.Server{{ID: 10, Name: "test-1"}},
		})
	})
	ts.handleFunc("/servers/10", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			mu.Lock()
			serversGone = true
			mu.Unlock()
			recordDelete("server")
			jsonResponse(w, http.StatusOK, schema.ServerDeleteResponse{
				Action: schema.Action{ID: 1, Status: "success"},
			})
		}
	})
	ts.handleFunc("/firewalls", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.FirewallListResponse{
			Firewalls: []schema.Firewall{{ID: 20, Name: "test-fw"}},
		})
	})
	ts.handleFunc("/firewalls/20", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			recordDelete("firewall")
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ts.handleFunc("/networks", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.NetworkListResponse{
			Networks: []schema.Network{{ID: 30, Name: "test-net"}},
		})
	})
	ts.handleFunc("/networks/30", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			recordDelete("network")
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ts.handleFunc("/ssh_keys", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.SSHKeyListResponse{
			SSHKeys: []schema.SSHKey{{ID: 40, Name: "test-key"}},
		})
	})
	ts.handleFunc("/ssh_keys/40", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			recordDelete("ssh key")
			w.WriteHeader(http.StatusNoContent)
		}
	})

	client := ts.realClient()

	if err := client.CleanupByLabel(context.Background(), map[string]string{"cluster": "test"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"server", "firewall", "network", "ssh key"}
	if len(order) != len(want) {
		t.Fatalf("expected %d deletions, got %v", len(want), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected deletion order %v, got %v", want, order)
		}
	}
}

func TestRealClient_CleanupByLabel_EmptyCloud(t *testing.T) {
	t.Parallel()
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/servers", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.ServerListResponse{})
	})
	ts.handleFunc("/firewalls", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.FirewallListResponse{})
	})
	ts.handleFunc("/networks", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.NetworkListResponse{})
	})
	ts.handleFunc("/ssh_keys", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.SSHKeyListResponse{})
	})

	if err := ts.realClient().CleanupByLabel(context.Background(), map[string]string{"cluster": "test"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestRealClient_CleanupByLabel_AccumulatesErrors verifies that a failed
// resource kind does not stop the remaining kinds from being attempted.
func TestRealClient_CleanupByLabel_AccumulatesErrors(t *testing.T) {
	t.Parallel()
	ts := newTestServer()
	defer ts.close()

	sshKeysListed := false
	ts.handleFunc("/servers", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.ServerListResponse{})
	})
	ts.handleFunc("/firewalls", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.FirewallListResponse{})
	})
	ts.handleFunc("/networks", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusInternalServerError, schema.ErrorResponse{
			Error: schema.Error{Code: "server_error", Message: "internal"},
		})
	})
	ts.handleFunc("/ssh_keys", func(w http.ResponseWriter, _ *http.Request) {
		sshKeysListed = true
		jsonResponse(w, http.StatusOK, schema.SSHKeyListResponse{})
	})

	err := ts.realClient().CleanupByLabel(context.Background(), map[string]string{"cluster": "test"})
	if err == nil {
		t.Fatal("expected error from CleanupByLabel")
	}

	var cleanupErr *CleanupError
	if !errors.As(err, &cleanupErr) {
		t.Fatalf("expected *CleanupError, got %T", err)
	}
	if len(cleanupErr.Errors) != 1 {
		t.Errorf("expected 1 error, got %d: %v", len(cleanupErr.Errors), cleanupErr.Errors)
	}
	if !strings.Contains(err.Error(), "networks") {
		t.Errorf("expected networks error, got %v", err)
	}
	if !sshKeysListed {
		t.Error("ssh keys should still be attempted after a network failure")
	}
}

func TestRealClient_DeleteServersByLabel(t *testing.T) {
	t.Parallel()

	t.Run("deletes and waits for disappearance", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer()
		defer ts.close()

		var mu sync.Mutex
		listCalls := 0
		ts.handleFunc("/servers", func(w http.ResponseWriter, _ *http.Request) {
			mu.Lock()
			listCalls++
			first := listCalls == 1
			mu.Unlock()
			if first {
				jsonResponse(w, http.StatusOK, schema.ServerListResponse{
					Servers: []schema.Server{
						{ID: 1, Name: "test-1"},
						{ID: 2, Name: "test-2"},
					},
				})
				return
			}
			jsonResponse(w, http.StatusOK, schema.ServerListResponse{})
		})
		ts.handleFunc("/servers/1", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodDelete {
				jsonResponse(w, http.StatusOK, schema.ServerDeleteResponse{
					Action: schema.Action{ID: 1, Status: "success"},
				})
			}
		})
		ts.handleFunc("/servers/2", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodDelete {
				jsonResponse(w, http.StatusOK, schema.ServerDeleteResponse{
					Action: schema.Action{ID: 2, Status: "success"},
				})
			}
		})

		if err := ts.realClient().deleteServersByLabel(context.Background(), "cluster=test"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("list error", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer()
		defer ts.close()

		ts.handleFunc("/servers", func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, http.StatusInternalServerError, schema.ErrorResponse{
				Error: schema.Error{Code: "server_error", Message: "internal"},
			})
		})

		err := ts.realClient().deleteServersByLabel(context.Background(), "cluster=test")
		if err == nil || !strings.Contains(err.Error(), "list servers") {
			t.Fatalf("expected list servers error, got %v", err)
		}
	})
}

func TestRealClient_DeleteFirewallsByLabel(t *testing.T) {
	t.Parallel()

	t.Run("retries while in use", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer()
		defer ts.close()

		var mu sync.Mutex
		deleteCalls := 0
		ts.handleFunc("/firewalls", func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, http.StatusOK, schema.FirewallListResponse{
				Firewalls: []schema.Firewall{{ID: 1, Name: "test-fw"}},
			})
		})
		ts.handleFunc("/firewalls/1", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				return
			}
			mu.Lock()
			deleteCalls++
			inUse := deleteCalls == 1
			mu.Unlock()
			if inUse {
				jsonResponse(w, http.StatusConflict, schema.ErrorResponse{
					Error: schema.Error{Code: "resource_in_use", Message: "firewall is still applied"},
				})
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		if err := ts.realClient().deleteFirewallsByLabel(context.Background(), "cluster=test"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if deleteCalls != 2 {
			t.Errorf("expected 2 delete attempts, got %d", deleteCalls)
		}
	})

	t.Run("gives up on permanent error", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer()
		defer ts.close()

		ts.handleFunc("/firewalls", func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, http.StatusOK, schema.FirewallListResponse{
				Firewalls: []schema.Firewall{{ID: 1, Name: "test-fw"}},
			})
		})
		ts.handleFunc("/firewalls/1", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodDelete {
				jsonResponse(w, http.StatusForbidden, schema.ErrorResponse{
					Error: schema.Error{Code: "forbidden", Message: "not allowed"},
				})
			}
		})

		err := ts.realClient().deleteFirewallsByLabel(context.Background(), "cluster=test")
		if err == nil || !strings.Contains(err.Error(), "test-fw") {
			t.Fatalf("expected firewall delete error, got %v", err)
		}
	})

	t.Run("list error", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer()
		defer ts.close()

		ts.handleFunc("/firewalls", func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, http.StatusInternalServerError, schema.ErrorResponse{
				Error: schema.Error{Code: "server_error", Message: "internal"},
			})
		})

		err := ts.realClient().deleteFirewallsByLabel(context.Background(), "cluster=test")
		if err == nil || !strings.Contains(err.Error(), "list firewalls") {
			t.Fatalf("expected list firewalls error, got %v", err)
		}
	})
}

func TestDeleteByLabel(t *testing.T) {
	t.Parallel()
	client := testClientMinimal()

	t.Run("propagates list error", func(t *testing.T) {
		t.Parallel()
		err := deleteByLabel(context.Background(), client, "network",
			func(context.Context) ([]*hcloud.Network, error) {
				return nil, context.DeadlineExceeded
			},
			func(context.Context, *hcloud.Network) error { return nil },
		)
		if err == nil || !strings.Contains(err.Error(), "list network") {
			t.Fatalf("expected list error, got %v", err)
		}
	})

	t.Run("collects delete errors", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		deleted := []string{}
		err := deleteByLabel(context.Background(), client, "network",
			func(context.Context) ([]*hcloud.Network, error) {
				return []*hcloud.Network{
					{ID: 1, Name: "net-1"},
					{ID: 2, Name: "net-2"},
				}, nil
			},
			func(_ context.Context, n *hcloud.Network) error {
				deleted = append(deleted, n.Name)
				if n.Name == "net-1" {
					return boom
				}
				return nil
			},
		)
		if err == nil || !errors.Is(err, boom) {
			t.Fatalf("expected delete error, got %v", err)
		}
		if len(deleted) != 2 {
			t.Errorf("a failed delete should not stop the rest, deleted %v", deleted)
		}
	})

	t.Run("tolerates not found", func(t *testing.T) {
		t.Parallel()
		err := deleteByLabel(context.Background(), client, "ssh key",
			func(context.Context) ([]*hcloud.SSHKey, error) {
				return []*hcloud.SSHKey{{ID: 1, Name: "key-1"}}, nil
			},
			func(context.Context, *hcloud.SSHKey) error {
				return hcloud.Error{Code: hcloud.ErrorCodeNotFound, Message: "gone"}
			},
		)
		if err != nil {
			t.Fatalf("not found should be tolerated, got %v", err)
		}
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()
		err := deleteByLabel(context.Background(), client, "network",
			func(context.Context) ([]*hcloud.Network, error) { return nil, nil },
			func(context.Context, *hcloud.Network) error {
				t.Error("delete should not be called for empty list")
				return nil
			},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
