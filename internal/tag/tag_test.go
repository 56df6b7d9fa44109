package tag

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func TestResolve_OverrideWins(t *testing.T) {
	got, err := Resolver{}.Resolve(context.Background(), "v1.2.3")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "v1.2.3" {
		t.Errorf("Resolve() = %q, want the override unchanged", got)
	}
}

func TestResolve_UsesShortHead(t *testing.T) {
	restore := gitStdout
	defer func() { gitStdout = restore }()

	var calls [][]string
	gitStdout = func(_ context.Context, dir string, args ...string) (string, error) {
		calls = append(calls, args)
		switch args[0] {
		case "rev-parse":
			if args[1] == "--is-inside-work-tree" {
				return "true", nil
			}
			return "abc1234", nil
		}
		return "", errors.New("unexpected git call")
	}

	got, err := Resolver{Dir: "/repo"}.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "abc1234" {
		t.Errorf("Resolve() = %q, want %q", got, "abc1234")
	}
	if len(calls) != 2 {
		t.Fatalf("git calls = %d, want 2", len(calls))
	}
}

func TestResolve_Deterministic(t *testing.T) {
	restore := gitStdout
	defer func() { gitStdout = restore }()

	gitStdout = func(_ context.Context, _ string, args ...string) (string, error) {
		if args[1] == "--is-inside-work-tree" {
			return "true", nil
		}
		return "abc1234", nil
	}

	r := Resolver{}
	first, err := r.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	second, err := r.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if first != second {
		t.Errorf("Resolve() not deterministic: %q vs %q", first, second)
	}
}

func TestResolve_NotAWorkTree(t *testing.T) {
	restore := gitStdout
	defer func() { gitStdout = restore }()

	gitStdout = func(_ context.Context, _ string, _ ...string) (string, error) {
		return "", errors.New("fatal: not a git repository")
	}

	_, err := Resolver{Dir: "/tmp"}.Resolve(context.Background(), "")
	if err == nil {
		t.Fatal("Resolve() expected error outside a work tree")
	}
	var resolveErr *ResolveError
	if !errors.As(err, &resolveErr) {
		t.Errorf("Resolve() error = %T, want *ResolveError", err)
	}
	if resolveErr.Dir != "/tmp" {
		t.Errorf("ResolveError.Dir = %q, want %q", resolveErr.Dir, "/tmp")
	}
}

func TestResolve_NoCommits(t *testing.T) {
	restore := gitStdout
	defer func() { gitStdout = restore }()

	gitStdout = func(_ context.Context, _ string, args ...string) (string, error) {
		if args[1] == "--is-inside-work-tree" {
			return "true", nil
		}
		return "", errors.New("fatal: ambiguous argument 'HEAD'")
	}

	_, err := Resolver{}.Resolve(context.Background(), "")
	var resolveErr *ResolveError
	if !errors.As(err, &resolveErr) {
		t.Fatalf("Resolve() error = %T, want *ResolveError", err)
	}
}

func TestResolve_RealRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	run("init", "-q")
	run("-c", "user.name=test", "-c", "user.email=test@example.com",
		"commit", "--allow-empty", "--no-gpg-sign", "-q", "-m", "initial")

	got, err := Resolver{Dir: dir}.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(got) < 7 {
		t.Errorf("Resolve() = %q, want a short commit hash", got)
	}
	for _, c := range got {
		if !strings.ContainsRune("0123456789abcdef", c) {
			t.Errorf("Resolve() = %q, want hex characters only", got)
			break
		}
	}
}
