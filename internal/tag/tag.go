// Package tag resolves the image tag for a deploy.
//
// An explicit tag wins unchanged. Otherwise the tag is the short commit
// hash of git HEAD in the working tree, so the same checkout always
// deploys the same tag.
package tag

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// gitStdout is swapped in tests.
var gitStdout = runGitStdout

// Resolver determines the image tag for a deploy from git metadata.
type Resolver struct {
	// Dir is the working tree root. Empty means the current directory.
	Dir string
}

// Resolve returns the explicit override if set, otherwise the short
// commit hash of HEAD. A *ResolveError is returned when no override is
// given and the revision cannot be determined.
func (r Resolver) Resolve(ctx context.Context, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	dir := r.Dir
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}

	if out, err := gitStdout(ctx, dir, "rev-parse", "--is-inside-work-tree"); err != nil || out != "true" {
		return "", &ResolveError{Dir: dir, Err: errors.New("not a git work tree (supply a tag explicitly)")}
	}

	commit, err := gitStdout(ctx, dir, "rev-parse", "--short=7", "HEAD")
	if err != nil {
		return "", &ResolveError{Dir: dir, Err: err}
	}
	if commit == "" {
		return "", &ResolveError{Dir: dir, Err: errors.New("git returned an empty revision")}
	}
	return commit, nil
}

// ResolveError reports that no image tag could be determined.
type ResolveError struct {
	Dir string
	Err error
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve image tag in %s: %v", e.Dir, e.Err)
}

// Unwrap returns the underlying error.
func (e *ResolveError) Unwrap() error { return e.Err }

func runGitStdout(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
