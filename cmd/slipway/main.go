// Package main is the entry point for the slipway CLI.
//
// slipway provisions a small k3s cluster on Hetzner Cloud, deploys one
// Helm-packaged application onto it, and manages that application's
// lifecycle: upgrade, rollback, logs, port-forwarding, and teardown.
//
// Commands: init, cluster-up, deploy, status, pods, logs, rollback,
// port-forward, uninstall, cluster-down.
//
// For detailed usage information, run:
//
//	slipway --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/slipway/cmd/slipway/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
