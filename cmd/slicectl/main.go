// Package main is the entry point for the slicectl CLI.
//
// slicectl provisions a multi-cluster application-slicing deployment on
// Linode Kubernetes Engine: a controller cluster running the slicing
// control plane, worker clusters joined through per-cluster agents, a
// slice spanning them, and an optional sample application.
//
// Commands: apply, preview, destroy, version.
//
// For detailed usage information, run:
//
//	slicectl --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sliceops/slicectl/cmd/slicectl/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
