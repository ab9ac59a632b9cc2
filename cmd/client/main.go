package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/roadsync/internal/client/cli"
	"github.com/iudanet/roadsync/internal/client/iocli"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	c := cli.New(iocli.NewStdio(), cli.DefaultOptions())
	rootCmd := cli.NewRootCommand(c, versionString())

	err := rootCmd.ExecuteContext(ctx)
	if cerr := c.Close(); cerr != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v\n", cerr)
	}
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionString() string {
	return fmt.Sprintf("%s (built %s, commit %s)", Version, BuildDate, GitCommit)
}
