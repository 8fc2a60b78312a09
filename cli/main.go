package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/trebuchet-org/calldata-lens/internal/cli"
	"github.com/trebuchet-org/calldata-lens/internal/config"
)

// Set with -ldflags "-X main.version=... -X main.commit=... -X main.date=..."
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Execute(ctx, os.Stderr)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
