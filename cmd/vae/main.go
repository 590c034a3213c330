package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vermeil/vae/internal/cmd"
	"github.com/vermeil/vae/internal/models"
)

// Injected at build time via -ldflags "-X main.Version=... -X main.Commit=... -X main.BuildDate=..."
var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)

// Exit codes.
const (
	exitOK          = 0
	exitError       = 1
	exitFailures    = 2
	exitInterrupted = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info := models.NewBuildInfo("Vermeil's Addon Extractor", Version, Commit, BuildDate)
	rootCmd := cmd.NewRootCommand(info)

	err := rootCmd.ExecuteContext(ctx)
	return exitCode(ctx, err)
}

func exitCode(ctx context.Context, err error) int {
	switch {
	case ctx.Err() != nil:
		return exitInterrupted
	case err == nil:
		return exitOK
	case errors.Is(err, cmd.ErrFailures):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailures
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
}
