package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/vermeil/vae/internal/cmd"
)

func TestExitCode(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want int
	}{
		{"success", context.Background(), nil, exitOK},
		{"failures", context.Background(), fmt.Errorf("%w: 2 failed", cmd.ErrFailures), exitFailures},
		{"error", context.Background(), errors.New("invalid configuration"), exitError},
		{"interrupted", cancelled, context.Canceled, exitInterrupted},
		{"interrupted without error", cancelled, nil, exitInterrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.ctx, tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
