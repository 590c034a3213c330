package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vermeil/vae/internal/models"
)

// fakeTool re-runs the test binary as an extraction tool that behaves
// according to mode.
func fakeTool(t *testing.T, mode string, warning, corrupt []int) *CommandExtractor {
	t.Helper()
	t.Setenv("VAE_WANT_HELPER_PROCESS", "1")
	return &CommandExtractor{
		Tool: "fake",
		Path: os.Args[0],
		Args: func(src, dst string) []string {
			return []string{"-test.run=TestHelperProcess", "--", mode, src, dst}
		},
		WarningCodes: warning,
		CorruptCodes: corrupt,
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("VAE_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) < 4 {
		fmt.Fprintln(os.Stderr, "usage: -- mode src dst")
		os.Exit(7)
	}
	mode, dst := args[1], args[3]

	switch mode {
	case "ok":
		_ = os.WriteFile(filepath.Join(dst, "addon.json"), []byte("{}"), 0644)
		os.Exit(0)
	case "warn":
		fmt.Fprintln(os.Stderr, "WARNING: some headers skipped")
		os.Exit(1)
	case "corrupt":
		fmt.Fprintln(os.Stderr, "ERROR: x.bin\nCan not open the file as archive")
		os.Exit(2)
	case "denied":
		fmt.Fprintln(os.Stderr, "ERROR: Access is denied.")
		os.Exit(2)
	case "missing":
		fmt.Fprintln(os.Stderr, "ERROR: The system cannot find the file specified.")
		os.Exit(2)
	case "fatal":
		os.Exit(2)
	case "sleep":
		time.Sleep(10 * time.Second)
		os.Exit(0)
	default:
		fmt.Fprintln(os.Stderr, "Command Line Error: unknown switch")
		os.Exit(7)
	}
}

func TestCommandExtractor_Success(t *testing.T) {
	dst := t.TempDir()
	c := fakeTool(t, "ok", []int{1}, []int{2})

	require.NoError(t, c.Extract(context.Background(), "x.bin", dst))
	assert.FileExists(t, filepath.Join(dst, "addon.json"))
}

func TestCommandExtractor_Classification(t *testing.T) {
	tests := []struct {
		mode     string
		wantErr  bool
		wantKind models.FailureKind
	}{
		{mode: "warn", wantErr: false},
		{mode: "corrupt", wantErr: true, wantKind: models.FailureCorruptOrUnsupported},
		{mode: "denied", wantErr: true, wantKind: models.FailurePermissionDenied},
		{mode: "missing", wantErr: true, wantKind: models.FailureNotFound},
		{mode: "fatal", wantErr: true, wantKind: models.FailureCorruptOrUnsupported},
		{mode: "usage", wantErr: true, wantKind: models.FailureOther},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			c := fakeTool(t, tt.mode, []int{1}, []int{2})
			err := c.Extract(context.Background(), "x.bin", t.TempDir())
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var extractErr *ExtractError
			require.True(t, errors.As(err, &extractErr))
			assert.Equal(t, "fake", extractErr.Tool)
			assert.Equal(t, "x.bin", extractErr.Source)
			assert.Equal(t, tt.wantKind, extractErr.Kind)
			assert.Equal(t, tt.wantKind, models.Classify(err))
		})
	}
}

func TestCommandExtractor_NoWarningCodes(t *testing.T) {
	c := fakeTool(t, "warn", nil, nil)
	err := c.Extract(context.Background(), "x.gma", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, models.FailureOther, models.Classify(err))
	assert.Contains(t, err.Error(), "WARNING: some headers skipped")
}

func TestCommandExtractor_MissingBinary(t *testing.T) {
	c := SevenZip(filepath.Join(t.TempDir(), "no-such-7z"))
	err := c.Extract(context.Background(), "x.bin", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, models.FailureNotFound, models.Classify(err))
}

func TestCommandExtractor_ContextCancel(t *testing.T) {
	c := fakeTool(t, "sleep", nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := c.Extract(ctx, "x.bin", t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestToolArguments(t *testing.T) {
	assert.Equal(t,
		[]string{"x", "in.bin", "-oout", "-y"},
		SevenZip("7z").Args("in.bin", "out"))
	assert.Equal(t,
		[]string{"extract", "-file", "in.gma", "-out", "out"},
		FastGMAD("fastgmad").Args("in.gma", "out"))
}
