package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"slices"

	"github.com/vermeil/vae/internal/models"
)

// Pre-compiled patterns for classifying extractor stderr. Corruption is
// matched by models.MatchCorrupt.
var (
	rePermission = regexp.MustCompile(
		`(?i)access is denied|permission denied|operation not permitted|` +
			`cannot (create|open) .*(denied|read-only)|read-only file system`)

	reNotFound = regexp.MustCompile(
		`(?i)cannot find the (file|path)|no such file( or directory)?|` +
			`file not found|the system cannot find|does not exist`)
)

// CommandExtractor runs an external extraction tool as an opaque subprocess.
type CommandExtractor struct {
	// Tool is the logical tool name used in diagnostics.
	Tool string
	// Path is the resolved executable.
	Path string
	// Args builds the argument list for one extraction.
	Args func(src, dst string) []string
	// WarningCodes are non-zero exit codes that still mean the output is
	// complete.
	WarningCodes []int
	// CorruptCodes are exit codes that mean the input could not be decoded
	// when stderr gives no more specific reason.
	CorruptCodes []int
}

// SevenZip extracts with 7-Zip: "7z x <src> -o<dst> -y". Exit code 1 is a
// warning and exit code 2 is a fatal archive error.
func SevenZip(path string) *CommandExtractor {
	return &CommandExtractor{
		Tool: "7z",
		Path: path,
		Args: func(src, dst string) []string {
			return []string{"x", src, "-o" + dst, "-y"}
		},
		WarningCodes: []int{1},
		CorruptCodes: []int{2},
	}
}

// FastGMAD extracts Garry's Mod addons:
// "fastgmad extract -file <src> -out <dst>".
func FastGMAD(path string) *CommandExtractor {
	return &CommandExtractor{
		Tool: "fastgmad",
		Path: path,
		Args: func(src, dst string) []string {
			return []string{"extract", "-file", src, "-out", dst}
		},
	}
}

// Extract runs the tool and waits for it. Stdout is discarded; stderr is
// captured for classification. Cancelling ctx kills the process.
func (c *CommandExtractor) Extract(ctx context.Context, src, dst string) error {
	cmd := exec.CommandContext(ctx, c.Path, c.Args(src, dst)...)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	if err == nil {
		return nil
	}

	stderr := stderrBuf.String()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && slices.Contains(c.WarningCodes, exitErr.ExitCode()) {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		err = fmt.Errorf("%w: %w", ctxErr, err)
	}

	return &ExtractError{
		Tool:   c.Tool,
		Source: src,
		Kind:   c.classify(err, exitErr, stderr),
		Stderr: stderr,
		Err:    err,
	}
}

func (c *CommandExtractor) classify(err error, exitErr *exec.ExitError, stderr string) models.FailureKind {
	if exitErr == nil {
		// The process never ran: missing or unexecutable binary.
		return models.Classify(err)
	}

	switch {
	case rePermission.MatchString(stderr):
		return models.FailurePermissionDenied
	case models.MatchCorrupt(stderr):
		return models.FailureCorruptOrUnsupported
	case reNotFound.MatchString(stderr):
		return models.FailureNotFound
	case slices.Contains(c.CorruptCodes, exitErr.ExitCode()):
		return models.FailureCorruptOrUnsupported
	default:
		return models.FailureOther
	}
}
