package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/vermeil/vae/internal/models"
)

// Extractor unpacks src into the existing directory dst.
type Extractor interface {
	Extract(ctx context.Context, src, dst string) error
}

// ExtractorFunc adapts a plain function to Extractor.
type ExtractorFunc func(ctx context.Context, src, dst string) error

// Extract calls f(ctx, src, dst).
func (f ExtractorFunc) Extract(ctx context.Context, src, dst string) error {
	return f(ctx, src, dst)
}

// ExtractError describes a failed extraction with its classified kind.
type ExtractError struct {
	Tool   string
	Source string
	Kind   models.FailureKind
	Stderr string // Trimmed tool output, empty for library extractors
	Err    error
}

func (e *ExtractError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Tool, e.Err)
	if detail := lastLine(e.Stderr); detail != "" {
		msg += ": " + detail
	}
	return msg
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// FailureKind implements models.Classifier.
func (e *ExtractError) FailureKind() models.FailureKind {
	return e.Kind
}

// lastLine returns the last non-blank line of tool output, which is where
// both 7-Zip and fastgmad print their final diagnostic.
func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
