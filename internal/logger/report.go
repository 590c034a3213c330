package logger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vermeil/vae/internal/display"
	"github.com/vermeil/vae/internal/extract"
	"github.com/vermeil/vae/internal/models"
)

// failureLine renders a failed job as "<source>: <KIND>: <detail>".
func failureLine(r models.JobResult) string {
	kind := r.Kind
	if kind == "" {
		kind = models.FailureOther
	}
	if r.Err == nil {
		return fmt.Sprintf("%s: %s", r.Source, kind)
	}
	return fmt.Sprintf("%s: %s: %v", r.Source, kind, r.Err)
}

// toolOutput returns the full diagnostic output of an external tool, if the
// failure carries any.
func toolOutput(err error) string {
	var extractErr *extract.ExtractError
	if errors.As(err, &extractErr) {
		return strings.TrimSpace(extractErr.Stderr)
	}
	return ""
}

// phaseLabel describes what a phase searches for: "bin" becomes ".bin files".
func phaseLabel(name string) string {
	if name == "archives" {
		return "archives"
	}
	return "." + name + " files"
}

// modeTitle capitalizes a run mode for headings.
func modeTitle(mode string) string {
	if mode == "" {
		return "Run"
	}
	return strings.ToUpper(mode[:1]) + mode[1:]
}

// summaryLines renders the end-of-run report without timestamps or colors.
// The caller prefixes and paints each line.
func summaryLines(s models.RunSummary) []string {
	lines := []string{
		fmt.Sprintf("=== %s Summary ===", modeTitle(s.Mode)),
		fmt.Sprintf("Time: %s", display.FormatDuration(s.Duration)),
		fmt.Sprintf("Total extracted: %d", s.Tally.Total()),
	}
	for _, tag := range s.Tally.Tags() {
		lines = append(lines, fmt.Sprintf("  %s: %d", display.FormatTag(tag), s.Tally[tag]))
	}
	lines = append(lines, fmt.Sprintf("Archived: %d", s.Found()))

	failed := s.Failed()
	lines = append(lines, fmt.Sprintf("Failed: %d", len(failed)))
	for _, r := range failed {
		lines = append(lines, "  - "+failureLine(r))
	}
	if n := s.ScanErrors(); n > 0 {
		lines = append(lines, fmt.Sprintf("Unreadable directories: %d", n))
	}
	if s.Tagged > 0 {
		lines = append(lines, fmt.Sprintf("Tagged extensionless files: %d", s.Tagged))
	}
	lines = append(lines, fmt.Sprintf("Relocated: %d", s.Relocated))
	if n := len(s.RelocateFailures); n > 0 {
		lines = append(lines, fmt.Sprintf("Relocation failures: %d", n))
	}
	lines = append(lines, fmt.Sprintf("Directories cleaned: %d", s.DirsRemoved))

	if s.DryRun {
		lines = append(lines, "Dry run: nothing was extracted, moved or removed")
	}
	if s.Interrupted {
		lines = append(lines, "Interrupted: remaining files were skipped")
	}
	return lines
}
