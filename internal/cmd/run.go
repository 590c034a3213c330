package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vermeil/vae/internal/display"
	"github.com/vermeil/vae/internal/extract"
	"github.com/vermeil/vae/internal/models"
)

// ErrFailures is returned when a run finished but some files could not be
// extracted or moved.
var ErrFailures = errors.New("some files could not be processed")

// NewAddonsCommand creates the addons command
func NewAddonsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "addons",
		Short: "Extract .bin and .gma addon files",
		Long: `Extract every .bin and .gma file under the root.

.bin files are unpacked with 7-Zip next to themselves. Files without an
extension that appear are tagged as .gma, then every .gma is unpacked with
fastgmad into the output directory. Processed files are moved to the
leftover directory and empty directories are removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := newLineInput(commandContext(cmd), cmd.InOrStdin())
			return runMode(cmd, in, isInteractive(cmd.InOrStdin()), runAddons)
		},
	}
}

// NewArchivesCommand creates the archives command
func NewArchivesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "archives",
		Short: "Extract general archives (zip, rar, 7z, tar, iso, ...)",
		Long: `Extract every supported archive under the root into a directory named
after it, then move the archive to the leftover directory.

A warning is shown first and must be acknowledged by typing 'I understand',
unless --yes is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := newLineInput(commandContext(cmd), cmd.InOrStdin())
			return runMode(cmd, in, isInteractive(cmd.InOrStdin()), runArchives)
		},
	}
}

type modeFunc func(ctx context.Context, s *session) (*models.RunSummary, error)

// runMode opens a session, runs one mode and reports the outcome.
func runMode(cmd *cobra.Command, in *lineInput, interactive bool, mode modeFunc) error {
	s, err := openSession(cmd, in, interactive)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", cerr)
		}
	}()

	summary, runErr := mode(commandContext(cmd), s)
	return s.finish(summary, runErr)
}

func runAddons(ctx context.Context, s *session) (*models.RunSummary, error) {
	display.InUseWarning().Display(s.out)

	reg, err := s.addonRegistry()
	if err != nil {
		return nil, err
	}
	p, err := s.pipeline()
	if err != nil {
		return nil, err
	}

	s.log.LogInfo(fmt.Sprintf("Extracting addons under %s with %d workers", s.root, p.Pool.Workers()))
	return p.RunAddons(ctx, reg)
}

func runArchives(ctx context.Context, s *session) (*models.RunSummary, error) {
	if !s.yes {
		display.InUseWarning().Display(s.out)
		if err := display.Confirm(s.in, s.out, display.ConfirmPhrase); err != nil {
			return nil, err
		}
	}

	reg := extract.ArchiveRegistry(s.cfg.ArchivePassword)
	p, err := s.pipeline()
	if err != nil {
		return nil, err
	}

	counts, scanErrs, err := p.Survey(reg)
	if err != nil {
		return nil, err
	}
	for _, scanErr := range scanErrs {
		s.log.LogWarn(scanErr.Error())
	}
	fmt.Fprintf(s.out, "\n• Formats: %s\n", formatList(reg.Tags()))
	fmt.Fprintf(s.out, "• Found %s\n", display.Plural(counts.Total(), "archive", "archives"))
	if counts.Total() > 0 {
		fmt.Fprintln(s.out, "• Breakdown:")
		display.Breakdown(s.out, counts)
	}
	fmt.Fprintln(s.out)

	return p.RunArchives(ctx, reg)
}

func formatList(tags []string) string {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = display.FormatTag(tag)
	}
	return strings.Join(names, "/")
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// finish logs the summary, writes the run report and turns the outcome into
// the command's error.
func (s *session) finish(summary *models.RunSummary, runErr error) error {
	if summary == nil {
		return runErr
	}

	s.log.LogSummary(*summary)
	if path, err := writeReport(s.cfg.LogPath(s.root, s.home), *summary); err != nil {
		s.log.LogWarn(fmt.Sprintf("Failed to write run report: %v", err))
	} else {
		s.log.LogDebug("Run report written to " + path)
	}

	if runErr != nil {
		return runErr
	}
	if summary.HasErrors() {
		return fmt.Errorf("%w: %d failed extraction(s), %d failed move(s)",
			ErrFailures, len(summary.Failed()), len(summary.RelocateFailures))
	}
	return nil
}
