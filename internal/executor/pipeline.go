package executor

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/vermeil/vae/internal/extract"
	"github.com/vermeil/vae/internal/fileutil"
	"github.com/vermeil/vae/internal/models"
	"github.com/vermeil/vae/internal/naming"
	"github.com/vermeil/vae/internal/relocate"
)

// Run modes.
const (
	ModeAddons   = "addons"
	ModeArchives = "archives"
)

// Pipeline sequences scan, extract, relocate and prune passes over one root.
// Phases are strictly ordered: every job of a batch settles before its
// sources are relocated, and relocation finishes before the next scan.
type Pipeline struct {
	Root        string
	Exclusions  fileutil.ExclusionSet
	OutputDir   string // Addon output directory
	LeftoverDir string // Holding directory for processed sources
	Namer       naming.Namer
	Pool        *Pool
	Relocator   *relocate.Relocator
	Logger      Logger

	// RelocateFailed also moves sources whose extraction failed.
	RelocateFailed bool
	// TagExtensionless renames bare files to .gma before the .gma scan.
	TagExtensionless bool
	// TagSkip lists names that are never tagged.
	TagSkip []string
	// DryRun only scans and reports.
	DryRun bool
}

// phase describes one scan-and-extract batch.
type phase struct {
	name  string
	tags  []string
	place Placement
}

// RunAddons processes the addon containers: .bin files are unpacked beside
// themselves, the bare files they produce are tagged as .gma, then every .gma
// is unpacked into the output directory. Sources go to the leftover
// directory after their batch and empty directories are pruned last.
func (p *Pipeline) RunAddons(ctx context.Context, reg *extract.Registry) (*models.RunSummary, error) {
	summary := p.newSummary(ModeAddons, reg)
	start := time.Now()
	defer func() { summary.Duration = time.Since(start) }()

	bin := phase{name: "bin", tags: []string{extract.TagBin}, place: BesideSource()}
	gma := phase{name: "gma", tags: []string{extract.TagGMA}, place: InDir(p.OutputDir)}

	if err := p.runPhase(ctx, reg, bin, summary); err != nil {
		return summary, err
	}

	if p.TagExtensionless && !p.DryRun {
		renamed, errs := fileutil.TagExtensionless(p.Root, p.Exclusions, extract.TagGMA, p.TagSkip, p.Namer)
		summary.Tagged = len(renamed)
		for _, err := range errs {
			p.logWarn(err.Error())
		}
		if len(renamed) > 0 {
			p.logInfo(fmt.Sprintf("Tagged %d extensionless file(s) as %s", len(renamed), extract.TagGMA))
		}
	}

	if err := p.runPhase(ctx, reg, gma, summary); err != nil {
		return summary, err
	}

	p.prune(summary)
	return summary, nil
}

// RunArchives processes every general archive format in one batch. Each
// archive is unpacked into a directory named after it at the root.
func (p *Pipeline) RunArchives(ctx context.Context, reg *extract.Registry) (*models.RunSummary, error) {
	summary := p.newSummary(ModeArchives, reg)
	start := time.Now()
	defer func() { summary.Duration = time.Since(start) }()

	archives := phase{name: "archives", tags: reg.Tags(), place: InDir(p.Root)}
	if err := p.runPhase(ctx, reg, archives, summary); err != nil {
		return summary, err
	}

	p.prune(summary)
	return summary, nil
}

// Survey scans for files the registry handles and counts them per format
// without touching anything.
func (p *Pipeline) Survey(reg *extract.Registry) (models.Tally, []error, error) {
	result, err := fileutil.Find(p.Root, reg.Predicate(), p.Exclusions)
	if err != nil {
		return nil, nil, err
	}
	counts := models.NewTally(reg.Tags()...)
	for _, path := range result.Files {
		if tag, ok := reg.Format(filepath.Base(path)); ok {
			counts[tag]++
		}
	}
	return counts, result.Errors, nil
}

func (p *Pipeline) newSummary(mode string, reg *extract.Registry) *models.RunSummary {
	return &models.RunSummary{
		Mode:   mode,
		Root:   p.Root,
		Tally:  models.NewTally(reg.Tags()...),
		DryRun: p.DryRun,
	}
}

// runPhase scans, extracts and relocates one batch. It returns an error only
// when the root cannot be scanned or the run was interrupted.
func (p *Pipeline) runPhase(ctx context.Context, reg *extract.Registry, ph phase, summary *models.RunSummary) error {
	if err := ctx.Err(); err != nil {
		summary.Interrupted = true
		return err
	}

	start := time.Now()
	scan, err := fileutil.Find(p.Root, reg.Predicate(ph.tags...), p.Exclusions)
	if err != nil {
		return fmt.Errorf("scan %s: %w", p.Root, err)
	}
	for _, scanErr := range scan.Errors {
		p.logWarn(scanErr.Error())
	}
	for _, path := range scan.Files {
		p.logTrace("Queued " + path)
	}

	result := models.PhaseResult{
		Name:       ph.name,
		Found:      len(scan.Files),
		ScanErrors: scan.Errors,
	}
	if p.Logger != nil {
		p.Logger.LogPhaseStart(ph.name, result.Found)
	}

	if !p.DryRun && len(scan.Files) > 0 {
		job := &Job{Registry: reg, Namer: p.Namer, Place: ph.place}
		result.Results = p.Pool.RunBatch(ctx, scan.Files, job)
	}
	result.Duration = time.Since(start)

	summary.Phases = append(summary.Phases, result)
	summary.Tally.Fold(result.Results)
	if p.Logger != nil {
		p.Logger.LogPhaseComplete(result)
	}

	if err := ctx.Err(); err != nil {
		summary.Interrupted = true
		return err
	}

	p.relocate(result.Results, summary)
	return nil
}

func (p *Pipeline) relocate(results []models.JobResult, summary *models.RunSummary) {
	var sources []string
	for _, r := range results {
		switch {
		case r.Succeeded():
			sources = append(sources, r.Source)
		case r.Outcome == models.OutcomeFailure && p.RelocateFailed:
			sources = append(sources, r.Source)
		}
	}
	if len(sources) == 0 {
		return
	}

	report := p.Relocator.Relocate(sources, p.LeftoverDir)
	summary.Relocated += len(report.Moved)
	summary.RelocateFailures = append(summary.RelocateFailures, report.Failures...)
	for _, err := range report.Failures {
		p.logError(err.Error())
	}
	for _, m := range report.Moved {
		if m.Renamed {
			p.logDebug(fmt.Sprintf("Relocated %s as %s", m.Source, filepath.Base(m.Destination)))
		}
	}
}

func (p *Pipeline) prune(summary *models.RunSummary) {
	if p.DryRun {
		return
	}
	removed, errs := fileutil.PruneEmpty(p.Root, p.Exclusions)
	summary.DirsRemoved = removed
	summary.CleanupErrors = errs
	for _, err := range errs {
		p.logWarn(err.Error())
	}
}

func (p *Pipeline) logTrace(msg string) {
	if p.Logger != nil {
		p.Logger.LogTrace(msg)
	}
}

func (p *Pipeline) logDebug(msg string) {
	if p.Logger != nil {
		p.Logger.LogDebug(msg)
	}
}

func (p *Pipeline) logInfo(msg string) {
	if p.Logger != nil {
		p.Logger.LogInfo(msg)
	}
}

func (p *Pipeline) logWarn(msg string) {
	if p.Logger != nil {
		p.Logger.LogWarn(msg)
	}
}

func (p *Pipeline) logError(msg string) {
	if p.Logger != nil {
		p.Logger.LogError(msg)
	}
}
