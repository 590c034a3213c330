package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vermeil/vae/internal/extract"
	"github.com/vermeil/vae/internal/models"
	"github.com/vermeil/vae/internal/naming"
)

// errNoExtractor is returned for a source whose name matches no registered
// format.
var errNoExtractor = fmt.Errorf("%w: no extractor registered", models.ErrCorrupt)

// Placement decides where the output directory for source goes: the parent
// directory and the stem the unique name is derived from.
type Placement func(source, format string) (parent, stem string)

// BesideSource places output next to the source archive, named after it.
func BesideSource() Placement {
	return func(source, format string) (string, string) {
		return filepath.Dir(source), Stem(source, format)
	}
}

// InDir places output in dir, named after the source archive.
func InDir(dir string) Placement {
	return func(source, format string) (string, string) {
		return dir, Stem(source, format)
	}
}

// Stem returns the base name of source without its format tag.
func Stem(source, format string) string {
	base := filepath.Base(source)
	if len(base) > len(format) {
		return base[:len(base)-len(format)]
	}
	return base
}

// Runner processes one source file into one result.
type Runner interface {
	Run(ctx context.Context, source string) models.JobResult
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, source string) models.JobResult

// Run calls f(ctx, source).
func (f RunnerFunc) Run(ctx context.Context, source string) models.JobResult {
	return f(ctx, source)
}

// Job extracts one archive into a fresh directory. It never moves the
// source and never retries.
type Job struct {
	Registry *extract.Registry
	Namer    naming.Namer
	Place    Placement
}

// Run resolves the format of source, claims a unique destination directory
// and extracts into it. Any failure is returned as a classified result; the
// destination directory is removed so no partial output is left behind.
func (j *Job) Run(ctx context.Context, source string) models.JobResult {
	start := time.Now()
	result := models.JobResult{Source: source}

	fail := func(err error) models.JobResult {
		result.Outcome = models.OutcomeFailure
		result.Kind = models.Classify(err)
		result.Err = err
		result.Destination = ""
		result.Duration = time.Since(start)
		return result
	}

	format, extractor, ok := j.Registry.Lookup(filepath.Base(source))
	if !ok {
		return fail(errNoExtractor)
	}
	result.Format = format

	parent, stem := j.Place(source, format)
	dst, err := j.Namer.UniqueDir(parent, stem)
	if err != nil {
		return fail(err)
	}

	if err := extractor.Extract(ctx, source, dst); err != nil {
		if rmErr := os.RemoveAll(dst); rmErr != nil {
			err = errors.Join(err, fmt.Errorf("remove partial output: %w", rmErr))
		}
		return fail(err)
	}

	result.Outcome = models.OutcomeSuccess
	result.Destination = dst
	result.Duration = time.Since(start)
	return result
}
