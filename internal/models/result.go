package models

import (
	"sort"
	"time"
)

// Outcome is the terminal state of one extraction job.
type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailure Outcome = "FAILURE"
	// OutcomeSkipped marks inputs that were never launched because the run
	// was interrupted before a worker picked them up.
	OutcomeSkipped Outcome = "SKIPPED"
)

// JobResult is produced exactly once per input file by exactly one worker.
type JobResult struct {
	Source      string        // Archive that was processed
	Format      string        // Format tag, e.g. ".gma" or ".tar.gz"
	Destination string        // Directory the archive was extracted into (empty on failure)
	Outcome     Outcome       // Success, failure or skipped
	Kind        FailureKind   // Classified failure reason (empty on success)
	Err         error         // Underlying error (nil on success)
	Duration    time.Duration // Time spent in the job
}

// Succeeded reports whether the extraction completed.
func (r JobResult) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}

// Processed reports whether a worker actually attempted the job.
func (r JobResult) Processed() bool {
	return r.Outcome == OutcomeSuccess || r.Outcome == OutcomeFailure
}

// Tally counts successful extractions per format tag.
type Tally map[string]int

// NewTally returns a tally with a zero entry for every given tag so that
// summaries list formats that were searched for but not found.
func NewTally(tags ...string) Tally {
	t := make(Tally, len(tags))
	for _, tag := range tags {
		t[tag] = 0
	}
	return t
}

// Fold adds the successful results to the tally. Results that were never
// attempted or whose format is unknown are not counted. It is called by a
// single goroutine after a batch has settled.
func (t Tally) Fold(results []JobResult) {
	for _, r := range results {
		if !r.Processed() || r.Format == "" {
			continue
		}
		if _, ok := t[r.Format]; !ok {
			t[r.Format] = 0
		}
		if r.Succeeded() {
			t[r.Format]++
		}
	}
}

// Total returns the sum of all counts.
func (t Tally) Total() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}

// Tags returns the tally keys in sorted order.
func (t Tally) Tags() []string {
	tags := make([]string, 0, len(t))
	for tag := range t {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// PhaseResult is the outcome of one scan-and-extract batch.
type PhaseResult struct {
	Name       string        // Phase name ("bin", "gma", "archives")
	Found      int           // Number of matching files discovered
	Results    []JobResult   // One entry per discovered file
	ScanErrors []error       // Subtrees that could not be read
	Duration   time.Duration // Wall time of the batch
}

// Succeeded counts successful jobs in the phase.
func (p PhaseResult) Succeeded() int {
	n := 0
	for _, r := range p.Results {
		if r.Succeeded() {
			n++
		}
	}
	return n
}

// Failed returns the failed jobs in the phase.
func (p PhaseResult) Failed() []JobResult {
	var failed []JobResult
	for _, r := range p.Results {
		if r.Outcome == OutcomeFailure {
			failed = append(failed, r)
		}
	}
	return failed
}

// RunSummary aggregates a whole addons or archives run.
type RunSummary struct {
	Mode             string
	Root             string
	Phases           []PhaseResult
	Tally            Tally
	Tagged           int // Extensionless files renamed before the .gma scan
	Relocated        int
	RelocateFailures []error
	DirsRemoved      int
	CleanupErrors    []error
	Duration         time.Duration
	DryRun           bool
	Interrupted      bool
}

// Found returns the number of files discovered across all phases.
func (s RunSummary) Found() int {
	n := 0
	for _, p := range s.Phases {
		n += p.Found
	}
	return n
}

// Failed returns every failed job across all phases.
func (s RunSummary) Failed() []JobResult {
	var failed []JobResult
	for _, p := range s.Phases {
		failed = append(failed, p.Failed()...)
	}
	return failed
}

// ScanErrors returns the number of unreadable subtrees across all phases.
func (s RunSummary) ScanErrors() int {
	n := 0
	for _, p := range s.Phases {
		n += len(p.ScanErrors)
	}
	return n
}

// HasErrors reports whether anything in the run failed.
func (s RunSummary) HasErrors() bool {
	return len(s.Failed()) > 0 || len(s.RelocateFailures) > 0
}
