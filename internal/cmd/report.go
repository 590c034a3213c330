package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/vermeil/vae/internal/filelock"
	"github.com/vermeil/vae/internal/models"
	"gopkg.in/yaml.v3"
)

// ReportName is the run report written to the log directory after each run.
const ReportName = "last-run.yaml"

type runReport struct {
	Mode        string         `yaml:"mode"`
	Root        string         `yaml:"root"`
	FinishedAt  time.Time      `yaml:"finished_at"`
	Duration    string         `yaml:"duration"`
	DryRun      bool           `yaml:"dry_run,omitempty"`
	Interrupted bool           `yaml:"interrupted,omitempty"`
	Extracted   map[string]int `yaml:"extracted"`
	Found       int            `yaml:"found"`
	Tagged      int            `yaml:"tagged,omitempty"`
	Relocated   int            `yaml:"relocated"`
	DirsRemoved int            `yaml:"dirs_removed"`
	Failures    []failureEntry `yaml:"failures,omitempty"`
	Errors      []string       `yaml:"errors,omitempty"`
}

type failureEntry struct {
	Source string `yaml:"source"`
	Kind   string `yaml:"kind"`
	Error  string `yaml:"error,omitempty"`
}

func newRunReport(s models.RunSummary) runReport {
	r := runReport{
		Mode:        s.Mode,
		Root:        s.Root,
		FinishedAt:  time.Now().UTC().Truncate(time.Second),
		Duration:    s.Duration.Round(time.Millisecond).String(),
		DryRun:      s.DryRun,
		Interrupted: s.Interrupted,
		Extracted:   map[string]int(s.Tally),
		Found:       s.Found(),
		Tagged:      s.Tagged,
		Relocated:   s.Relocated,
		DirsRemoved: s.DirsRemoved,
	}
	for _, f := range s.Failed() {
		entry := failureEntry{Source: f.Source, Kind: string(f.Kind)}
		if f.Err != nil {
			entry.Error = f.Err.Error()
		}
		r.Failures = append(r.Failures, entry)
	}
	for _, p := range s.Phases {
		for _, err := range p.ScanErrors {
			r.Errors = append(r.Errors, err.Error())
		}
	}
	for _, err := range s.RelocateFailures {
		r.Errors = append(r.Errors, err.Error())
	}
	for _, err := range s.CleanupErrors {
		r.Errors = append(r.Errors, err.Error())
	}
	return r
}

// writeReport stores the summary as YAML in logDir, replacing the previous
// report atomically.
func writeReport(logDir string, s models.RunSummary) (string, error) {
	data, err := yaml.Marshal(newRunReport(s))
	if err != nil {
		return "", fmt.Errorf("failed to encode run report: %w", err)
	}
	path := filepath.Join(logDir, ReportName)
	if err := filelock.LockAndWrite(path, data); err != nil {
		return "", err
	}
	return path, nil
}
