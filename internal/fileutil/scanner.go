package fileutil

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/vermeil/vae/internal/models"
)

// Predicate decides whether a file name belongs in a scan result.
type Predicate func(name string) bool

// Entry is a regular file reported by Walk, or the directory a ScanError
// refers to.
type Entry struct {
	Path string // Path joined from the scan root
	Name string // Base name
	Dir  bool   // True only for entries paired with a ScanError
}

// ScanError reports a subtree that could not be read. The subtree is skipped.
type ScanError struct {
	Path string
	Kind models.FailureKind
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// FailureKind implements models.Classifier.
func (e *ScanError) FailureKind() models.FailureKind {
	return e.Kind
}

func newScanError(path string, err error) *ScanError {
	return &ScanError{Path: path, Kind: models.Classify(err), Err: err}
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Files contains the matched paths in enumeration order
	Files []string
	// Errors contains one ScanError per unreadable subtree
	Errors []error
}

// Walk lazily enumerates the regular files under root, depth-first. A
// directory whose name is in excl is neither descended into nor reported.
// Unreadable directories yield a single (Entry, *ScanError) pair and are
// skipped; the caller decides whether to continue. Symlinks are not followed.
func Walk(root string, excl ExclusionSet) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		walkDir(root, excl, yield)
	}
}

func walkDir(dir string, excl ExclusionSet, yield func(Entry, error) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return yield(Entry{Path: dir, Name: filepath.Base(dir), Dir: true}, newScanError(dir, err))
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if excl.Contains(entry.Name()) {
				continue
			}
			if !walkDir(path, excl, yield) {
				return false
			}
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}

		if !yield(Entry{Path: path, Name: entry.Name()}, nil) {
			return false
		}
	}
	return true
}

// Find collects every file under root whose name satisfies pred. Errors on
// individual subtrees are collected in the result; only an unusable root is
// returned as an error.
func Find(root string, pred Predicate, excl ExclusionSet) (*ScanResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	result := &ScanResult{
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}

	for entry, err := range Walk(root, excl) {
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		if pred == nil || pred(entry.Name) {
			result.Files = append(result.Files, entry.Path)
		}
	}

	return result, nil
}

// HasNoExtension matches names that contain no dot at all.
func HasNoExtension(name string) bool {
	return !strings.Contains(name, ".")
}
