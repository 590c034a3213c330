// Package relocate moves processed source archives into the leftover
// holding directory.
package relocate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/vermeil/vae/internal/models"
	"github.com/vermeil/vae/internal/naming"
)

// MoveError reports a source that could not be relocated. The source is left
// where it was.
type MoveError struct {
	Source      string
	Destination string
	Kind        models.FailureKind
	Err         error
}

func (e *MoveError) Error() string {
	if e.Destination == "" {
		return fmt.Sprintf("move %s: %s: %v", e.Source, e.Kind, e.Err)
	}
	return fmt.Sprintf("move %s -> %s: %s: %v", e.Source, e.Destination, e.Kind, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// FailureKind implements models.Classifier.
func (e *MoveError) FailureKind() models.FailureKind {
	return e.Kind
}

func newMoveError(src, dst string, err error) *MoveError {
	return &MoveError{Source: src, Destination: dst, Kind: models.Classify(err), Err: err}
}

// Move records one relocated file.
type Move struct {
	Source      string
	Destination string
	// Renamed is true when the base name was taken and a disambiguated name
	// was used.
	Renamed bool
}

// Report is the outcome of one Relocate call. Every input path appears in
// exactly one of Moved or Failures.
type Report struct {
	Moved    []Move
	Failures []error
}

// Relocator moves files into a holding directory. It is used from a single
// goroutine after a batch has settled.
type Relocator struct {
	namer naming.Namer
}

// New returns a relocator that resolves name collisions with namer.
func New(namer naming.Namer) *Relocator {
	return &Relocator{namer: namer}
}

// Relocate moves each path into dst, keeping its base name unless a file of
// that name is already there. dst is created if needed. A failing move is
// recorded and the remaining paths are still moved.
func (r *Relocator) Relocate(paths []string, dst string) Report {
	report := Report{Moved: make([]Move, 0, len(paths))}
	if len(paths) == 0 {
		return report
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		for _, p := range paths {
			report.Failures = append(report.Failures, newMoveError(p, dst, err))
		}
		return report
	}

	for _, src := range paths {
		move, err := r.move(src, dst)
		if err != nil {
			report.Failures = append(report.Failures, err)
			continue
		}
		report.Moved = append(report.Moved, move)
	}
	return report
}

func (r *Relocator) move(src, dir string) (Move, error) {
	if _, err := os.Lstat(src); err != nil {
		return Move{}, newMoveError(src, "", err)
	}

	wanted := filepath.Join(dir, filepath.Base(src))
	target := r.namer.Unique(wanted)

	if err := Rename(src, target); err != nil {
		return Move{}, newMoveError(src, target, err)
	}
	return Move{Source: src, Destination: target, Renamed: target != wanted}, nil
}

// Rename moves src to dst, copying and removing the source when the two are
// on different devices.
func Rename(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		return copyAndDelete(src, dst)
	}
	return err
}

// copyAndDelete streams src to dst and removes src. A partial dst is removed
// on failure.
func copyAndDelete(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}

	in.Close()
	if err := os.Remove(src); err != nil {
		// Keep exactly one copy.
		os.Remove(dst)
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}
