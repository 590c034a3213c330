package fileutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/vermeil/vae/internal/naming"
)

// TagError reports a file that could not be given an extension.
type TagError struct {
	Path string
	Err  error
}

func (e *TagError) Error() string {
	return fmt.Sprintf("tag %s: %v", e.Path, e.Err)
}

func (e *TagError) Unwrap() error {
	return e.Err
}

// TagExtensionless appends ext to every regular file under root whose name has
// no extension at all, except names listed in skip (compared ignoring case).
// A file that would collide with an existing one is renamed to the name the
// namer picks. It returns the new paths of the renamed files; scan and rename
// errors are collected and never stop the pass.
func TagExtensionless(root string, excl ExclusionSet, ext string, skip []string, namer naming.Namer) ([]string, []error) {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	var (
		candidates []string
		errs       []error
	)
	for entry, err := range Walk(root, excl) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !HasNoExtension(entry.Name) || skipped(entry.Name, skip) {
			continue
		}
		candidates = append(candidates, entry.Path)
	}

	renamed := make([]string, 0, len(candidates))
	for _, path := range candidates {
		target := namer.Unique(path + ext)
		if err := os.Rename(path, target); err != nil {
			errs = append(errs, &TagError{Path: path, Err: err})
			continue
		}
		renamed = append(renamed, target)
	}
	return renamed, errs
}

func skipped(name string, skip []string) bool {
	for _, s := range skip {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}
