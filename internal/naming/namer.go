// Package naming generates collision-free file and directory names.
//
// Two strategies implement the same contract. UUIDNamer appends a short
// random token (not reproducible, negligible collision probability, one probe
// per candidate in practice). CounterNamer appends _2, _3, ... (reproducible,
// but each candidate costs a filesystem probe and concurrent callers racing
// for the same stem can pick the same name). Directory creation closes that
// race for directories by claiming the name with os.Mkdir and retrying.
package naming

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Strategy names accepted by New.
const (
	StrategyUUID    = "uuid"
	StrategyCounter = "counter"
)

// maxDirAttempts bounds how often UniqueDir retries after losing a race.
const maxDirAttempts = 64

// compoundExtensions are treated as a single extension when splitting names.
var compoundExtensions = []string{".tar.gz", ".tar.xz", ".tar.bz2"}

// Namer produces names that do not exist on disk at the time of the call.
type Namer interface {
	// Unique returns path unchanged when nothing exists there; otherwise a
	// sibling path with a disambiguated stem and the original extension.
	Unique(path string) string
	// UniqueDir creates and returns a fresh directory parent/stem[suffix].
	UniqueDir(parent, stem string) (string, error)
}

// New returns the namer for the given strategy name.
func New(strategy string) (Namer, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", StrategyUUID:
		return NewUUIDNamer(), nil
	case StrategyCounter:
		return NewCounterNamer(), nil
	default:
		return nil, fmt.Errorf("unknown naming strategy %q (want %s or %s)", strategy, StrategyUUID, StrategyCounter)
	}
}

// suffixFunc returns the disambiguator for the nth retry (n starts at 1).
type suffixFunc func(n int) string

type namer struct {
	suffix suffixFunc
}

// UUIDNamer disambiguates with 8 random hex characters from a v4 UUID.
type UUIDNamer struct{ namer }

// NewUUIDNamer creates a random-token namer.
func NewUUIDNamer() *UUIDNamer {
	return &UUIDNamer{namer{suffix: func(int) string {
		return "_" + Token()
	}}}
}

// CounterNamer disambiguates with an incrementing counter starting at 2.
type CounterNamer struct{ namer }

// NewCounterNamer creates a sequential namer.
func NewCounterNamer() *CounterNamer {
	return &CounterNamer{namer{suffix: func(n int) string {
		return "_" + strconv.Itoa(n+1)
	}}}
}

// Token returns a short random identifier.
func Token() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (n namer) Unique(path string) string {
	if !Exists(path) {
		return path
	}

	dir, base := filepath.Split(path)
	stem, ext := SplitExt(base)
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, stem+n.suffix(i)+ext)
		if !Exists(candidate) {
			return candidate
		}
	}
}

func (n namer) UniqueDir(parent, stem string) (string, error) {
	if stem == "" {
		stem = Token()
	}
	if err := os.MkdirAll(parent, 0755); err != nil {
		return "", fmt.Errorf("create parent directory %s: %w", parent, err)
	}

	for attempt := 0; attempt < maxDirAttempts; attempt++ {
		candidate := n.Unique(filepath.Join(parent, stem))
		err := os.Mkdir(candidate, 0755)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("create directory %s: %w", candidate, err)
		}
		// Another caller claimed the name between probe and mkdir.
	}
	return "", fmt.Errorf("no free directory name for %s after %d attempts", filepath.Join(parent, stem), maxDirAttempts)
}

// Exists reports whether anything (file, directory or dangling symlink)
// occupies path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// SplitExt splits a file name into stem and extension, treating the known
// compound extensions (".tar.gz" and friends) as one unit. Dotfiles such as
// ".env" have no extension.
func SplitExt(name string) (stem, ext string) {
	lower := strings.ToLower(name)
	for _, compound := range compoundExtensions {
		if len(name) > len(compound) && strings.HasSuffix(lower, compound) {
			return name[:len(name)-len(compound)], name[len(name)-len(compound):]
		}
	}

	ext = filepath.Ext(name)
	stem = strings.TrimSuffix(name, ext)
	if stem == "" {
		return name, ""
	}
	return stem, ext
}
