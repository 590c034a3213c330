package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vermeil/vae/internal/naming"
)

func TestPruneEmpty(t *testing.T) {
	root := t.TempDir()

	writeTree(t, root, []string{
		"keep/file.txt",
		"Leftover/x.bin",
	})
	for _, d := range []string{
		"empty",
		"nested/deeper/deepest",
		"keep/empty-child",
		"Leftover/empty",
		"Bin",
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0755))
	}

	removed, errs := PruneEmpty(root, NewExclusionSet("Leftover", "Bin"))
	assert.Empty(t, errs)
	// empty, nested, nested/deeper, nested/deeper/deepest, keep/empty-child
	assert.Equal(t, 5, removed)

	assert.DirExists(t, root)
	assert.DirExists(t, filepath.Join(root, "keep"))
	assert.NoDirExists(t, filepath.Join(root, "empty"))
	assert.NoDirExists(t, filepath.Join(root, "nested"))
	assert.NoDirExists(t, filepath.Join(root, "keep", "empty-child"))
	assert.DirExists(t, filepath.Join(root, "Leftover", "empty"), "excluded dirs are never entered")
	assert.DirExists(t, filepath.Join(root, "Bin"), "excluded dirs are never removed")
}

func TestPruneEmpty_RootKeptWhenEmpty(t *testing.T) {
	root := t.TempDir()

	removed, errs := PruneEmpty(root, NewExclusionSet())
	assert.Empty(t, errs)
	assert.Zero(t, removed)
	assert.DirExists(t, root)
}

func TestPruneEmpty_MissingRoot(t *testing.T) {
	removed, errs := PruneEmpty(filepath.Join(t.TempDir(), "gone"), NewExclusionSet())
	assert.Zero(t, removed)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], os.ErrNotExist)
}

func TestPruneEmpty_Idempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	// Each generated int encodes one directory path (depth and branch) and
	// whether it holds a file.
	properties.Property("second prune removes nothing", prop.ForAll(
		func(layout []int) bool {
			root, err := os.MkdirTemp("", "prune-prop-")
			if err != nil {
				return false
			}
			defer os.RemoveAll(root)

			for _, n := range layout {
				depth := n%4 + 1
				dir := root
				for d := 0; d < depth; d++ {
					dir = filepath.Join(dir, fmt.Sprintf("d%d", (n>>(d+2))%3))
				}
				if err := os.MkdirAll(dir, 0755); err != nil {
					return false
				}
				if n%5 == 0 {
					if err := os.WriteFile(filepath.Join(dir, "f"), nil, 0644); err != nil {
						return false
					}
				}
			}

			excl := NewExclusionSet()
			if _, errs := PruneEmpty(root, excl); len(errs) != 0 {
				return false
			}
			removed, errs := PruneEmpty(root, excl)
			if len(errs) != 0 || removed != 0 {
				return false
			}

			// Every remaining directory under root must contain a file somewhere.
			for entry, err := range Walk(root, excl) {
				if err != nil || entry.Dir {
					return false
				}
			}
			return noEmptyDirs(root, true)
		},
		gen.SliceOf(gen.IntRange(0, 255)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func noEmptyDirs(dir string, isRoot bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	if len(entries) == 0 && !isRoot {
		return false
	}
	for _, e := range entries {
		if e.IsDir() && !noEmptyDirs(filepath.Join(dir, e.Name()), false) {
			return false
		}
	}
	return true
}

func TestTagExtensionless(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{
		"a/addon",
		"a/addon.gma", // existing name forces disambiguation
		"a/VAE",
		"b/readme.txt",
		"Bin/tool",
	})

	renamed, errs := TagExtensionless(root, NewExclusionSet("Bin"), "gma", []string{"vae"}, naming.NewCounterNamer())
	require.Empty(t, errs)
	require.Len(t, renamed, 1)
	assert.Equal(t, filepath.Join(root, "a", "addon_2.gma"), renamed[0])

	assert.FileExists(t, filepath.Join(root, "a", "addon.gma"))
	assert.FileExists(t, filepath.Join(root, "a", "addon_2.gma"))
	assert.NoFileExists(t, filepath.Join(root, "a", "addon"))
	assert.FileExists(t, filepath.Join(root, "a", "VAE"), "skip names are compared ignoring case")
	assert.FileExists(t, filepath.Join(root, "Bin", "tool"), "excluded dirs are untouched")
}

func TestTagExtensionless_NothingToDo(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{"x.bin", "y.gma"})

	renamed, errs := TagExtensionless(root, NewExclusionSet(), ".gma", nil, naming.NewUUIDNamer())
	assert.Empty(t, errs)
	assert.Empty(t, renamed)
}
