package fileutil

import (
	"os"
	"path/filepath"
)

// PruneEmpty removes directories under root that are empty once their own
// children have been pruned, working bottom-up. root itself is never removed
// and excluded directories are never entered or removed. Errors are collected
// and the affected directory is left in place. Running it twice without
// intervening changes removes nothing the second time.
func PruneEmpty(root string, excl ExclusionSet) (int, []error) {
	var errs []error
	removed, _ := pruneDir(root, excl, true, &errs)
	return removed, errs
}

// pruneDir returns the number of directories removed under (and including)
// dir, and whether dir itself was removed.
func pruneDir(dir string, excl ExclusionSet, isRoot bool, errs *[]error) (int, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		*errs = append(*errs, newScanError(dir, err))
		return 0, false
	}

	removed := 0
	remaining := len(entries)
	for _, entry := range entries {
		if !entry.IsDir() || excl.Contains(entry.Name()) {
			continue
		}
		n, gone := pruneDir(filepath.Join(dir, entry.Name()), excl, false, errs)
		removed += n
		if gone {
			remaining--
		}
	}

	if isRoot || remaining > 0 {
		return removed, false
	}

	if err := os.Remove(dir); err != nil {
		*errs = append(*errs, newScanError(dir, err))
		return removed, false
	}
	return removed + 1, true
}
