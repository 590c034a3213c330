// Package fileutil enumerates, filters and tidies the directory tree a run
// operates on.
//
// Walk yields regular files lazily, never descending into directories whose
// name is in the run's ExclusionSet (the output, leftover and tools
// directories plus any configured extras). An unreadable subtree produces one
// *ScanError and is skipped so the rest of the tree is still visited.
//
// Find collects matches for a Predicate into a ScanResult. PruneEmpty removes
// directories left empty after relocation, bottom-up, never touching the root
// or excluded directories. TagExtensionless gives bare addon files an
// extension so the next phase can find them.
//
// Files are reported in directory order (os.ReadDir sorts by name), which
// keeps results deterministic for a given tree.
package fileutil
