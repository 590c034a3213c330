package fileutil

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/vermeil/vae/internal/models"
)

func writeTree(t *testing.T, root string, files []string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte("test content"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
}

func relNames(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatalf("rel %s: %v", p, err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

// hasSuffix matches names ending in any of the suffixes, ignoring case.
func hasSuffix(suffixes ...string) Predicate {
	return func(name string) bool {
		lower := strings.ToLower(name)
		for _, s := range suffixes {
			if !strings.HasPrefix(s, ".") {
				s = "." + s
			}
			if len(lower) > len(s) && strings.HasSuffix(lower, strings.ToLower(s)) {
				return true
			}
		}
		return false
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFind(t *testing.T) {
	tmpDir := t.TempDir()

	// tmpDir/
	//   a/x.bin
	//   a/sub/y.gma
	//   a/sub/Bin/nested.gma  (excluded at depth)
	//   Bin/7z.bin            (excluded)
	//   Leftover/old.gma      (excluded)
	//   pack.ZIP
	//   notes.txt
	//   .zip
	//   addon
	writeTree(t, tmpDir, []string{
		"a/x.bin",
		"a/sub/y.gma",
		"a/sub/Bin/nested.gma",
		"Bin/7z.bin",
		"Leftover/old.gma",
		"pack.ZIP",
		"notes.txt",
		".zip",
		"addon",
	})

	excl := NewExclusionSet("Bin", "Leftover", "Extracted-Addons")

	tests := []struct {
		name string
		pred Predicate
		want []string
	}{
		{
			name: "bin files outside excluded dirs",
			pred: hasSuffix(".bin"),
			want: []string{"a/x.bin"},
		},
		{
			name: "gma excluded at any depth",
			pred: hasSuffix(".gma"),
			want: []string{"a/sub/y.gma"},
		},
		{
			name: "case insensitive and name longer than suffix",
			pred: hasSuffix("zip"),
			want: []string{"pack.ZIP"},
		},
		{
			name: "several suffixes",
			pred: hasSuffix(".bin", ".gma"),
			want: []string{"a/sub/y.gma", "a/x.bin"},
		},
		{
			name: "no extension",
			pred: HasNoExtension,
			want: []string{"addon"},
		},
		{
			name: "nil predicate matches everything",
			pred: nil,
			want: []string{".zip", "a/sub/y.gma", "a/x.bin", "addon", "notes.txt", "pack.ZIP"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Find(tmpDir, tt.pred, excl)
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}
			if len(result.Errors) != 0 {
				t.Errorf("Find() errors = %v, want none", result.Errors)
			}
			got := relNames(t, tmpDir, result.Files)
			if !equalStrings(got, tt.want) {
				t.Errorf("Find() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFind_InvalidRoot(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := Find(filepath.Join(tmpDir, "missing"), nil, NewExclusionSet()); err == nil {
		t.Error("expected error for missing root")
	}

	file := filepath.Join(tmpDir, "file.txt")
	writeTree(t, tmpDir, []string{"file.txt"})
	if _, err := Find(file, nil, NewExclusionSet()); err == nil {
		t.Error("expected error when root is a file")
	}
}

func TestFind_RootNameNotExcluded(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "Bin")
	writeTree(t, root, []string{"inner.bin"})

	result, err := Find(root, hasSuffix(".bin"), NewExclusionSet("Bin"))
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(result.Files) != 1 {
		t.Errorf("expected root to be scanned even though its name is excluded, got %v", result.Files)
	}
}

func TestWalk_UnreadableSubtree(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"ok/a.zip", "locked/b.zip", "c.zip"})

	locked := filepath.Join(tmpDir, "locked")
	if err := os.Chmod(locked, 0000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	var files []string
	var errs []error
	for entry, err := range Walk(tmpDir, NewExclusionSet()) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, entry.Path)
	}

	if len(errs) != 1 {
		t.Fatalf("expected exactly one scan error, got %v", errs)
	}
	scanErr, ok := errs[0].(*ScanError)
	if !ok {
		t.Fatalf("expected *ScanError, got %T", errs[0])
	}
	if scanErr.Path != locked {
		t.Errorf("ScanError.Path = %s, want %s", scanErr.Path, locked)
	}
	if models.Classify(scanErr) != models.FailurePermissionDenied {
		t.Errorf("Classify() = %s, want %s", models.Classify(scanErr), models.FailurePermissionDenied)
	}

	got := relNames(t, tmpDir, files)
	want := []string{"c.zip", "ok/a.zip"}
	if !equalStrings(got, want) {
		t.Errorf("Walk() = %v, want %v", got, want)
	}
}

func TestWalk_StopsEarly(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"a.zip", "b.zip", "c/d.zip", "e.zip"})

	count := 0
	for range Walk(tmpDir, NewExclusionSet()) {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("expected iteration to stop after 2, got %d", count)
	}
}

func TestWalk_SkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	tmpDir := t.TempDir()
	outside := t.TempDir()
	writeTree(t, outside, []string{"elsewhere.zip"})
	writeTree(t, tmpDir, []string{"real.zip"})

	if err := os.Symlink(outside, filepath.Join(tmpDir, "linkdir")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	if err := os.Symlink(filepath.Join(outside, "elsewhere.zip"), filepath.Join(tmpDir, "link.zip")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	result, err := Find(tmpDir, hasSuffix(".zip"), NewExclusionSet())
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	got := relNames(t, tmpDir, result.Files)
	if !equalStrings(got, []string{"real.zip"}) {
		t.Errorf("Find() = %v, want only real.zip", got)
	}
}

func TestExclusionSet(t *testing.T) {
	set := NewExclusionSet("Leftover", "", "Bin", "Leftover")

	if !set.Contains("Bin") || !set.Contains("Leftover") {
		t.Error("expected Bin and Leftover to be excluded")
	}
	if set.Contains("bin") {
		t.Error("names are compared exactly")
	}
	if set.Contains("") {
		t.Error("empty name must not be excluded")
	}
}
