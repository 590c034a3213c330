package cmd

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vermeil/vae/internal/config"
	"github.com/vermeil/vae/internal/filelock"
	"github.com/vermeil/vae/internal/models"
	"github.com/vermeil/vae/internal/tools"
)

var testInfo = models.NewBuildInfo("Vermeil's Addon Extractor", "1.2.3", "abc123", "2026-01-01")

// execute runs the root command with the given stdin and arguments.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvHome, "")
	t.Setenv("NO_COLOR", "1")

	root := NewRootCommand(testInfo)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestArchivesCommand(t *testing.T) {
	root := t.TempDir()
	writeZip(t, filepath.Join(root, "a", "report.zip"), map[string]string{"readme.txt": "hello"})
	writeFile(t, filepath.Join(root, "b", "bad.zip"), "not a zip")
	writeFile(t, filepath.Join(root, "notes.txt"), "keep")

	out, _, err := execute(t, "", "archives", "--root", root, "--yes", "--naming", "counter")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFailures), "got %v", err)

	assert.Contains(t, out, "• Found 2 archives")
	assert.Contains(t, out, "  ZIP: 2")
	assert.Contains(t, out, "bad.zip: CORRUPT_OR_UNSUPPORTED")
	assert.Contains(t, out, "=== Archives Summary ===")

	data, err := os.ReadFile(filepath.Join(root, "report", "readme.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.NoDirExists(t, filepath.Join(root, "bad"), "failed extraction leaves no output")

	assert.FileExists(t, filepath.Join(root, "Leftover", "report.zip"))
	assert.FileExists(t, filepath.Join(root, "Leftover", "bad.zip"))
	assert.NoDirExists(t, filepath.Join(root, "a"))
	assert.NoDirExists(t, filepath.Join(root, "b"))
	assert.FileExists(t, filepath.Join(root, "notes.txt"))

	assert.NoFileExists(t, filepath.Join(root, filelock.LockName))

	report, err := os.ReadFile(filepath.Join(root, ".vae", "logs", ReportName))
	require.NoError(t, err)
	assert.Contains(t, string(report), "mode: archives")
	assert.Contains(t, string(report), "kind: CORRUPT_OR_UNSUPPORTED")
}

func TestArchivesCommandRequiresConfirmation(t *testing.T) {
	root := t.TempDir()
	writeZip(t, filepath.Join(root, "report.zip"), map[string]string{"readme.txt": "hello"})

	out, _, err := execute(t, "no\n", "archives", "--root", root)

	require.Error(t, err)
	assert.Contains(t, out, "WARNING!")
	assert.Equal(t, 2, strings.Count(out, "Type 'I understand' to continue: "))
	assert.FileExists(t, filepath.Join(root, "report.zip"), "nothing happens without confirmation")
}

func TestArchivesCommandLocked(t *testing.T) {
	root := t.TempDir()
	lock, err := filelock.Acquire(root)
	require.NoError(t, err)
	defer lock.Release()

	_, _, err = execute(t, "", "archives", "--root", root, "--yes")
	assert.True(t, errors.Is(err, filelock.ErrLocked), "got %v", err)
}

func TestAddonsCommandMissingTools(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "x.bin"), "bin")
	t.Setenv("PATH", "")
	t.Setenv(config.EnvSevenZip, "")
	t.Setenv(config.EnvFastGMAD, "")

	_, _, err := execute(t, "", "addons", "--root", root)

	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrToolNotFound), "got %v", err)
	assert.FileExists(t, filepath.Join(root, "a", "x.bin"))
}

func TestAddonsCommandDryRun(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "x.bin"), "bin")
	writeFile(t, filepath.Join(root, "a", "sub", "y.gma"), "gma")
	t.Setenv("PATH", "")

	out, _, err := execute(t, "", "addons", "--root", root, "--dry-run")

	require.NoError(t, err)
	assert.Contains(t, out, "Searching: 1 .bin files")
	assert.Contains(t, out, "Searching: 1 .gma files")
	assert.Contains(t, out, "Dry run")
	assert.FileExists(t, filepath.Join(root, "a", "x.bin"))
	assert.FileExists(t, filepath.Join(root, "a", "sub", "y.gma"))
	assert.NoDirExists(t, filepath.Join(root, "Leftover"))
}

// fakeTool writes a shell script standing in for an extraction tool.
func fakeTool(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func TestAddonsCommandTraceLevel(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a", "x.bin")
	writeFile(t, src, "bin")
	t.Setenv("PATH", "")
	t.Setenv(config.EnvSevenZip, "")
	t.Setenv(config.EnvFastGMAD, "")

	out, _, err := execute(t, "", "addons", "--root", root, "--dry-run", "--log-level", "trace")
	require.NoError(t, err)
	assert.Contains(t, out, "[TRACE] 7z command: 7z x <src> -o<dst> -y")
	assert.Contains(t, out, "[TRACE] fastgmad command: fastgmad extract -file <src> -out <dst>")
	assert.Contains(t, out, "[TRACE] Queued "+src)

	out, _, err = execute(t, "", "addons", "--root", root, "--dry-run", "--log-level", "debug")
	require.NoError(t, err)
	assert.NotContains(t, out, "[TRACE]")
}

func TestAddonsCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}

	toolDir := t.TempDir()
	// 7z x <src> -o<dst> -y
	sevenZip := fakeTool(t, toolDir, "7z", `dst="${3#-o}"
printf 'addon' > "$dst/inner"
`)
	// fastgmad extract -file <src> -out <dst>
	fastgmad := fakeTool(t, toolDir, "fastgmad", `mkdir -p "$5"
printf 'print(1)' > "$5/init.lua"
`)
	t.Setenv(config.EnvSevenZip, sevenZip)
	t.Setenv(config.EnvFastGMAD, fastgmad)

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "x.bin"), "bin")
	writeFile(t, filepath.Join(root, "a", "sub", "y.gma"), "gma")
	writeFile(t, filepath.Join(root, "Bin", "readme"), "tools live here")

	out, _, err := execute(t, "", "addons", "--root", root, "--workers", "2", "--naming", "counter")
	require.NoError(t, err, out)

	assert.FileExists(t, filepath.Join(root, "Extracted-Addons", "inner", "init.lua"))
	assert.FileExists(t, filepath.Join(root, "Extracted-Addons", "y", "init.lua"))
	for _, name := range []string{"x.bin", "inner.gma", "y.gma"} {
		assert.FileExists(t, filepath.Join(root, "Leftover", name))
	}
	assert.NoDirExists(t, filepath.Join(root, "a"))
	assert.FileExists(t, filepath.Join(root, "Bin", "readme"), "excluded directories are untouched")

	assert.Contains(t, out, "Tagged extensionless files: 1")
	assert.Contains(t, out, "Total extracted: 3")
}

func TestInvalidFlagValues(t *testing.T) {
	root := t.TempDir()

	_, _, err := execute(t, "", "addons", "--root", root, "--naming", "random")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	_, _, err = execute(t, "", "addons", "--root", filepath.Join(root, "missing"))
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, strings.Repeat("=", 75))
	assert.Contains(t, out, "Vermeil's Addon Extractor 1.2.3, "+testInfo.Platform()+".")
	assert.Contains(t, out, "Build Date: 2026-01-01.")
	assert.Contains(t, out, "commit abc123")
}
