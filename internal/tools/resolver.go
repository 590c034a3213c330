// Package tools locates the external extraction executables.
package tools

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Logical tool names.
const (
	SevenZip = "7z"
	FastGMAD = "fastgmad"
)

// DefaultMaxPrompts bounds how often the user is asked for a path.
const DefaultMaxPrompts = 3

// ErrToolNotFound is returned when no working executable could be found.
var ErrToolNotFound = errors.New("tool not found")

// bundled maps GOOS to the expected location of each tool under the tools
// directory.
var bundled = map[string]map[string]string{
	"windows": {
		SevenZip: filepath.Join("7-Zip", "7z.exe"),
		FastGMAD: filepath.Join("fastgmad", "fastgmad.exe"),
	},
	"linux": {
		SevenZip: filepath.Join("7-Zip", "7zz"),
		FastGMAD: filepath.Join("fastgmad", "fastgmad"),
	},
	"darwin": {
		SevenZip: filepath.Join("7-Zip", "7zz"),
		FastGMAD: filepath.Join("fastgmad", "fastgmad"),
	},
}

// pathNames are tried on PATH, in order, for each tool.
var pathNames = map[string][]string{
	SevenZip: {"7z", "7zz", "7za"},
	FastGMAD: {"fastgmad"},
}

// PromptFunc asks the user for the location of a tool. It returns io.EOF
// when no more input is available.
type PromptFunc func(tool string) (string, error)

// Resolver finds tool executables. The zero value only consults PATH.
type Resolver struct {
	// ToolsDir holds bundled tools in the per-platform layout.
	ToolsDir string
	// Overrides maps a tool name to an explicit path from config or env.
	Overrides map[string]string
	// GOOS selects the bundled layout; empty means runtime.GOOS.
	GOOS string
	// LookPath searches PATH; nil means exec.LookPath.
	LookPath func(file string) (string, error)
	// Prompt is consulted last; nil disables prompting.
	Prompt PromptFunc
	// MaxPrompts bounds prompting; zero means DefaultMaxPrompts.
	MaxPrompts int
}

// Resolve returns the path of a usable executable for tool. The order is
// explicit override, bundled copy under ToolsDir, PATH, then the prompt.
func (r *Resolver) Resolve(tool string) (string, error) {
	if path := r.Overrides[tool]; path != "" {
		if usable(path) {
			return path, nil
		}
		return "", fmt.Errorf("%w: %s override %q is not an executable file", ErrToolNotFound, tool, path)
	}

	if rel, ok := bundled[r.goos()][tool]; ok && r.ToolsDir != "" {
		path := filepath.Join(r.ToolsDir, rel)
		if usable(path) {
			return path, nil
		}
	}

	lookPath := r.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	names := pathNames[tool]
	if len(names) == 0 {
		names = []string{tool}
	}
	for _, name := range names {
		if path, err := lookPath(name); err == nil {
			return path, nil
		}
	}

	if r.Prompt != nil {
		return r.prompt(tool)
	}
	return "", fmt.Errorf("%w: %s", ErrToolNotFound, tool)
}

func (r *Resolver) prompt(tool string) (string, error) {
	attempts := r.MaxPrompts
	if attempts <= 0 {
		attempts = DefaultMaxPrompts
	}

	for i := 0; i < attempts; i++ {
		answer, err := r.Prompt(tool)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", fmt.Errorf("prompt for %s: %w", tool, err)
		}
		path := strings.Trim(strings.TrimSpace(answer), `"'`)
		if path != "" && usable(path) {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s (gave up after prompting)", ErrToolNotFound, tool)
}

func (r *Resolver) goos() string {
	if r.GOOS != "" {
		return r.GOOS
	}
	return runtime.GOOS
}

// usable reports whether path is an existing regular file.
func usable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// LinePrompter reads one line per question from in and writes the question
// to out.
func LinePrompter(in io.Reader, out io.Writer) PromptFunc {
	scanner := bufio.NewScanner(in)
	return func(tool string) (string, error) {
		fmt.Fprintf(out, "Could not find %s. Enter the full path to the executable: ", tool)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return scanner.Text(), nil
	}
}
