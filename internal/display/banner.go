package display

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/fatih/color"

	"github.com/vermeil/vae/internal/models"
)

const ruleWidth = 75

// bannerLibraries are the extraction libraries reported in the banner.
var bannerLibraries = []struct {
	label string
	path  string
}{
	{"xtractr", "golift.io/xtractr"},
	{"iso9660", "github.com/kdomanski/iso9660"},
}

// Banner prints the product name, version, platform and build details
// between two rules.
func Banner(w io.Writer, info models.BuildInfo) {
	p := NewPainter(w)
	rule := strings.Repeat("=", ruleWidth)

	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "%s %s, %s.\n", p.Paint(info.Name, color.Bold), info.Version, info.Platform())
	fmt.Fprintf(w, "Build Date: %s.\n", info.BuildDate)
	fmt.Fprintf(w, "Build Info: %s.\n", strings.Join(buildDetails(info), ", "))
	fmt.Fprintf(w, "%s\n\n", rule)
}

func buildDetails(info models.BuildInfo) []string {
	details := []string{info.GoVersion}
	if info.Commit != "" {
		details = append(details, "commit "+info.Commit)
	}

	versions := dependencyVersions()
	for _, lib := range bannerLibraries {
		if v, ok := versions[lib.path]; ok {
			details = append(details, fmt.Sprintf("%s %s", lib.label, v))
		}
	}
	return details
}

// dependencyVersions reads module versions embedded by the Go toolchain.
func dependencyVersions() map[string]string {
	versions := make(map[string]string)
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return versions
	}
	for _, dep := range bi.Deps {
		if dep.Replace != nil {
			dep = dep.Replace
		}
		versions[dep.Path] = dep.Version
	}
	return versions
}
