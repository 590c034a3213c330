package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// FormatDuration renders d as "1h 2m 3.456s", "2m 3.456s" or "3.456s".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d.Seconds()

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %.3fs", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %.3fs", minutes, seconds)
	default:
		return fmt.Sprintf("%.3fs", seconds)
	}
}

// Plural returns "1 file" or "3 files".
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// FormatTag renders a format tag for humans: ".tar.gz" becomes "TAR.GZ".
func FormatTag(tag string) string {
	return strings.ToUpper(strings.TrimPrefix(tag, "."))
}

// IsTerminal reports whether w is a terminal that should receive colors.
// NO_COLOR disables colors everywhere.
func IsTerminal(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Painter colors strings only when enabled.
type Painter struct {
	enabled bool
}

// NewPainter returns a painter that colors output destined for w.
func NewPainter(w io.Writer) Painter {
	return Painter{enabled: IsTerminal(w)}
}

// Paint wraps s in the given attributes.
func (p Painter) Paint(s string, attrs ...color.Attribute) string {
	if !p.enabled {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}
