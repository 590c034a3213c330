package display

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// ErrNotConfirmed is returned when input ends before the confirmation
// phrase was typed.
var ErrNotConfirmed = errors.New("confirmation not given")

// ConfirmPhrase is what the user types to acknowledge the extraction warning.
const ConfirmPhrase = "I understand"

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Lines      []string // Body lines, shown inside the box
	Suggestion string   // Action to take (optional)
}

// InUseWarning tells the user to close programs that hold addon files open
// before files are moved.
func InUseWarning() Warning {
	return Warning{
		Title: "WARNING!",
		Lines: []string{
			"Please close ALL programs using:",
			"• .gma addon files",
			"• .bin files",
			"• any archive in this folder",
			"If these files are in use, moving them will fail.",
		},
	}
}

// Display draws the warning inside a box, in yellow on terminals.
func (w Warning) Display(out io.Writer) {
	p := NewPainter(out)

	lines := append([]string{"⚠  " + w.Title}, w.Lines...)
	if w.Suggestion != "" {
		lines = append(lines, "", w.Suggestion)
	}

	width := 0
	for _, line := range lines {
		width = max(width, utf8.RuneCountInString(line))
	}
	width += 2

	var b strings.Builder
	b.WriteString("┌" + strings.Repeat("─", width) + "┐\n")
	for _, line := range lines {
		pad := width - 1 - utf8.RuneCountInString(line)
		b.WriteString("│ " + line + strings.Repeat(" ", pad) + "│\n")
	}
	b.WriteString("└" + strings.Repeat("─", width) + "┘\n")

	fmt.Fprint(out, p.Paint(b.String(), color.FgYellow))
}

// Confirm asks until the user types phrase (ignoring case and surrounding
// space). It returns ErrNotConfirmed when input ends first.
func Confirm(in io.Reader, out io.Writer, phrase string) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "Type '%s' to continue: ", phrase)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			if err := scanner.Err(); err != nil {
				return err
			}
			return ErrNotConfirmed
		}
		if strings.EqualFold(strings.TrimSpace(scanner.Text()), phrase) {
			return nil
		}
	}
}
