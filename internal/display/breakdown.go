package display

import (
	"fmt"
	"io"

	"github.com/vermeil/vae/internal/models"
)

// Breakdown prints one "  ZIP: 3" line per format with a non-zero count.
func Breakdown(w io.Writer, counts models.Tally) {
	for _, tag := range counts.Tags() {
		if n := counts[tag]; n > 0 {
			fmt.Fprintf(w, "  %s: %d\n", FormatTag(tag), n)
		}
	}
}
