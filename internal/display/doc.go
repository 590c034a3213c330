// Package display renders the user-facing parts of the CLI: the build
// banner, the menu and help text, the warning box with its typed
// confirmation, per-format breakdowns and durations.
//
// The menu and help content live in help.md, embedded at build time and
// parsed with goldmark, so the text can change without touching code:
//
//	doc, err := display.LoadHelp()
//	if err != nil {
//	    return err
//	}
//	doc.RenderMenu(os.Stdout)
//
// Colors come from fatih/color and are only used when the writer is a
// terminal.
package display
