package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vermeil/vae/internal/display"
	"github.com/vermeil/vae/internal/models"
)

// Menu actions, matched against the item titles of the help document.
const (
	actionAddons   = "Extract addons"
	actionArchives = "Extract archives"
	actionHelp     = "Help"
	actionExit     = "Exit"
)

// runMenu shows the banner and loops on the menu until the user exits,
// input ends or the process is interrupted. A failed run is reported and
// the menu is shown again.
func runMenu(cmd *cobra.Command, info models.BuildInfo) error {
	doc, err := display.LoadHelp()
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()
	in := newLineInput(ctx, cmd.InOrStdin())
	interactive := isInteractive(cmd.InOrStdin())

	display.Banner(out, info)
	for {
		doc.RenderMenu(out)
		fmt.Fprintf(out, "Enter your choice (%s): ", doc.KeyRange())

		line, err := in.ReadLine()
		if err != nil {
			fmt.Fprintln(out, "\nExiting...")
			return ctx.Err()
		}

		item, ok := doc.Lookup(line)
		if !ok {
			fmt.Fprintf(out, "Invalid choice: Please select %s\n\n", doc.KeyRange())
			continue
		}

		var runErr error
		switch item.Title {
		case actionAddons:
			runErr = runMode(cmd, in, interactive, runAddons)
		case actionArchives:
			runErr = runMode(cmd, in, interactive, runArchives)
		case actionHelp:
			doc.RenderHelp(out)
			continue
		case actionExit:
			fmt.Fprintln(out, "Exiting...")
			return nil
		}

		if ctx.Err() != nil || errors.Is(runErr, display.ErrNotConfirmed) {
			fmt.Fprintln(out, "\nExiting...")
			return ctx.Err()
		}
		if runErr != nil && !errors.Is(runErr, ErrFailures) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", runErr)
		}
		fmt.Fprintln(out)
	}
}
