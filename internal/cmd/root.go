package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vermeil/vae/internal/models"
)

// NewRootCommand creates and returns the root cobra command for vae.
// Without a subcommand it shows the interactive menu.
func NewRootCommand(info models.BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vae",
		Short: "Batch extractor for game addons and archives",
		Long: `Vermeil's Addon Extractor unpacks every .bin and .gma addon file, or every
general archive, found under a folder. Extraction runs on several workers;
processed files are moved aside and empty folders are removed.

Run without a command for the interactive menu.

Configuration is loaded from <root>/.vae/config.yaml if present, then from
<root>/.env and VAE_* environment variables. CLI flags override both.

Examples:
  vae                               # Interactive menu
  vae addons --root ~/Downloads     # Extract addons under a folder
  vae archives --yes --workers 4    # Extract archives without confirmation
  vae addons --dry-run              # Report what would be extracted`,
		Version: info.String(),
		Args:    cobra.NoArgs,
		// Silence usage and errors; main reports the error once
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, info)
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.String("root", ".", "Folder to process")
	flags.String("config", "", "Path to config file (default: <root>/.vae/config.yaml)")
	flags.Int("workers", 0, "Concurrent extractions (0 = one per CPU)")
	flags.String("log-level", "info", "Log level: trace, debug, info, warn, error")
	flags.String("log-dir", "", "Directory for run logs (default: <root>/.vae/logs)")
	flags.String("naming", "uuid", "Collision naming: uuid or counter")
	flags.Bool("dry-run", false, "Scan and report without extracting, moving or removing anything")
	flags.Bool("yes", false, "Do not ask for confirmation before extracting archives")

	cmd.AddCommand(NewAddonsCommand())
	cmd.AddCommand(NewArchivesCommand())
	cmd.AddCommand(NewVersionCommand(info))

	return cmd
}
