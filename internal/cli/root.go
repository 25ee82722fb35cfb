package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordbank/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The logger is attached to the command context before any subcommand
// runs, so commands read it with loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Wordbank arranges words into sentences by tap and drag",
		Long: `Wordbank is the engine behind a drag-and-drop sentence builder: words move
between a bank and an answer area that wraps them into lines.

It computes layouts from the command line, runs an interactive board in the
terminal and serves the engine over HTTP.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: $XDG_CONFIG_HOME/wordbank/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
