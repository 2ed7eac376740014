package cmd

import (
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// fs is where seed files are read from. Tests swap in a MemMapFs.
var fs = afero.NewOsFs()

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "biodex-cli",
		Short: "Biodex CLI tool",
		Long: `Biodex CLI manages a Biodex installation from the command line.

Use "biodex-cli [command] --help" for more information about a command.`,
		SilenceUsage: true,
	}
	root.AddCommand(newVersionCmd(), newKingdomsCmd(), newSeedCmd())
	return root
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
