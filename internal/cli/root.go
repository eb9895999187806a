package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "gastos",
	Short:         "A month-scoped personal expense ledger",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		LoadEnvFile()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(monthCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the command named on the command line.
func Execute() error {
	return rootCmd.Execute()
}
