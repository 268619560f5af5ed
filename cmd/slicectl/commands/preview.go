package commands

import (
	"github.com/spf13/cobra"

	"github.com/sliceops/slicectl/cmd/slicectl/handlers"
)

// Preview returns the command that prints the planned rollout without
// creating anything.
func Preview() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the planned rollout without creating anything",
		Long: `Preview prints every resource the rollout would create, in a valid
evaluation order, with its dependencies. Nothing is created.

Example:
  slicectl preview -c production.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			return handlers.Preview(configPath, verbose)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: slicectl.yaml)")

	return cmd
}
