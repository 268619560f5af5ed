package commands

import (
	"github.com/spf13/cobra"

	"github.com/sliceops/slicectl/cmd/slicectl/handlers"
)

// Destroy returns the destroy command.
//
// The destroy command deletes every LKE cluster of the configured topology.
// Controller-side objects go down with the controller cluster.
func Destroy() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete all clusters of the deployment",
		Long: `Destroy deletes the controller cluster and every worker cluster named
in the configuration. Clusters that no longer exist are skipped.

Example:
  slicectl destroy -c production.yaml

WARNING: This operation is irreversible. All cluster data will be lost.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			return handlers.Destroy(cmd.Context(), configPath, verbose)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
