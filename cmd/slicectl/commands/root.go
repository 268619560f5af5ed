// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing and flag binding. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the slicectl CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slicectl",
		Short: "Provision a KubeSlice deployment on Linode LKE",
	}

	cmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	cmd.AddCommand(Apply())
	cmd.AddCommand(Preview())
	cmd.AddCommand(Destroy())
	cmd.AddCommand(Version())

	return cmd
}
