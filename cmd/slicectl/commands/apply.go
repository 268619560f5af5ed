package commands

import (
	"github.com/spf13/cobra"

	"github.com/sliceops/slicectl/cmd/slicectl/handlers"
)

// Apply returns the command that provisions the clusters and rolls out the
// slicing platform.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: auto-detect slicectl.yaml)
//	--kubeconfig-dir: Directory for per-cluster kubeconfig files (default: .)
//
// Environment variables:
//
//	LINODE_TOKEN: Linode API token (used when linode_token is unset in the config)
func Apply() *cobra.Command {
	var (
		configPath    string
		kubeconfigDir string
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create the clusters and deploy the slicing platform",
		Long: `Create the controller and worker clusters on Linode LKE and deploy
the slicing platform onto them.

The rollout provisions every cluster, installs the control plane and
worker-agent charts, registers each worker on the controller, declares a
slice spanning them, and places the sample application per the
configuration's frontend/backend flags.

Re-running apply converges: existing clusters and releases are reused or
upgraded in place.

Examples:
  # Deploy using slicectl.yaml in the current directory
  slicectl apply

  # Deploy using a specific config file
  slicectl apply -c production.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			return handlers.Apply(cmd.Context(), handlers.ApplyOptions{
				ConfigPath:    configPath,
				KubeconfigDir: kubeconfigDir,
				Verbose:       verbose,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: slicectl.yaml)")
	cmd.Flags().StringVar(&kubeconfigDir, "kubeconfig-dir", ".", "Directory for per-cluster kubeconfig files")

	return cmd
}
