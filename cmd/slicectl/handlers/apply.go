// Package handlers implements the business logic for CLI commands.
//
// Handlers are framework-agnostic and can be tested independently of the
// CLI framework. Collaborators are created through package-level factory
// variables so tests can inject fakes.
package handlers

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/sliceops/slicectl/internal/config"
	"github.com/sliceops/slicectl/internal/deploy"
	"github.com/sliceops/slicectl/internal/k8s"
	"github.com/sliceops/slicectl/internal/platform/linode"
)

// Deployer is the deployment surface the handlers drive. Matches
// *deploy.Deployment.
type Deployer interface {
	Apply(ctx context.Context) (*deploy.Summary, error)
	Preview() ([]deploy.Step, error)
	Destroy(ctx context.Context) ([]string, error)
}

// Factory function variables - can be replaced in tests for dependency
// injection.
var (
	findConfigFile = config.FindConfigFile
	loadConfigFile = config.LoadFile

	newLogger = buildLogger

	newCloudClient = func(token string) linode.Client {
		return linode.NewRealClient(token)
	}

	newInstaller = func(logger *zap.Logger) k8s.ChartInstaller {
		return k8s.NewHelmClient(logger)
	}

	newDeployment = func(cfg *config.Config, cloud linode.Client, installer k8s.ChartInstaller, logger *zap.Logger, opts ...deploy.Option) Deployer {
		return deploy.New(cfg, cloud, installer, logger, opts...)
	}
)

// ApplyOptions carries the apply command's flags.
type ApplyOptions struct {
	ConfigPath    string
	KubeconfigDir string
	Verbose       bool
}

// Apply provisions the clusters and rolls out the slicing platform.
//
// The rollout is evaluated as a dependency graph: independent branches run
// concurrently and a branch failure skips only its dependents, so one run
// reports every broken branch. A per-resource summary is printed at the end
// regardless of outcome.
func Apply(ctx context.Context, opts ApplyOptions) error {
	logger, err := newLogger(opts.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	deployment := newDeployment(cfg,
		newCloudClient(cfg.LinodeToken),
		newInstaller(logger),
		logger,
		deploy.WithKubeconfigDir(opts.KubeconfigDir))

	summary, err := deployment.Apply(ctx)
	if summary != nil {
		printSummary(summary)
	}
	if err != nil {
		return fmt.Errorf("rollout failed: %w", err)
	}

	fmt.Printf("\nRollout complete: %d resources created in %s\n", summary.Created, summary.Duration)
	return nil
}

func printSummary(summary *deploy.Summary) {
	names := make([]string, 0, len(summary.Results))
	for name := range summary.Results {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println()
	for _, name := range names {
		res := summary.Results[name]
		switch {
		case res.Err != nil:
			fmt.Printf("  %-8s %s (%v)\n", res.Status, name, res.Err)
		case res.Duration > 0:
			fmt.Printf("  %-8s %s (%s)\n", res.Status, name, res.Duration)
		default:
			fmt.Printf("  %-8s %s\n", res.Status, name)
		}
	}
}

func loadConfig(explicit string) (*config.Config, error) {
	path, err := findConfigFile(explicit)
	if err != nil {
		return nil, err
	}
	return loadConfigFile(path)
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.EncodeTime = nil
	return cfg.Build()
}
