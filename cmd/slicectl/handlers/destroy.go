package handlers

import (
	"context"
	"fmt"
)

// Destroy deletes every cluster of the configured topology.
func Destroy(ctx context.Context, configPath string, verbose bool) error {
	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	deployment := newDeployment(cfg, newCloudClient(cfg.LinodeToken), newInstaller(logger), logger)

	deleted, err := deployment.Destroy(ctx)
	if err != nil {
		return fmt.Errorf("destroy failed: %w", err)
	}

	if len(deleted) == 0 {
		fmt.Println("No clusters to delete")
		return nil
	}

	for _, label := range deleted {
		fmt.Printf("  deleted %s\n", label)
	}
	fmt.Printf("Destroyed %d clusters\n", len(deleted))

	return nil
}
