package handlers

import (
	"fmt"
	"strings"
)

// Preview prints the planned rollout in evaluation order without creating
// anything.
func Preview(configPath string, verbose bool) error {
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

	steps, err := deployment.Preview()
	if err != nil {
		return err
	}

	fmt.Printf("Planned rollout (%d resources):\n\n", len(steps))
	for i, step := range steps {
		if len(step.DependsOn) == 0 {
			fmt.Printf("  %2d. %s\n", i+1, step.Name)
			continue
		}
		fmt.Printf("  %2d. %s  (after %s)\n", i+1, step.Name, strings.Join(step.DependsOn, ", "))
	}

	return nil
}
