package config

import "fmt"

// Validate checks required keys and returns a descriptive error on the first
// violation. Validation runs before any resource is declared; a failure here
// aborts the run with nothing created.
func (c *Config) Validate() error {
	if c.LinodeToken == "" {
		return fmt.Errorf("linode_token is required (set it in the config file or the LINODE_TOKEN environment variable)")
	}
	if c.ControllerRegion == "" {
		return fmt.Errorf("region is required")
	}
	if c.Workers.Len() == 0 {
		return fmt.Errorf("worker_clusters is required and must define at least one cluster")
	}

	if c.ControllerNodeCount < 1 {
		return fmt.Errorf("controller_node_count must be positive, got %d", c.ControllerNodeCount)
	}

	for _, name := range c.Workers.Names() {
		w, _ := c.Workers.Get(name)
		if w.Region == "" {
			return fmt.Errorf("worker cluster %q: region is required", name)
		}
		if w.WorkerNodeCount < 1 {
			return fmt.Errorf("worker cluster %q: worker_node_count must be positive, got %d", name, w.WorkerNodeCount)
		}
		if w.GatewayNodeQty < 1 {
			return fmt.Errorf("worker cluster %q: gw_node_count must be positive, got %d", name, w.GatewayNodeQty)
		}
	}

	if c.Enterprise.Enabled {
		if c.Enterprise.Username == "" || c.Enterprise.Password == "" || c.Enterprise.Email == "" {
			return fmt.Errorf("enterprise.username, enterprise.password and enterprise.email are required when enterprise.enabled is true")
		}
	}

	return nil
}
