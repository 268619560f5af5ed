package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no --config
// flag is given.
const DefaultConfigFile = "slicectl.yaml"

// LoadFile reads, defaults, and validates the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Load(data)
}

// Load parses configuration from raw YAML.
func Load(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// FindConfigFile returns the explicit path when given, otherwise the default
// file if it exists in the working directory.
func FindConfigFile(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if _, err := os.Stat(DefaultConfigFile); err != nil {
		return "", fmt.Errorf("no config file found: pass --config or create %s", DefaultConfigFile)
	}
	return DefaultConfigFile, nil
}

// applyDefaults fills optional keys with fixed defaults. Per-worker pool
// settings inherit the cluster-wide defaults.
func (c *Config) applyDefaults() {
	if c.LinodeToken == "" {
		c.LinodeToken = os.Getenv("LINODE_TOKEN")
	}
	if c.LKEVersion == "" {
		c.LKEVersion = DefaultLKEVersion
	}
	if c.ControllerNodeType == "" {
		c.ControllerNodeType = DefaultControllerNodeType
	}
	if c.ControllerNodeCount == 0 {
		c.ControllerNodeCount = DefaultControllerNodeCount
	}
	if c.WorkerNodeType == "" {
		c.WorkerNodeType = DefaultWorkerNodeType
	}
	if c.WorkerNodeCount == 0 {
		c.WorkerNodeCount = DefaultWorkerNodeCount
	}
	if c.GatewayNodeType == "" {
		c.GatewayNodeType = DefaultGatewayNodeType
	}
	if c.GatewayNodeQty == 0 {
		c.GatewayNodeQty = DefaultGatewayNodeCount
	}

	for _, name := range c.Workers.Names() {
		w, _ := c.Workers.Get(name)
		if w.WorkerNodeType == "" {
			w.WorkerNodeType = c.WorkerNodeType
		}
		if w.WorkerNodeCount == 0 {
			w.WorkerNodeCount = c.WorkerNodeCount
		}
		if w.GatewayNodeType == "" {
			w.GatewayNodeType = c.GatewayNodeType
		}
		if w.GatewayNodeQty == 0 {
			w.GatewayNodeQty = c.GatewayNodeQty
		}
		c.Workers.Set(name, w)
	}
}
