// Package config defines the deployment configuration and its resolution
// rules: defaults, validation, and chart-repository selection.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config holds the full deployment configuration.
type Config struct {
	// LinodeToken authenticates against the Linode API. Falls back to the
	// LINODE_TOKEN environment variable when unset in the file.
	LinodeToken string `yaml:"linode_token"`

	// ControllerRegion is the region for the controller cluster. Required.
	ControllerRegion string `yaml:"region"`

	// LKEVersion is the Kubernetes version for every cluster.
	// Default: "1.31".
	LKEVersion string `yaml:"lke_version"`

	// Controller node pool sizing. Defaults: g6-standard-1 x3.
	ControllerNodeType  string `yaml:"controller_node_type"`
	ControllerNodeCount int    `yaml:"controller_node_count"`

	// Cluster-wide defaults for worker pools, overridable per worker.
	// Defaults: g6-standard-2 x3 (workload), g6-standard-2 x1 (gateway).
	WorkerNodeType  string `yaml:"worker_node_type"`
	WorkerNodeCount int    `yaml:"worker_node_count"`
	GatewayNodeType string `yaml:"gw_node_type"`
	GatewayNodeQty  int    `yaml:"gw_node_count"`

	// Workers maps worker-cluster name to its definition. Required,
	// at least one entry. Declaration order is preserved.
	Workers WorkerClusters `yaml:"worker_clusters"`

	// Enterprise selects the enterprise chart repository and enables
	// license/image-pull/metrics extras.
	Enterprise EnterpriseConfig `yaml:"enterprise"`
}

// WorkerCluster defines one worker cluster.
type WorkerCluster struct {
	Region          string `yaml:"region"`
	WorkerNodeType  string `yaml:"worker_node_type"`
	WorkerNodeCount int    `yaml:"worker_node_count"`
	GatewayNodeType string `yaml:"gw_node_type"`
	GatewayNodeQty  int    `yaml:"gw_node_count"`

	// Sample application placement flags.
	ApplicationFrontend bool `yaml:"application_frontend"`
	ApplicationBackend  bool `yaml:"application_backend"`
}

// EnterpriseConfig holds the enterprise toggle and registry credentials.
type EnterpriseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Email    string `yaml:"email"`
}

// WorkerClusters is an ordered name -> WorkerCluster map. YAML mappings lose
// declaration order through map[string]; slice membership lists must be
// deterministic, so order is recorded at decode time.
type WorkerClusters struct {
	names    []string
	clusters map[string]WorkerCluster
}

// UnmarshalYAML decodes the mapping while recording key order.
func (w *WorkerClusters) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("worker_clusters must be a mapping")
	}

	w.clusters = make(map[string]WorkerCluster, len(value.Content)/2)
	w.names = nil

	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]

		var name string
		if err := keyNode.Decode(&name); err != nil {
			return fmt.Errorf("decoding worker cluster name: %w", err)
		}
		if _, dup := w.clusters[name]; dup {
			return fmt.Errorf("duplicate worker cluster %q", name)
		}

		var cluster WorkerCluster
		if err := valNode.Decode(&cluster); err != nil {
			return fmt.Errorf("decoding worker cluster %q: %w", name, err)
		}

		w.names = append(w.names, name)
		w.clusters[name] = cluster
	}

	return nil
}

// Names returns worker names in declaration order.
func (w *WorkerClusters) Names() []string {
	out := make([]string, len(w.names))
	copy(out, w.names)
	return out
}

// Get returns the definition for a named worker.
func (w *WorkerClusters) Get(name string) (WorkerCluster, bool) {
	c, ok := w.clusters[name]
	return c, ok
}

// Len returns the number of workers.
func (w *WorkerClusters) Len() int { return len(w.names) }

// Set inserts or replaces a worker definition, keeping order. Used by tests
// and programmatic construction.
func (w *WorkerClusters) Set(name string, cluster WorkerCluster) {
	if w.clusters == nil {
		w.clusters = make(map[string]WorkerCluster)
	}
	if _, exists := w.clusters[name]; !exists {
		w.names = append(w.names, name)
	}
	w.clusters[name] = cluster
}
