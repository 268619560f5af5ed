// Package linode provisions managed LKE clusters. The Client interface
// isolates the Linode API surface the deployment needs; RealClient
// implements it over the linodego SDK.
package linode

import "context"

// NodePoolSpec sizes one node pool.
type NodePoolSpec struct {
	// Type is the Linode instance type, e.g. g6-standard-2.
	Type string

	// Count is the number of nodes in the pool.
	Count int

	// Labels are applied to every node in the pool.
	Labels map[string]string
}

// ClusterSpec defines one managed cluster. Immutable once resolved from
// configuration.
type ClusterSpec struct {
	Label            string
	Region           string
	K8sVersion       string
	Tags             []string
	HighAvailability bool
	NodePools        []NodePoolSpec
}

// Cluster is the provisioned cluster handle.
type Cluster struct {
	ID     int
	Label  string
	Region string
	Status string
}

// Client is the Linode API surface used by the deployment.
type Client interface {
	// EnsureCluster creates the cluster or returns the existing one with
	// the same label, so re-runs converge.
	EnsureCluster(ctx context.Context, spec ClusterSpec) (*Cluster, error)

	// Kubeconfig returns the cluster's base64-encoded access-config blob.
	// Returns an error until the cluster has provisioned far enough for
	// the API to serve it.
	Kubeconfig(ctx context.Context, clusterID int) (string, error)

	// ListClusters returns all LKE clusters on the account.
	ListClusters(ctx context.Context) ([]Cluster, error)

	// DeleteCluster deletes a cluster by ID.
	DeleteCluster(ctx context.Context, clusterID int) error
}
