package linode

import (
	"context"
	"fmt"
	"net/http"

	"github.com/linode/linodego"
	"golang.org/x/oauth2"
)

// RealClient talks to the Linode API.
type RealClient struct {
	api linodego.Client
}

// NewRealClient creates a RealClient authenticating with the given token.
func NewRealClient(token string) *RealClient {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{Source: tokenSource},
	}

	return &RealClient{api: linodego.NewClient(httpClient)}
}

// EnsureCluster implements Client.
func (c *RealClient) EnsureCluster(ctx context.Context, spec ClusterSpec) (*Cluster, error) {
	existing, err := c.findByLabel(ctx, spec.Label)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	opts := linodego.LKEClusterCreateOptions{
		Label:      spec.Label,
		Region:     spec.Region,
		K8sVersion: spec.K8sVersion,
		Tags:       spec.Tags,
	}

	if spec.HighAvailability {
		ha := true
		opts.ControlPlane = &linodego.LKEClusterControlPlaneOptions{HighAvailability: &ha}
	}

	for _, pool := range spec.NodePools {
		poolOpts := linodego.LKENodePoolCreateOptions{
			Type:  pool.Type,
			Count: pool.Count,
		}
		if len(pool.Labels) > 0 {
			poolOpts.Labels = pool.Labels
		}
		opts.NodePools = append(opts.NodePools, poolOpts)
	}

	created, err := c.api.CreateLKECluster(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create LKE cluster %s: %w", spec.Label, err)
	}

	return fromLKECluster(created), nil
}

// Kubeconfig implements Client.
func (c *RealClient) Kubeconfig(ctx context.Context, clusterID int) (string, error) {
	kc, err := c.api.GetLKEClusterKubeconfig(ctx, clusterID)
	if err != nil {
		return "", fmt.Errorf("kubeconfig for cluster %d not available: %w", clusterID, err)
	}
	return kc.KubeConfig, nil
}

// ListClusters implements Client.
func (c *RealClient) ListClusters(ctx context.Context) ([]Cluster, error) {
	clusters, err := c.api.ListLKEClusters(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list LKE clusters: %w", err)
	}

	out := make([]Cluster, 0, len(clusters))
	for i := range clusters {
		out = append(out, *fromLKECluster(&clusters[i]))
	}

	return out, nil
}

// DeleteCluster implements Client.
func (c *RealClient) DeleteCluster(ctx context.Context, clusterID int) error {
	if err := c.api.DeleteLKECluster(ctx, clusterID); err != nil {
		return fmt.Errorf("failed to delete LKE cluster %d: %w", clusterID, err)
	}
	return nil
}

func (c *RealClient) findByLabel(ctx context.Context, label string) (*Cluster, error) {
	clusters, err := c.ListClusters(ctx)
	if err != nil {
		return nil, err
	}

	for i := range clusters {
		if clusters[i].Label == label {
			return &clusters[i], nil
		}
	}

	return nil, nil
}

func fromLKECluster(in *linodego.LKECluster) *Cluster {
	return &Cluster{
		ID:     in.ID,
		Label:  in.Label,
		Region: in.Region,
		Status: string(in.Status),
	}
}
