package linode

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sliceops/slicectl/internal/k8s"
)

// DefaultKubeconfigTimeout bounds how long a fresh cluster may take to
// serve its kubeconfig. LKE clusters usually serve one within a couple
// of minutes of creation.
const DefaultKubeconfigTimeout = 10 * time.Minute

// Provisioner creates clusters and waits until they are reachable.
type Provisioner struct {
	client            Client
	logger            *zap.Logger
	kubeconfigTimeout time.Duration
}

// NewProvisioner creates a Provisioner over the given API client.
func NewProvisioner(client Client, logger *zap.Logger) *Provisioner {
	return &Provisioner{
		client:            client,
		logger:            logger.Named("linode"),
		kubeconfigTimeout: DefaultKubeconfigTimeout,
	}
}

// ProvisionCluster ensures the cluster exists and blocks until its
// kubeconfig is served, returning the parsed access configuration.
func (p *Provisioner) ProvisionCluster(ctx context.Context, spec ClusterSpec) (*Cluster, *k8s.Kubeconfig, error) {
	logger := p.logger.With(zap.String("cluster", spec.Label), zap.String("region", spec.Region))
	logger.Info("ensuring cluster")

	cluster, err := p.client.EnsureCluster(ctx, spec)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("cluster present", zap.Int("id", cluster.ID), zap.String("status", cluster.Status))

	var encoded string
	err = k8s.PollUntil(ctx, "kubeconfig for cluster "+spec.Label, p.kubeconfigTimeout, func(ctx context.Context) (bool, error) {
		blob, err := p.client.Kubeconfig(ctx, cluster.ID)
		if err != nil {
			// The API serves 503 until the control plane is up. Keep
			// polling rather than failing on the first miss.
			logger.Debug("kubeconfig not yet available", zap.Error(err))
			return false, nil
		}
		encoded = blob
		return true, nil
	})
	if err != nil {
		return nil, nil, err
	}

	kubeconfig, err := k8s.ParseBase64Kubeconfig(encoded)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("cluster reachable", zap.String("endpoint", kubeconfig.Endpoint()))
	return cluster, kubeconfig, nil
}
