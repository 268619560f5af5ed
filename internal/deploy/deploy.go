// Package deploy assembles the full slicing-platform rollout as a resource
// graph: one controller cluster, N worker clusters, the control plane and
// worker-agent charts, controller-side registrations, the slice, and the
// sample application.
package deploy

import (
	"context"
	"time"

	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/sliceops/slicectl/internal/config"
	"github.com/sliceops/slicectl/internal/k8s"
	"github.com/sliceops/slicectl/internal/platform/linode"
)

// Default wait bounds. Registration health depends on the worker agent
// connecting back through the slice gateway, which takes several minutes
// after the chart install; chart and webhook settling are faster.
const (
	DefaultRegistrationTimeout = 15 * time.Minute
	DefaultSettleTimeout       = 5 * time.Minute
	DefaultChartReadyTimeout   = 10 * time.Minute
)

// ClusterProvisioner creates a cluster and blocks until it is reachable.
type ClusterProvisioner interface {
	ProvisionCluster(ctx context.Context, spec linode.ClusterSpec) (*linode.Cluster, *k8s.Kubeconfig, error)
}

// ClusterClient is the per-cluster API surface the rollout needs. Satisfied
// by *k8s.Client.
type ClusterClient interface {
	EnsureNamespace(ctx context.Context, name string, labels map[string]string) error
	Apply(ctx context.Context, manifest []byte) error
	ApplyObject(ctx context.Context, obj *unstructured.Unstructured) error
	WaitForFieldValue(ctx context.Context, gvk schema.GroupVersionKind, namespace, name, expected string, timeout time.Duration, fields ...string) error
	WaitForDeploymentsReady(ctx context.Context, namespace string, timeout time.Duration) error
}

// ClientFactory builds a ClusterClient for a cluster's kubeconfig.
type ClientFactory func(kubeconfig *k8s.Kubeconfig) (ClusterClient, error)

// Deployment plans and applies one rollout of the configured topology.
type Deployment struct {
	cfg         *config.Config
	cloud       linode.Client
	provisioner ClusterProvisioner
	installer   k8s.ChartInstaller
	newClient   ClientFactory
	logger      *zap.Logger

	kubeconfigDir       string
	registrationTimeout time.Duration
	settleTimeout       time.Duration
	chartReadyTimeout   time.Duration
}

// Option configures a Deployment.
type Option func(*Deployment)

// WithKubeconfigDir writes each cluster's kubeconfig into dir after
// provisioning. Empty disables the write-out.
func WithKubeconfigDir(dir string) Option {
	return func(d *Deployment) { d.kubeconfigDir = dir }
}

// WithRegistrationTimeout bounds the wait for a registration to report
// Normal health.
func WithRegistrationTimeout(timeout time.Duration) Option {
	return func(d *Deployment) { d.registrationTimeout = timeout }
}

// WithSettleTimeout bounds the sidecar-injection webhook settle wait.
func WithSettleTimeout(timeout time.Duration) Option {
	return func(d *Deployment) { d.settleTimeout = timeout }
}

// WithClientFactory overrides how per-cluster clients are built.
func WithClientFactory(factory ClientFactory) Option {
	return func(d *Deployment) { d.newClient = factory }
}

// New creates a Deployment for the given configuration.
func New(cfg *config.Config, cloud linode.Client, installer k8s.ChartInstaller, logger *zap.Logger, opts ...Option) *Deployment {
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Deployment{
		cfg:                 cfg,
		cloud:               cloud,
		installer:           installer,
		logger:              logger.Named("deploy"),
		registrationTimeout: DefaultRegistrationTimeout,
		settleTimeout:       DefaultSettleTimeout,
		chartReadyTimeout:   DefaultChartReadyTimeout,
	}
	d.provisioner = linode.NewProvisioner(cloud, d.logger)
	d.newClient = func(kubeconfig *k8s.Kubeconfig) (ClusterClient, error) {
		return k8s.NewClient(kubeconfig, d.logger)
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}
