package deploy

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/sliceops/slicectl/internal/config"
	"github.com/sliceops/slicectl/internal/k8s"
	"github.com/sliceops/slicectl/internal/platform/linode"
)

const testConfigYAML = `
linode_token: test-token
region: us-east
worker_clusters:
  cluster-a:
    region: us-east
    application_frontend: true
  cluster-b:
    region: eu-west
    application_backend: true
`

// mockCloud serves clusters from memory. Each cluster's kubeconfig carries
// its label in the endpoint so tests can tell per-cluster clients apart.
type mockCloud struct {
	mu          sync.Mutex
	nextID      int
	clusters    []linode.Cluster
	kubeconfigs map[int]string
	specs       []linode.ClusterSpec
}

func newMockCloud() *mockCloud {
	return &mockCloud{nextID: 100, kubeconfigs: map[int]string{}}
}

func endpointFor(label string) string {
	return fmt.Sprintf("https://%s.lke.example:443", label)
}

func kubeconfigFor(label string) string {
	raw := fmt.Sprintf(`apiVersion: v1
kind: Config
clusters:
- cluster:
    certificate-authority-data: Q0FEQVRBCg==
    server: %s
  name: %s
users:
- name: admin
  user:
    token: token-%s
`, endpointFor(label), label, label)
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

func (m *mockCloud) EnsureCluster(_ context.Context, spec linode.ClusterSpec) (*linode.Cluster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.specs = append(m.specs, spec)
	for i := range m.clusters {
		if m.clusters[i].Label == spec.Label {
			return &m.clusters[i], nil
		}
	}

	cluster := linode.Cluster{ID: m.nextID, Label: spec.Label, Region: spec.Region, Status: "ready"}
	m.nextID++
	m.clusters = append(m.clusters, cluster)
	m.kubeconfigs[cluster.ID] = kubeconfigFor(spec.Label)
	return &cluster, nil
}

func (m *mockCloud) Kubeconfig(_ context.Context, clusterID int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kc, ok := m.kubeconfigs[clusterID]
	if !ok {
		return "", errors.New("not found")
	}
	return kc, nil
}

func (m *mockCloud) ListClusters(context.Context) ([]linode.Cluster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]linode.Cluster{}, m.clusters...), nil
}

func (m *mockCloud) DeleteCluster(_ context.Context, clusterID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.clusters {
		if m.clusters[i].ID == clusterID {
			m.clusters = append(m.clusters[:i], m.clusters[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

type recordedInstall struct {
	Endpoint string
	Spec     k8s.InstallSpec
}

type fakeInstaller struct {
	mu          sync.Mutex
	installs    []recordedInstall
	failRelease string
}

func (f *fakeInstaller) Install(_ context.Context, kc *k8s.Kubeconfig, spec k8s.InstallSpec) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failRelease != "" && spec.ReleaseName == f.failRelease {
		return errors.New("install failed")
	}

	f.installs = append(f.installs, recordedInstall{Endpoint: kc.Endpoint(), Spec: spec})
	return nil
}

func (f *fakeInstaller) releases(endpoint string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for _, in := range f.installs {
		if in.Endpoint == endpoint {
			out = append(out, in.Spec.ReleaseName)
		}
	}
	return out
}

type fakeClient struct {
	mu         sync.Mutex
	namespaces map[string]map[string]string
	applied    []string // "Kind/name"
	waits      []string
	manifests  int
}

func (f *fakeClient) EnsureNamespace(_ context.Context, name string, labels map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.namespaces == nil {
		f.namespaces = map[string]map[string]string{}
	}
	f.namespaces[name] = labels
	return nil
}

func (f *fakeClient) Apply(context.Context, []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.manifests++
	return nil
}

func (f *fakeClient) ApplyObject(_ context.Context, obj *unstructured.Unstructured) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied = append(f.applied, obj.GetKind()+"/"+obj.GetName())
	return nil
}

func (f *fakeClient) WaitForFieldValue(_ context.Context, gvk schema.GroupVersionKind, _, name, expected string, _ time.Duration, _ ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waits = append(f.waits, fmt.Sprintf("%s/%s=%s", gvk.Kind, name, expected))
	return nil
}

func (f *fakeClient) WaitForDeploymentsReady(context.Context, string, time.Duration) error {
	return nil
}

type testHarness struct {
	deployment *Deployment
	cloud      *mockCloud
	installer  *fakeInstaller

	mu      sync.Mutex
	clients map[string]*fakeClient // keyed by endpoint
}

func (h *testHarness) client(label string) *fakeClient {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clients[endpointFor(label)]
}

func newTestHarness(t *testing.T, configYAML string, opts ...Option) *testHarness {
	t.Helper()

	cfg, err := config.Load([]byte(configYAML))
	require.NoError(t, err)

	h := &testHarness{
		cloud:     newMockCloud(),
		installer: &fakeInstaller{},
		clients:   map[string]*fakeClient{},
	}

	factory := func(kc *k8s.Kubeconfig) (ClusterClient, error) {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := h.clients[kc.Endpoint()]; ok {
			return c, nil
		}
		c := &fakeClient{}
		h.clients[kc.Endpoint()] = c
		return c, nil
	}

	opts = append([]Option{WithClientFactory(factory)}, opts...)
	h.deployment = New(cfg, h.cloud, h.installer, zaptest.NewLogger(t), opts...)

	return h
}
