package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
linode_token: test-token
region: us-east
worker_clusters:
  cluster-a:
    region: us-east
  cluster-b:
    region: eu-west
`

func TestLoadMinimalAppliesDefaults(t *testing.T) {
	cfg, err := Load([]byte(minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.LinodeToken)
	assert.Equal(t, "us-east", cfg.ControllerRegion)
	assert.Equal(t, DefaultLKEVersion, cfg.LKEVersion)
	assert.Equal(t, DefaultControllerNodeType, cfg.ControllerNodeType)
	assert.Equal(t, DefaultControllerNodeCount, cfg.ControllerNodeCount)

	a, ok := cfg.Workers.Get("cluster-a")
	require.True(t, ok)
	assert.Equal(t, DefaultWorkerNodeType, a.WorkerNodeType)
	assert.Equal(t, DefaultWorkerNodeCount, a.WorkerNodeCount)
	assert.Equal(t, DefaultGatewayNodeType, a.GatewayNodeType)
	assert.Equal(t, DefaultGatewayNodeCount, a.GatewayNodeQty)
	assert.False(t, a.ApplicationFrontend)
	assert.False(t, a.ApplicationBackend)
}

func TestLoadPreservesWorkerOrder(t *testing.T) {
	t.Parallel()

	cfg, err := Load([]byte(`
linode_token: t
region: us-east
worker_clusters:
  zeta:
    region: us-east
  alpha:
    region: us-east
  mid:
    region: us-east
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, cfg.Workers.Names())
}

func TestLoadWorkerOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := Load([]byte(`
linode_token: t
region: us-east
worker_node_type: g6-standard-4
worker_clusters:
  cluster-a:
    region: ap-south
    worker_node_count: 5
    gw_node_type: g6-dedicated-2
    application_frontend: true
`))
	require.NoError(t, err)

	a, ok := cfg.Workers.Get("cluster-a")
	require.True(t, ok)
	assert.Equal(t, "ap-south", a.Region)
	assert.Equal(t, "g6-standard-4", a.WorkerNodeType) // inherited override
	assert.Equal(t, 5, a.WorkerNodeCount)
	assert.Equal(t, "g6-dedicated-2", a.GatewayNodeType)
	assert.Equal(t, DefaultGatewayNodeCount, a.GatewayNodeQty)
	assert.True(t, a.ApplicationFrontend)
	assert.False(t, a.ApplicationBackend)
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("LINODE_TOKEN", "")

	_, err := Load([]byte(`
region: us-east
worker_clusters:
  cluster-a:
    region: us-east
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "linode_token")
}

func TestLoadTokenFromEnv(t *testing.T) {
	t.Setenv("LINODE_TOKEN", "env-token")

	cfg, err := Load([]byte(`
region: us-east
worker_clusters:
  cluster-a:
    region: us-east
`))
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.LinodeToken)
}

func TestLoadMissingRegion(t *testing.T) {
	t.Parallel()

	_, err := Load([]byte(`
linode_token: t
worker_clusters:
  cluster-a:
    region: us-east
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "region")
}

func TestLoadMissingWorkers(t *testing.T) {
	t.Parallel()

	_, err := Load([]byte(`
linode_token: t
region: us-east
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worker_clusters")
}

func TestLoadWorkerMissingRegion(t *testing.T) {
	t.Parallel()

	_, err := Load([]byte(`
linode_token: t
region: us-east
worker_clusters:
  cluster-a: {}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `worker cluster "cluster-a"`)
}

func TestLoadDuplicateWorker(t *testing.T) {
	t.Parallel()

	_, err := Load([]byte(`
linode_token: t
region: us-east
worker_clusters:
  cluster-a:
    region: us-east
  cluster-a:
    region: eu-west
`))
	assert.Error(t, err)
}

func TestLoadEnterpriseRequiresCredentials(t *testing.T) {
	t.Parallel()

	_, err := Load([]byte(`
linode_token: t
region: us-east
worker_clusters:
  cluster-a:
    region: us-east
enterprise:
  enabled: true
  username: admin
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enterprise")
}

func TestChartRepoSelection(t *testing.T) {
	t.Parallel()

	community := &Config{}
	repoURL, version := community.ChartRepo()
	assert.Equal(t, "https://kubeslice.github.io/kubeslice/", repoURL)
	assert.Equal(t, "1.3.1", version)

	enterprise := &Config{Enterprise: EnterpriseConfig{Enabled: true}}
	repoURL, version = enterprise.ChartRepo()
	assert.Equal(t, "https://kubeslice.aveshalabs.io/repository/kubeslice-helm-ent-prod/", repoURL)
	assert.Equal(t, "1.15.0", version)
}

func TestClusterName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "kubeslice-cluster-a", ClusterName("cluster-a"))
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "slicectl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalConfig), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers.Len())

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	path, err := FindConfigFile("explicit.yaml")
	require.NoError(t, err)
	assert.Equal(t, "explicit.yaml", path)
}
