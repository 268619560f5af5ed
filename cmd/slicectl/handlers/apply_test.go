package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sliceops/slicectl/internal/config"
	"github.com/sliceops/slicectl/internal/deploy"
	"github.com/sliceops/slicectl/internal/graph"
	"github.com/sliceops/slicectl/internal/k8s"
	"github.com/sliceops/slicectl/internal/platform/linode"
)

type deployerMock struct {
	applyErr   error
	destroyErr error
	deleted    []string
	applied    bool
	destroyed  bool
	previewed  bool
}

func (m *deployerMock) Apply(context.Context) (*deploy.Summary, error) {
	m.applied = true
	summary := &deploy.Summary{
		Results: map[string]graph.Result{
			"cluster/controller": {Name: "cluster/controller", Status: graph.StatusCreated, Duration: time.Second},
		},
		Created:  1,
		Duration: time.Second,
	}
	return summary, m.applyErr
}

func (m *deployerMock) Preview() ([]deploy.Step, error) {
	m.previewed = true
	return []deploy.Step{
		{Name: "cluster/controller"},
		{Name: "namespace/kubeslice-controller", DependsOn: []string{"cluster/controller"}},
	}, nil
}

func (m *deployerMock) Destroy(context.Context) ([]string, error) {
	m.destroyed = true
	return m.deleted, m.destroyErr
}

func withMocks(t *testing.T, mock *deployerMock) {
	t.Helper()

	origFind := findConfigFile
	origLoad := loadConfigFile
	origCloud := newCloudClient
	origInstaller := newInstaller
	origDeployment := newDeployment
	t.Cleanup(func() {
		findConfigFile = origFind
		loadConfigFile = origLoad
		newCloudClient = origCloud
		newInstaller = origInstaller
		newDeployment = origDeployment
	})

	findConfigFile = func(explicit string) (string, error) { return "slicectl.yaml", nil }
	loadConfigFile = func(string) (*config.Config, error) {
		return config.Load([]byte(`
linode_token: test-token
region: us-east
worker_clusters:
  cluster-a:
    region: us-east
`))
	}
	newCloudClient = func(string) linode.Client { return nil }
	newInstaller = func(*zap.Logger) k8s.ChartInstaller { return nil }
	newDeployment = func(*config.Config, linode.Client, k8s.ChartInstaller, *zap.Logger, ...deploy.Option) Deployer {
		return mock
	}
}

func TestApply(t *testing.T) {
	mock := &deployerMock{}
	withMocks(t, mock)

	err := Apply(context.Background(), ApplyOptions{ConfigPath: "slicectl.yaml"})
	require.NoError(t, err)
	assert.True(t, mock.applied)
}

func TestApplyReportsRolloutFailure(t *testing.T) {
	mock := &deployerMock{applyErr: errors.New("branch failed")}
	withMocks(t, mock)

	err := Apply(context.Background(), ApplyOptions{ConfigPath: "slicectl.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rollout failed")
}

func TestApplyConfigError(t *testing.T) {
	mock := &deployerMock{}
	withMocks(t, mock)
	loadConfigFile = func(string) (*config.Config, error) {
		return nil, errors.New("bad config")
	}

	err := Apply(context.Background(), ApplyOptions{ConfigPath: "slicectl.yaml"})
	require.Error(t, err)
	assert.False(t, mock.applied)
}

func TestPreview(t *testing.T) {
	mock := &deployerMock{}
	withMocks(t, mock)

	err := Preview("slicectl.yaml", false)
	require.NoError(t, err)
	assert.True(t, mock.previewed)
}

func TestDestroy(t *testing.T) {
	mock := &deployerMock{deleted: []string{"kubeslice-controller", "kubeslice-cluster-a"}}
	withMocks(t, mock)

	err := Destroy(context.Background(), "slicectl.yaml", false)
	require.NoError(t, err)
	assert.True(t, mock.destroyed)
}

func TestDestroyFailure(t *testing.T) {
	mock := &deployerMock{destroyErr: errors.New("api unreachable")}
	withMocks(t, mock)

	err := Destroy(context.Background(), "slicectl.yaml", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "destroy failed")
}
