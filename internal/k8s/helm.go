package k8s

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/discovery/cached/memory"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/cli"
)

// InstallSpec describes one chart install.
type InstallSpec struct {
	ReleaseName     string
	Chart           string
	RepoURL         string
	Version         string // empty installs the repository's latest
	Namespace       string
	CreateNamespace bool
	Values          map[string]interface{}
}

// ChartInstaller installs charts against a cluster identified by its
// kubeconfig.
type ChartInstaller interface {
	Install(ctx context.Context, kubeconfig *Kubeconfig, spec InstallSpec) error
}

// HelmClient installs or upgrades charts through the Helm SDK.
type HelmClient struct {
	settings *cli.EnvSettings
	logger   *zap.Logger
	timeout  time.Duration
}

// NewHelmClient creates a HelmClient.
func NewHelmClient(logger *zap.Logger) *HelmClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HelmClient{
		settings: cli.New(),
		logger:   logger.Named("helm"),
		timeout:  10 * time.Minute,
	}
}

// Install installs the chart, upgrading in place when the release already
// exists so re-runs converge instead of failing.
func (h *HelmClient) Install(ctx context.Context, kubeconfig *Kubeconfig, spec InstallSpec) error {
	restConfig, err := kubeconfig.RESTConfig()
	if err != nil {
		return err
	}

	actionConfig := new(action.Configuration)
	clientGetter := &restClientGetter{
		config:    restConfig,
		namespace: spec.Namespace,
	}

	logf := func(format string, v ...interface{}) {
		h.logger.Sugar().Debugf(format, v...)
	}
	if err := actionConfig.Init(clientGetter, spec.Namespace, os.Getenv("HELM_DRIVER"), logf); err != nil {
		return fmt.Errorf("failed to init helm action config: %w", err)
	}

	cp := &action.ChartPathOptions{
		RepoURL: spec.RepoURL,
		Version: spec.Version,
	}

	chartPath, err := cp.LocateChart(spec.Chart, h.settings)
	if err != nil {
		return fmt.Errorf("failed to locate chart %s: %w", spec.Chart, err)
	}

	chart, err := loader.Load(chartPath)
	if err != nil {
		return fmt.Errorf("failed to load chart %s: %w", spec.Chart, err)
	}

	h.logger.Info("installing chart",
		zap.String("release", spec.ReleaseName),
		zap.String("chart", spec.Chart),
		zap.String("version", spec.Version),
		zap.String("namespace", spec.Namespace))

	histClient := action.NewHistory(actionConfig)
	histClient.Max = 1
	if _, err := histClient.Run(spec.ReleaseName); err == nil {
		upgrade := action.NewUpgrade(actionConfig)
		upgrade.Namespace = spec.Namespace
		upgrade.Wait = true
		upgrade.Timeout = h.timeout
		if _, err := upgrade.RunWithContext(ctx, spec.ReleaseName, chart, spec.Values); err != nil {
			return fmt.Errorf("helm upgrade of %s failed: %w", spec.ReleaseName, err)
		}
		return nil
	}

	install := action.NewInstall(actionConfig)
	install.ReleaseName = spec.ReleaseName
	install.Namespace = spec.Namespace
	install.CreateNamespace = spec.CreateNamespace
	install.Wait = true
	install.Timeout = h.timeout
	if _, err := install.RunWithContext(ctx, chart, spec.Values); err != nil {
		return fmt.Errorf("helm install of %s failed: %w", spec.ReleaseName, err)
	}

	return nil
}

// restClientGetter implements the minimal RESTClientGetter Helm needs from
// an in-memory kubeconfig.
type restClientGetter struct {
	config    *rest.Config
	namespace string
}

func (g *restClientGetter) ToRESTConfig() (*rest.Config, error) {
	return g.config, nil
}

func (g *restClientGetter) ToDiscoveryClient() (discovery.CachedDiscoveryInterface, error) {
	discoveryClient, err := discovery.NewDiscoveryClientForConfig(g.config)
	if err != nil {
		return nil, err
	}
	return memory.NewMemCacheClient(discoveryClient), nil
}

func (g *restClientGetter) ToRESTMapper() (meta.RESTMapper, error) {
	discoveryClient, err := g.ToDiscoveryClient()
	if err != nil {
		return nil, err
	}
	return restmapper.NewDeferredDiscoveryRESTMapper(discoveryClient), nil
}

func (g *restClientGetter) ToRawKubeConfigLoader() clientcmd.ClientConfig {
	return clientcmd.NewDefaultClientConfig(*clientcmdapi.NewConfig(), &clientcmd.ConfigOverrides{})
}
