package config

// Fixed deployment identities and chart sources.
const (
	// ProjectName is the logical project declared on the controller.
	ProjectName = "bookinfo-project"

	// NamespacedProjectName is the namespace the controller creates for
	// the project ("kubeslice-" + ProjectName).
	NamespacedProjectName = "kubeslice-bookinfo-project"

	// ApplicationNamespace hosts the sample application on every worker.
	ApplicationNamespace = "bookinfo"

	// ControllerNamespace hosts the slicing control plane.
	ControllerNamespace = "kubeslice-controller"

	// WorkerNamespace hosts the slicing worker agent.
	WorkerNamespace = "kubeslice-system"

	// IstioNamespace hosts the mesh base and discovery components.
	IstioNamespace = "istio-system"

	// MonitoringNamespace hosts the enterprise metrics stack.
	MonitoringNamespace = "monitoring"

	// ClusterPrefix prefixes every LKE cluster label and registration name.
	ClusterPrefix = "kubeslice-"

	// NetworkInterface is the node interface the netop agent binds to.
	NetworkInterface = "eth0"

	// CloudProvider is the geo metadata recorded on registrations.
	CloudProvider = "linode"
)

// Chart repositories. The enterprise repository requires image-pull
// credentials; the community repository is public.
const (
	enterpriseChartRepo    = "https://kubeslice.aveshalabs.io/repository/kubeslice-helm-ent-prod/"
	enterpriseChartVersion = "1.15.0"
	communityChartRepo     = "https://kubeslice.github.io/kubeslice/"
	communityChartVersion  = "1.3.1"
)

// Defaults for optional configuration keys.
const (
	DefaultLKEVersion          = "1.31"
	DefaultControllerNodeType  = "g6-standard-1"
	DefaultControllerNodeCount = 3
	DefaultWorkerNodeType      = "g6-standard-2"
	DefaultWorkerNodeCount     = 3
	DefaultGatewayNodeType     = "g6-standard-2"
	DefaultGatewayNodeCount    = 1
)

// ChartRepo returns the chart repository URL and version for the configured
// edition.
func (c *Config) ChartRepo() (repoURL, version string) {
	if c.Enterprise.Enabled {
		return enterpriseChartRepo, enterpriseChartVersion
	}
	return communityChartRepo, communityChartVersion
}

// ClusterName returns the prefixed cluster label for a worker name.
func ClusterName(worker string) string {
	return ClusterPrefix + worker
}
