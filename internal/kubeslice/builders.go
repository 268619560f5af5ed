package kubeslice

import (
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/yaml"

	"github.com/sliceops/slicectl/internal/config"
)

// NewProject builds the project object declared on the controller. The
// service-account lists are fixed placeholders the controller materializes
// into accounts.
func NewProject() *Project {
	return &Project{
		TypeMeta: metav1.TypeMeta{
			APIVersion: APIVersion,
			Kind:       "Project",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      config.ProjectName,
			Namespace: config.ControllerNamespace,
		},
		Spec: ProjectSpec{
			ServiceAccount: ServiceAccountSpec{
				ReadOnly:  []string{"readonly-user1", "readonly-user2"},
				ReadWrite: []string{"readwrite-user1", "readwrite-user2"},
			},
		},
	}
}

// NewClusterRegistration builds the registration object for one worker.
func NewClusterRegistration(workerName, region string) *Cluster {
	return &Cluster{
		TypeMeta: metav1.TypeMeta{
			APIVersion: APIVersion,
			Kind:       "Cluster",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      config.ClusterName(workerName),
			Namespace: config.NamespacedProjectName,
		},
		Spec: ClusterSpec{
			NetworkInterface: config.NetworkInterface,
			ClusterProperty: ClusterProperty{
				GeoLocation: GeoLocation{
					CloudProvider: config.CloudProvider,
					CloudRegion:   region,
				},
			},
		},
	}
}

// NewSliceConfig builds the slice spanning the given workers. Worker order
// is preserved; every member name carries the cluster prefix. All QoS and
// isolation parameters are fixed.
func NewSliceConfig(workerNames []string) *SliceConfig {
	members := make([]string, 0, len(workerNames))
	for _, name := range workerNames {
		members = append(members, config.ClusterName(name))
	}

	return &SliceConfig{
		TypeMeta: metav1.TypeMeta{
			APIVersion: APIVersion,
			Kind:       "SliceConfig",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      "slice-" + config.ApplicationNamespace,
			Namespace: config.NamespacedProjectName,
		},
		Spec: SliceConfigSpec{
			SliceSubnet: "10.11.0.0/16",
			MaxClusters: 10,
			SliceType:   "Application",
			SliceGatewayProvider: SliceGatewayProvider{
				SliceGatewayType: "OpenVPN",
				SliceCaType:      "Local",
			},
			SliceIpamType: "Local",
			Clusters:      members,
			QosProfileDetails: QosProfile{
				QueueType:               "HTB",
				Priority:                1,
				TcType:                  "BANDWIDTH_CONTROL",
				BandwidthCeilingKbps:    5120,
				BandwidthGuaranteedKbps: 2560,
				DscpClass:               "AF11",
			},
			NamespaceIsolation: NamespaceIsolationProfile{
				ApplicationNamespaces: []ApplicationNamespace{
					{
						Namespace: config.ApplicationNamespace,
						Clusters:  []string{"*"},
					},
				},
				IsolationEnabled: false,
			},
		},
	}
}

// ToYAML serializes an object to the wire format.
func ToYAML(obj interface{}) ([]byte, error) {
	data, err := yaml.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal object: %w", err)
	}
	return data, nil
}

// ToUnstructured converts a typed object for application through the dynamic
// client.
func ToUnstructured(obj interface{}) (*unstructured.Unstructured, error) {
	content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to convert object: %w", err)
	}
	return &unstructured.Unstructured{Object: content}, nil
}
