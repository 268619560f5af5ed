// Package kubeslice builds the controller-side objects and chart values for
// a KubeSlice deployment: the Project, per-worker Cluster registrations, the
// SliceConfig, and the value overrides for the controller/ui/worker charts.
//
// Objects are typed structs serialized to the wire format rather than
// string-interpolated YAML, so field content cannot break document structure
// and tests can assert against the structs directly.
package kubeslice

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// APIVersion of the controller CRD group.
const APIVersion = "controller.kubeslice.io/v1alpha1"

// GroupVersion of the controller CRD group.
var GroupVersion = schema.GroupVersion{Group: "controller.kubeslice.io", Version: "v1alpha1"}

// Kinds served by the controller.
var (
	ProjectGVK     = GroupVersion.WithKind("Project")
	ClusterGVK     = GroupVersion.WithKind("Cluster")
	SliceConfigGVK = GroupVersion.WithKind("SliceConfig")
)

// Project grants a set of service accounts access to a slice project.
type Project struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec ProjectSpec `json:"spec,omitempty"`
}

// ProjectSpec defines the project's service-account allow-lists.
type ProjectSpec struct {
	ServiceAccount ServiceAccountSpec `json:"serviceAccount,omitempty"`
}

// ServiceAccountSpec lists read-only and read-write accounts.
type ServiceAccountSpec struct {
	ReadOnly  []string `json:"readOnly,omitempty"`
	ReadWrite []string `json:"readWrite,omitempty"`
}

// Cluster registers a worker cluster as a member of a project.
type Cluster struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec ClusterSpec `json:"spec,omitempty"`
}

// ClusterSpec carries the worker's network interface and geo metadata.
type ClusterSpec struct {
	NetworkInterface string          `json:"networkInterface,omitempty"`
	ClusterProperty  ClusterProperty `json:"clusterProperty,omitempty"`
}

// ClusterProperty holds cluster metadata reported to the controller.
type ClusterProperty struct {
	GeoLocation GeoLocation `json:"geoLocation,omitempty"`
}

// GeoLocation identifies the worker's cloud placement.
type GeoLocation struct {
	CloudProvider string `json:"cloudProvider,omitempty"`
	CloudRegion   string `json:"cloudRegion,omitempty"`
}

// SliceConfig defines a network slice spanning registered clusters.
type SliceConfig struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec SliceConfigSpec `json:"spec,omitempty"`
}

// SliceConfigSpec is the slice definition.
type SliceConfigSpec struct {
	SliceSubnet          string                    `json:"sliceSubnet,omitempty"`
	MaxClusters          int                       `json:"maxClusters,omitempty"`
	SliceType            string                    `json:"sliceType,omitempty"`
	SliceGatewayProvider SliceGatewayProvider      `json:"sliceGatewayProvider,omitempty"`
	SliceIpamType        string                    `json:"sliceIpamType,omitempty"`
	Clusters             []string                  `json:"clusters,omitempty"`
	QosProfileDetails    QosProfile                `json:"qosProfileDetails,omitempty"`
	NamespaceIsolation   NamespaceIsolationProfile `json:"namespaceIsolationProfile,omitempty"`
}

// SliceGatewayProvider selects the inter-cluster gateway and CA types.
type SliceGatewayProvider struct {
	SliceGatewayType string `json:"sliceGatewayType,omitempty"`
	SliceCaType      string `json:"sliceCaType,omitempty"`
}

// QosProfile shapes slice traffic.
type QosProfile struct {
	QueueType               string `json:"queueType,omitempty"`
	Priority                int    `json:"priority,omitempty"`
	TcType                  string `json:"tcType,omitempty"`
	BandwidthCeilingKbps    int    `json:"bandwidthCeilingKbps,omitempty"`
	BandwidthGuaranteedKbps int    `json:"bandwidthGuaranteedKbps,omitempty"`
	DscpClass               string `json:"dscpClass,omitempty"`
}

// NamespaceIsolationProfile selects which namespaces ride the slice.
type NamespaceIsolationProfile struct {
	ApplicationNamespaces []ApplicationNamespace `json:"applicationNamespaces,omitempty"`
	IsolationEnabled      bool                   `json:"isolationEnabled"`
}

// ApplicationNamespace binds a namespace to a set of clusters.
type ApplicationNamespace struct {
	Namespace string   `json:"namespace,omitempty"`
	Clusters  []string `json:"clusters,omitempty"`
}
