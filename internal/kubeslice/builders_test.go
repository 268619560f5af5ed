package kubeslice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

func TestNewProject(t *testing.T) {
	t.Parallel()

	p := NewProject()

	assert.Equal(t, "controller.kubeslice.io/v1alpha1", p.APIVersion)
	assert.Equal(t, "Project", p.Kind)
	assert.Equal(t, "bookinfo-project", p.Name)
	assert.Equal(t, "kubeslice-controller", p.Namespace)
	assert.Equal(t, []string{"readonly-user1", "readonly-user2"}, p.Spec.ServiceAccount.ReadOnly)
	assert.Equal(t, []string{"readwrite-user1", "readwrite-user2"}, p.Spec.ServiceAccount.ReadWrite)
}

func TestNewClusterRegistration(t *testing.T) {
	t.Parallel()

	c := NewClusterRegistration("cluster-a", "us-east")

	assert.Equal(t, "Cluster", c.Kind)
	assert.Equal(t, "kubeslice-cluster-a", c.Name)
	assert.Equal(t, "kubeslice-bookinfo-project", c.Namespace)
	assert.Equal(t, "eth0", c.Spec.NetworkInterface)
	assert.Equal(t, "linode", c.Spec.ClusterProperty.GeoLocation.CloudProvider)
	assert.Equal(t, "us-east", c.Spec.ClusterProperty.GeoLocation.CloudRegion)
}

func TestNewSliceConfigMembers(t *testing.T) {
	t.Parallel()

	s := NewSliceConfig([]string{"cluster-a", "cluster-b"})
	assert.Equal(t, []string{"kubeslice-cluster-a", "kubeslice-cluster-b"}, s.Spec.Clusters)

	// Member order follows input order.
	s = NewSliceConfig([]string{"cluster-b", "cluster-a"})
	assert.Equal(t, []string{"kubeslice-cluster-b", "kubeslice-cluster-a"}, s.Spec.Clusters)
}

func TestNewSliceConfigFixedFields(t *testing.T) {
	t.Parallel()

	for _, workers := range [][]string{
		{"cluster-a"},
		{"x", "y", "z"},
	} {
		s := NewSliceConfig(workers)

		assert.Equal(t, "SliceConfig", s.Kind)
		assert.Equal(t, "slice-bookinfo", s.Name)
		assert.Equal(t, "kubeslice-bookinfo-project", s.Namespace)
		assert.Equal(t, "10.11.0.0/16", s.Spec.SliceSubnet)
		assert.Equal(t, 10, s.Spec.MaxClusters)
		assert.Equal(t, "Application", s.Spec.SliceType)
		assert.Equal(t, "OpenVPN", s.Spec.SliceGatewayProvider.SliceGatewayType)
		assert.Equal(t, "Local", s.Spec.SliceGatewayProvider.SliceCaType)
		assert.Equal(t, "Local", s.Spec.SliceIpamType)
		assert.Equal(t, "HTB", s.Spec.QosProfileDetails.QueueType)
		assert.Equal(t, 1, s.Spec.QosProfileDetails.Priority)
		assert.Equal(t, "BANDWIDTH_CONTROL", s.Spec.QosProfileDetails.TcType)
		assert.Equal(t, 5120, s.Spec.QosProfileDetails.BandwidthCeilingKbps)
		assert.Equal(t, 2560, s.Spec.QosProfileDetails.BandwidthGuaranteedKbps)
		assert.Equal(t, "AF11", s.Spec.QosProfileDetails.DscpClass)
		assert.False(t, s.Spec.NamespaceIsolation.IsolationEnabled)

		require.Len(t, s.Spec.NamespaceIsolation.ApplicationNamespaces, 1)
		appNS := s.Spec.NamespaceIsolation.ApplicationNamespaces[0]
		assert.Equal(t, "bookinfo", appNS.Namespace)
		assert.Equal(t, []string{"*"}, appNS.Clusters)
	}
}

func TestSliceConfigYAMLRoundTripsFixedLiterals(t *testing.T) {
	t.Parallel()

	data, err := ToYAML(NewSliceConfig([]string{"cluster-a"}))
	require.NoError(t, err)

	doc := string(data)
	assert.Contains(t, doc, "sliceSubnet: 10.11.0.0/16")
	assert.Contains(t, doc, "maxClusters: 10")
	assert.Contains(t, doc, "sliceGatewayType: OpenVPN")
	assert.Contains(t, doc, "bandwidthCeilingKbps: 5120")
	assert.Contains(t, doc, "bandwidthGuaranteedKbps: 2560")
	assert.Contains(t, doc, "dscpClass: AF11")
	assert.Contains(t, doc, "isolationEnabled: false")
}

func TestToUnstructured(t *testing.T) {
	t.Parallel()

	u, err := ToUnstructured(NewClusterRegistration("cluster-a", "us-east"))
	require.NoError(t, err)

	assert.Equal(t, "Cluster", u.GetKind())
	assert.Equal(t, "kubeslice-cluster-a", u.GetName())
	assert.Equal(t, "kubeslice-bookinfo-project", u.GetNamespace())

	iface, found, err := unstructured.NestedString(u.Object, "spec", "networkInterface")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "eth0", iface)
}
