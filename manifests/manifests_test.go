package manifests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllManifestsEmbedded(t *testing.T) {
	t.Parallel()

	for _, name := range append(append([]string{}, Frontend...), Backend...) {
		data, err := Bookinfo(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}
}

func TestUnknownManifest(t *testing.T) {
	t.Parallel()

	_, err := Bookinfo("gateway.yaml")
	assert.Error(t, err)
}

func TestServiceExportsOnlyInBackend(t *testing.T) {
	t.Parallel()

	assert.NotContains(t, Frontend, "servicesexport-details.yaml")
	assert.Contains(t, Backend, "servicesexport-details.yaml")
	assert.Contains(t, Backend, "servicesexport-reviews.yaml")
}
