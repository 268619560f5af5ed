// Package manifests embeds the sample-application manifests applied to
// worker clusters.
package manifests

import (
	"embed"
	"fmt"
)

//go:embed bookinfo/*.yaml
var bookinfo embed.FS

// Frontend names the manifests that make up the application frontend.
var Frontend = []string{
	"productpage.yaml",
}

// Backend names the manifests that make up the application backend,
// including the service exports that publish it onto the slice.
var Backend = []string{
	"ratings.yaml",
	"details.yaml",
	"reviews.yaml",
	"servicesexport-details.yaml",
	"servicesexport-reviews.yaml",
}

// Bookinfo returns the named manifest's content.
func Bookinfo(name string) ([]byte, error) {
	data, err := bookinfo.ReadFile("bookinfo/" + name)
	if err != nil {
		return nil, fmt.Errorf("embedded manifest %s: %w", name, err)
	}
	return data, nil
}
