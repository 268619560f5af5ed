// Package k8s provides the Kubernetes-facing plumbing: kubeconfig access
// bundles, manifest application, readiness polling, and chart installs.
package k8s

import (
	"encoding/base64"
	"fmt"

	"gopkg.in/yaml.v3"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// Kubeconfig is a parsed cluster access bundle. The structured text is kept
// verbatim so clients can be built from it, while the fields the installers
// need (endpoint, CA data, token) are extracted from the first cluster and
// user entries.
type Kubeconfig struct {
	raw []byte
	doc kubeconfigDoc
}

type kubeconfigDoc struct {
	Clusters []struct {
		Name    string `yaml:"name"`
		Cluster struct {
			Server                   string `yaml:"server"`
			CertificateAuthorityData string `yaml:"certificate-authority-data"`
		} `yaml:"cluster"`
	} `yaml:"clusters"`
	Users []struct {
		Name string `yaml:"name"`
		User struct {
			Token string `yaml:"token"`
		} `yaml:"user"`
	} `yaml:"users"`
}

// ParseKubeconfig parses a plain-text kubeconfig.
func ParseKubeconfig(raw []byte) (*Kubeconfig, error) {
	var doc kubeconfigDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse kubeconfig: %w", err)
	}
	if len(doc.Clusters) == 0 {
		return nil, fmt.Errorf("kubeconfig has no cluster entries")
	}

	return &Kubeconfig{raw: raw, doc: doc}, nil
}

// ParseBase64Kubeconfig parses the base64-encoded access-config blob the
// cloud API returns.
func ParseBase64Kubeconfig(encoded string) (*Kubeconfig, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode kubeconfig blob: %w", err)
	}
	return ParseKubeconfig(raw)
}

// Raw returns the kubeconfig text.
func (k *Kubeconfig) Raw() []byte { return k.raw }

// Endpoint returns the first cluster entry's server URL.
func (k *Kubeconfig) Endpoint() string {
	return k.doc.Clusters[0].Cluster.Server
}

// CACertData returns the first cluster entry's CA certificate, still
// base64-encoded as it appears in the kubeconfig.
func (k *Kubeconfig) CACertData() string {
	return k.doc.Clusters[0].Cluster.CertificateAuthorityData
}

// Token returns the first user entry's bearer token, or empty when the
// kubeconfig carries no token auth.
func (k *Kubeconfig) Token() string {
	if len(k.doc.Users) == 0 {
		return ""
	}
	return k.doc.Users[0].User.Token
}

// RESTConfig builds a client-go rest.Config from the bundle.
func (k *Kubeconfig) RESTConfig() (*rest.Config, error) {
	cfg, err := clientcmd.RESTConfigFromKubeConfig(k.raw)
	if err != nil {
		return nil, fmt.Errorf("failed to build rest config: %w", err)
	}
	return cfg, nil
}

// EncodeBase64 encodes a string to base64. Several worker-agent chart values
// expect pre-encoded secret material.
func EncodeBase64(data string) string {
	return base64.StdEncoding.EncodeToString([]byte(data))
}
