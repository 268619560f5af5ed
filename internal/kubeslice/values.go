package kubeslice

import (
	"github.com/sliceops/slicectl/internal/config"
	"github.com/sliceops/slicectl/internal/k8s"
)

// Values is a helm value-override tree.
type Values = map[string]interface{}

// ControllerValues builds the value overrides for the controller chart. The
// endpoint comes from the controller cluster's own kubeconfig; enterprise
// mode adds the trial license and registry credentials.
func ControllerValues(controllerKC *k8s.Kubeconfig, enterprise config.EnterpriseConfig) Values {
	controller := Values{
		"endpoint": controllerKC.Endpoint(),
	}

	kubeslice := Values{
		"controller": controller,
	}

	if !enterprise.Enabled {
		return Values{"kubeslice": kubeslice}
	}

	kubeslice["license"] = Values{
		"type":         "kubeslice-trial-license",
		"mode":         "auto",
		"customerName": enterprise.Email,
	}

	return Values{
		"kubeslice":        kubeslice,
		"imagePullSecrets": imagePullSecrets(enterprise),
	}
}

// UIValues builds the value overrides for the enterprise UI chart.
func UIValues(enterprise config.EnterpriseConfig) Values {
	return Values{
		"imagePullSecrets": imagePullSecrets(enterprise),
	}
}

// WorkerValues builds the value overrides for the worker-agent chart. This
// is the join point of the graph: the controller's kubeconfig supplies the
// secret material, the worker's own kubeconfig supplies its endpoint. The
// chart mounts controllerSecret fields into a Secret verbatim, so namespace,
// endpoint and token are base64-encoded here; the CA certificate is already
// encoded inside the kubeconfig and passes through untouched.
func WorkerValues(controllerKC, workerKC *k8s.Kubeconfig, workerName string, enterprise config.EnterpriseConfig) Values {
	values := Values{
		"controllerSecret": Values{
			"namespace": k8s.EncodeBase64(config.NamespacedProjectName),
			"endpoint":  k8s.EncodeBase64(controllerKC.Endpoint()),
			"ca.crt":    controllerKC.CACertData(),
			"token":     k8s.EncodeBase64(controllerKC.Token()),
		},
		"cluster": Values{
			"name":     config.ClusterName(workerName),
			"endpoint": workerKC.Endpoint(),
		},
		"netop": Values{
			"networkInterface": config.NetworkInterface,
		},
	}

	if enterprise.Enabled {
		values["imagePullSecrets"] = imagePullSecrets(enterprise)
		values["kubesliceNetworking"] = Values{"enabled": true}
		values["metrics"] = Values{"insecure": true}
	}

	return values
}

func imagePullSecrets(enterprise config.EnterpriseConfig) Values {
	return Values{
		"username": enterprise.Username,
		"password": enterprise.Password,
		"email":    enterprise.Email,
	}
}
