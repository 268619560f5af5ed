package deploy

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/sliceops/slicectl/internal/config"
	"github.com/sliceops/slicectl/internal/future"
	"github.com/sliceops/slicectl/internal/graph"
	"github.com/sliceops/slicectl/internal/k8s"
	"github.com/sliceops/slicectl/internal/kubeslice"
	"github.com/sliceops/slicectl/internal/platform/linode"
	"github.com/sliceops/slicectl/manifests"
)

// Resource names. Worker-scoped resources append "/<worker>".
const (
	resControllerCluster   = "cluster/controller"
	resControllerNamespace = "namespace/" + config.ControllerNamespace
	resControllerChart     = "chart/kubeslice-controller"
	resUIChart             = "chart/kubeslice-ui"
	resProject             = "project/" + config.ProjectName
	resSlice               = "slice/slice-" + config.ApplicationNamespace
)

func resWorkerCluster(worker string) string   { return "cluster/" + worker }
func resIstioBase(worker string) string       { return "chart/istio-base/" + worker }
func resIstioDiscovery(worker string) string  { return "chart/istio-discovery/" + worker }
func resPrometheus(worker string) string      { return "chart/prometheus/" + worker }
func resWorkerChart(worker string) string     { return "chart/kubeslice-worker/" + worker }
func resRegistration(worker string) string    { return "registration/" + worker }
func resAppNamespace(worker string) string    { return "app/namespace/" + worker }
func resAppFrontend(worker string) string     { return "app/frontend/" + worker }
func resAppBackend(worker string) string      { return "app/backend/" + worker }

var namespaceGVK = schema.GroupVersionKind{Version: "v1", Kind: "Namespace"}

// Plan builds the rollout graph for the configuration. Kubeconfigs flow
// between branches through futures resolved by the cluster resources, so the
// worker-agent install can join the controller branch without shared mutable
// state.
func (d *Deployment) Plan() (*graph.Graph, error) {
	g := graph.New()

	repoURL, chartVersion := d.cfg.ChartRepo()

	controllerKC := future.New[*k8s.Kubeconfig]()
	workerKCs := make(map[string]*future.Value[*k8s.Kubeconfig], d.cfg.Workers.Len())
	for _, worker := range d.cfg.Workers.Names() {
		workerKCs[worker] = future.New[*k8s.Kubeconfig]()
	}

	// Controller branch.

	g.MustAdd(&graph.Func{
		ResourceName: resControllerCluster,
		CreateFunc: func(ctx context.Context) error {
			_, kc, err := d.provisionCluster(ctx, d.controllerSpec())
			if err != nil {
				return err
			}
			controllerKC.MustSet(kc)
			return nil
		},
	})

	g.MustAdd(&graph.Func{
		ResourceName: resControllerNamespace,
		DependsOn:    []string{resControllerCluster},
		CreateFunc: func(ctx context.Context) error {
			client, err := d.clientFor(ctx, controllerKC)
			if err != nil {
				return err
			}
			return client.EnsureNamespace(ctx, config.ControllerNamespace, nil)
		},
	})

	g.MustAdd(&graph.Func{
		ResourceName: resControllerChart,
		DependsOn:    []string{resControllerNamespace},
		CreateFunc: func(ctx context.Context) error {
			kc, err := controllerKC.Get(ctx)
			if err != nil {
				return err
			}
			spec := k8s.InstallSpec{
				ReleaseName: "kubeslice-controller",
				Chart:       "kubeslice-controller",
				RepoURL:     repoURL,
				Version:     chartVersion,
				Namespace:   config.ControllerNamespace,
				Values:      kubeslice.ControllerValues(kc, d.cfg.Enterprise),
			}
			if err := d.installer.Install(ctx, kc, spec); err != nil {
				return err
			}

			// The controller needs its webhooks and manager serving before
			// project objects are accepted.
			client, err := d.clientFor(ctx, controllerKC)
			if err != nil {
				return err
			}
			return client.WaitForDeploymentsReady(ctx, config.ControllerNamespace, d.chartReadyTimeout)
		},
	})

	if d.cfg.Enterprise.Enabled {
		g.MustAdd(&graph.Func{
			ResourceName: resUIChart,
			DependsOn:    []string{resControllerNamespace},
			CreateFunc: func(ctx context.Context) error {
				kc, err := controllerKC.Get(ctx)
				if err != nil {
					return err
				}
				return d.installer.Install(ctx, kc, k8s.InstallSpec{
					ReleaseName: "kubeslice-ui",
					Chart:       "kubeslice-ui",
					RepoURL:     repoURL,
					Version:     chartVersion,
					Namespace:   config.ControllerNamespace,
					Values:      kubeslice.UIValues(d.cfg.Enterprise),
				})
			},
		})
	}

	g.MustAdd(&graph.Func{
		ResourceName: resProject,
		DependsOn:    []string{resControllerChart},
		CreateFunc: func(ctx context.Context) error {
			client, err := d.clientFor(ctx, controllerKC)
			if err != nil {
				return err
			}

			obj, err := kubeslice.ToUnstructured(kubeslice.NewProject())
			if err != nil {
				return err
			}
			if err := client.ApplyObject(ctx, obj); err != nil {
				return err
			}

			// The controller materializes the project as a namespace;
			// registrations land inside it.
			return client.WaitForFieldValue(ctx, namespaceGVK, "",
				config.NamespacedProjectName, config.NamespacedProjectName,
				d.settleTimeout, "metadata", "name")
		},
	})

	// Worker branches.

	for _, worker := range d.cfg.Workers.Names() {
		worker := worker
		def, _ := d.cfg.Workers.Get(worker)
		workerKC := workerKCs[worker]

		g.MustAdd(&graph.Func{
			ResourceName: resWorkerCluster(worker),
			CreateFunc: func(ctx context.Context) error {
				_, kc, err := d.provisionCluster(ctx, d.workerSpec(worker, def))
				if err != nil {
					return err
				}
				workerKC.MustSet(kc)
				return nil
			},
		})

		g.MustAdd(&graph.Func{
			ResourceName: resIstioBase(worker),
			DependsOn:    []string{resWorkerCluster(worker)},
			CreateFunc: func(ctx context.Context) error {
				kc, err := workerKC.Get(ctx)
				if err != nil {
					return err
				}
				return d.installer.Install(ctx, kc, k8s.InstallSpec{
					ReleaseName:     "istio-base",
					Chart:           "istio-base",
					RepoURL:         repoURL,
					Namespace:       config.IstioNamespace,
					CreateNamespace: true,
				})
			},
		})

		g.MustAdd(&graph.Func{
			ResourceName: resIstioDiscovery(worker),
			DependsOn:    []string{resIstioBase(worker)},
			CreateFunc: func(ctx context.Context) error {
				kc, err := workerKC.Get(ctx)
				if err != nil {
					return err
				}
				return d.installer.Install(ctx, kc, k8s.InstallSpec{
					ReleaseName: "istio-discovery",
					Chart:       "istio-discovery",
					RepoURL:     repoURL,
					Namespace:   config.IstioNamespace,
				})
			},
		})

		if d.cfg.Enterprise.Enabled {
			g.MustAdd(&graph.Func{
				ResourceName: resPrometheus(worker),
				DependsOn:    []string{resWorkerCluster(worker)},
				CreateFunc: func(ctx context.Context) error {
					kc, err := workerKC.Get(ctx)
					if err != nil {
						return err
					}
					return d.installer.Install(ctx, kc, k8s.InstallSpec{
						ReleaseName:     "prometheus",
						Chart:           "prometheus",
						RepoURL:         repoURL,
						Namespace:       config.MonitoringNamespace,
						CreateNamespace: true,
					})
				},
			})
		}

		// The worker agent joins both branches: its secret material comes
		// from the controller's kubeconfig, its endpoint from its own.
		g.MustAdd(&graph.Func{
			ResourceName: resWorkerChart(worker),
			DependsOn:    []string{resIstioDiscovery(worker), resControllerCluster},
			CreateFunc: func(ctx context.Context) error {
				ctrlKC, err := controllerKC.Get(ctx)
				if err != nil {
					return err
				}
				kc, err := workerKC.Get(ctx)
				if err != nil {
					return err
				}
				return d.installer.Install(ctx, kc, k8s.InstallSpec{
					ReleaseName:     "kubeslice-worker",
					Chart:           "kubeslice-worker",
					RepoURL:         repoURL,
					Version:         chartVersion,
					Namespace:       config.WorkerNamespace,
					CreateNamespace: true,
					Values:          kubeslice.WorkerValues(ctrlKC, kc, worker, d.cfg.Enterprise),
				})
			},
		})

		// Registration health only turns Normal once the worker agent has
		// connected, so the wait depends on the agent install.
		region := def.Region
		g.MustAdd(&graph.Func{
			ResourceName: resRegistration(worker),
			DependsOn:    []string{resProject, resWorkerChart(worker)},
			CreateFunc: func(ctx context.Context) error {
				client, err := d.clientFor(ctx, controllerKC)
				if err != nil {
					return err
				}

				obj, err := kubeslice.ToUnstructured(kubeslice.NewClusterRegistration(worker, region))
				if err != nil {
					return err
				}
				if err := client.ApplyObject(ctx, obj); err != nil {
					return err
				}

				return client.WaitForFieldValue(ctx, kubeslice.ClusterGVK,
					config.NamespacedProjectName, config.ClusterName(worker),
					"Normal", d.registrationTimeout,
					"status", "clusterHealth", "clusterHealthStatus")
			},
		})
	}

	// The slice spans every registered worker.

	sliceDeps := make([]string, 0, 2*d.cfg.Workers.Len())
	for _, worker := range d.cfg.Workers.Names() {
		sliceDeps = append(sliceDeps, resRegistration(worker), resWorkerChart(worker))
	}

	g.MustAdd(&graph.Func{
		ResourceName: resSlice,
		DependsOn:    sliceDeps,
		CreateFunc: func(ctx context.Context) error {
			client, err := d.clientFor(ctx, controllerKC)
			if err != nil {
				return err
			}
			obj, err := kubeslice.ToUnstructured(kubeslice.NewSliceConfig(d.cfg.Workers.Names()))
			if err != nil {
				return err
			}
			return client.ApplyObject(ctx, obj)
		},
	})

	// Sample application. The injection-enabled namespace goes onto every
	// worker; the manifest groups are placed per worker flags.

	for _, worker := range d.cfg.Workers.Names() {
		worker := worker
		def, _ := d.cfg.Workers.Get(worker)
		workerKC := workerKCs[worker]

		g.MustAdd(&graph.Func{
			ResourceName: resAppNamespace(worker),
			DependsOn:    []string{resSlice},
			CreateFunc: func(ctx context.Context) error {
				client, err := d.clientFor(ctx, workerKC)
				if err != nil {
					return err
				}
				if err := client.EnsureNamespace(ctx, config.ApplicationNamespace, map[string]string{
					"istio-injection": "enabled",
				}); err != nil {
					return err
				}

				// Sidecars are only injected once the mesh webhook serves;
				// wait for the discovery deployments instead of sleeping.
				return client.WaitForDeploymentsReady(ctx, config.IstioNamespace, d.settleTimeout)
			},
		})

		if def.ApplicationFrontend {
			g.MustAdd(&graph.Func{
				ResourceName: resAppFrontend(worker),
				DependsOn:    []string{resAppNamespace(worker)},
				CreateFunc: func(ctx context.Context) error {
					return d.applyManifests(ctx, workerKC, manifests.Frontend)
				},
			})
		}

		if def.ApplicationBackend {
			g.MustAdd(&graph.Func{
				ResourceName: resAppBackend(worker),
				DependsOn:    []string{resAppNamespace(worker)},
				CreateFunc: func(ctx context.Context) error {
					return d.applyManifests(ctx, workerKC, manifests.Backend)
				},
			})
		}
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("assembled an invalid rollout graph: %w", err)
	}

	return g, nil
}

func (d *Deployment) controllerSpec() linode.ClusterSpec {
	return linode.ClusterSpec{
		Label:      config.ClusterName("controller"),
		Region:     d.cfg.ControllerRegion,
		K8sVersion: d.cfg.LKEVersion,
		Tags:       []string{"app:kubeslice-controller"},
		NodePools: []linode.NodePoolSpec{
			{Type: d.cfg.ControllerNodeType, Count: d.cfg.ControllerNodeCount},
		},
	}
}

func (d *Deployment) workerSpec(worker string, def config.WorkerCluster) linode.ClusterSpec {
	return linode.ClusterSpec{
		Label:            config.ClusterName(worker),
		Region:           def.Region,
		K8sVersion:       d.cfg.LKEVersion,
		Tags:             []string{"app:kubeslice-worker"},
		HighAvailability: true,
		NodePools: []linode.NodePoolSpec{
			{Type: def.WorkerNodeType, Count: def.WorkerNodeCount},
			{
				Type:   def.GatewayNodeType,
				Count:  def.GatewayNodeQty,
				Labels: map[string]string{"kubeslice.io/node-type": "gateway"},
			},
		},
	}
}

func (d *Deployment) provisionCluster(ctx context.Context, spec linode.ClusterSpec) (*linode.Cluster, *k8s.Kubeconfig, error) {
	cluster, kc, err := d.provisioner.ProvisionCluster(ctx, spec)
	if err != nil {
		return nil, nil, err
	}

	if d.kubeconfigDir != "" {
		if err := d.writeKubeconfig(spec.Label, kc); err != nil {
			return nil, nil, err
		}
	}

	return cluster, kc, nil
}

func (d *Deployment) clientFor(ctx context.Context, kc *future.Value[*k8s.Kubeconfig]) (ClusterClient, error) {
	kubeconfig, err := kc.Get(ctx)
	if err != nil {
		return nil, err
	}
	return d.newClient(kubeconfig)
}

func (d *Deployment) applyManifests(ctx context.Context, kc *future.Value[*k8s.Kubeconfig], names []string) error {
	client, err := d.clientFor(ctx, kc)
	if err != nil {
		return err
	}

	for _, name := range names {
		manifest, err := manifests.Bookinfo(name)
		if err != nil {
			return err
		}
		if err := client.Apply(ctx, manifest); err != nil {
			return fmt.Errorf("applying %s: %w", name, err)
		}
		d.logger.Info("manifest applied", zap.String("manifest", name))
	}

	return nil
}
