package k8s

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/discovery/cached/memory"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/restmapper"
)

// Client wraps the API operations the deployment needs against one cluster.
// Every Client is bound to a single cluster's kubeconfig; objects on the
// controller are never created through a worker's client or vice versa.
type Client struct {
	clientset kubernetes.Interface
	dynamic   dynamic.Interface
	mapper    meta.RESTMapper
	logger    *zap.Logger
}

// NewClient builds a Client from a parsed kubeconfig.
func NewClient(kubeconfig *Kubeconfig, logger *zap.Logger) (*Client, error) {
	restConfig, err := kubeconfig.RESTConfig()
	if err != nil {
		return nil, err
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	discoveryClient, err := discovery.NewDiscoveryClientForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery client: %w", err)
	}
	mapper := restmapper.NewDeferredDiscoveryRESTMapper(memory.NewMemCacheClient(discoveryClient))

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		clientset: clientset,
		dynamic:   dynamicClient,
		mapper:    mapper,
		logger:    logger.Named("k8s"),
	}, nil
}

// EnsureNamespace creates a namespace with the given labels, or updates the
// labels when it already exists.
func (c *Client) EnsureNamespace(ctx context.Context, name string, labels map[string]string) error {
	ns := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			Name:   name,
			Labels: labels,
		},
	}

	_, err := c.clientset.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	if err == nil {
		c.logger.Info("namespace created", zap.String("namespace", name))
		return nil
	}
	if !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("failed to create namespace %s: %w", name, err)
	}

	existing, err := c.clientset.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return fmt.Errorf("failed to get namespace %s: %w", name, err)
	}

	if existing.Labels == nil {
		existing.Labels = map[string]string{}
	}
	changed := false
	for k, v := range labels {
		if existing.Labels[k] != v {
			existing.Labels[k] = v
			changed = true
		}
	}
	if !changed {
		return nil
	}

	if _, err := c.clientset.CoreV1().Namespaces().Update(ctx, existing, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("failed to update namespace %s: %w", name, err)
	}

	return nil
}

// Apply decodes a multi-document YAML manifest and creates or updates every
// object through the dynamic client.
func (c *Client) Apply(ctx context.Context, manifest []byte) error {
	decoder := utilyaml.NewYAMLOrJSONDecoder(strings.NewReader(string(manifest)), 4096)

	for {
		var obj unstructured.Unstructured
		if err := decoder.Decode(&obj); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to decode manifest: %w", err)
		}
		if len(obj.Object) == 0 {
			continue
		}

		if err := c.ApplyObject(ctx, &obj); err != nil {
			return err
		}
	}

	return nil
}

// ApplyObject creates the object, falling back to update on conflict with an
// existing one.
func (c *Client) ApplyObject(ctx context.Context, obj *unstructured.Unstructured) error {
	ri, err := c.resourceInterface(obj.GroupVersionKind(), obj.GetNamespace())
	if err != nil {
		return err
	}

	_, err = ri.Create(ctx, obj, metav1.CreateOptions{})
	if err == nil {
		c.logger.Info("object created",
			zap.String("kind", obj.GetKind()),
			zap.String("name", obj.GetName()),
			zap.String("namespace", obj.GetNamespace()))
		return nil
	}
	if !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("failed to create %s/%s: %w", obj.GetKind(), obj.GetName(), err)
	}

	existing, err := ri.Get(ctx, obj.GetName(), metav1.GetOptions{})
	if err != nil {
		return fmt.Errorf("failed to get existing %s/%s: %w", obj.GetKind(), obj.GetName(), err)
	}

	obj.SetResourceVersion(existing.GetResourceVersion())
	if _, err := ri.Update(ctx, obj, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", obj.GetKind(), obj.GetName(), err)
	}

	c.logger.Info("object updated",
		zap.String("kind", obj.GetKind()),
		zap.String("name", obj.GetName()),
		zap.String("namespace", obj.GetNamespace()))

	return nil
}

// GetNestedString reads a nested string field from a live object. Missing
// objects and missing fields return the empty string without error, so the
// call can be used inside polling conditions.
func (c *Client) GetNestedString(ctx context.Context, gvk schema.GroupVersionKind, namespace, name string, fields ...string) (string, error) {
	ri, err := c.resourceInterface(gvk, namespace)
	if err != nil {
		return "", err
	}

	obj, err := ri.Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get %s/%s: %w", gvk.Kind, name, err)
	}

	val, _, err := unstructured.NestedString(obj.Object, fields...)
	if err != nil {
		return "", fmt.Errorf("failed to read field %s of %s/%s: %w", strings.Join(fields, "."), gvk.Kind, name, err)
	}

	return val, nil
}

// WaitForFieldValue polls a live object until the nested field equals the
// expected value. This is the externally-polled status condition used for
// cluster registrations.
func (c *Client) WaitForFieldValue(ctx context.Context, gvk schema.GroupVersionKind, namespace, name, expected string, timeout time.Duration, fields ...string) error {
	description := fmt.Sprintf("%s %s/%s .%s == %q", gvk.Kind, namespace, name, strings.Join(fields, "."), expected)

	return PollUntil(ctx, description, timeout, func(ctx context.Context) (bool, error) {
		val, err := c.GetNestedString(ctx, gvk, namespace, name, fields...)
		if err != nil {
			return false, err
		}
		return val == expected, nil
	})
}

// WaitForDeploymentsReady polls until the namespace has at least one
// deployment and every deployment reports all replicas ready. Replaces the
// fixed settling sleeps with a verified condition.
func (c *Client) WaitForDeploymentsReady(ctx context.Context, namespace string, timeout time.Duration) error {
	description := fmt.Sprintf("deployments ready in namespace %s", namespace)

	return PollUntil(ctx, description, timeout, func(ctx context.Context) (bool, error) {
		deployments, err := c.clientset.AppsV1().Deployments(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			// Transient API errors should not abort the wait.
			return false, nil
		}
		if len(deployments.Items) == 0 {
			return false, nil
		}

		for _, d := range deployments.Items {
			want := int32(1)
			if d.Spec.Replicas != nil {
				want = *d.Spec.Replicas
			}
			if d.Status.ReadyReplicas < want {
				return false, nil
			}
		}

		return true, nil
	})
}

func (c *Client) resourceInterface(gvk schema.GroupVersionKind, namespace string) (dynamic.ResourceInterface, error) {
	mapping, err := c.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to map %s: %w", gvk.String(), err)
	}

	if mapping.Scope.Name() == meta.RESTScopeNameNamespace {
		if namespace == "" {
			namespace = "default"
		}
		return c.dynamic.Resource(mapping.Resource).Namespace(namespace), nil
	}

	return c.dynamic.Resource(mapping.Resource), nil
}
