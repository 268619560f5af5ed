package deploy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/sliceops/slicectl/internal/graph"
	"github.com/sliceops/slicectl/internal/k8s"
)

// Summary reports the outcome of one rollout.
type Summary struct {
	Results  map[string]graph.Result
	Created  int
	Failed   int
	Skipped  int
	Duration time.Duration
}

// Apply plans and evaluates the rollout. All branch failures are collected
// into the returned error; the summary always covers every planned resource.
func (d *Deployment) Apply(ctx context.Context) (*Summary, error) {
	g, err := d.Plan()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results, runErr := graph.NewRunner(d.logger).Run(ctx, g)

	summary := &Summary{
		Results:  results,
		Duration: time.Since(start).Round(time.Second),
	}
	for _, res := range results {
		switch res.Status {
		case graph.StatusCreated:
			summary.Created++
		case graph.StatusFailed:
			summary.Failed++
		case graph.StatusSkipped:
			summary.Skipped++
		}
	}

	return summary, runErr
}

func (d *Deployment) writeKubeconfig(label string, kc *k8s.Kubeconfig) error {
	path := filepath.Join(d.kubeconfigDir, "kubeconfig-"+label)

	if err := os.WriteFile(path, kc.Raw(), 0o600); err != nil {
		return fmt.Errorf("failed to write kubeconfig for %s: %w", label, err)
	}

	d.logger.Info("kubeconfig written", zap.String("path", path))
	return nil
}
