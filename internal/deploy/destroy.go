package deploy

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/sliceops/slicectl/internal/config"
)

// Destroy deletes every cluster of the configured topology. Clusters that no
// longer exist are ignored; controller-side objects go down with the
// controller cluster.
func (d *Deployment) Destroy(ctx context.Context) ([]string, error) {
	labels := []string{config.ClusterName("controller")}
	for _, worker := range d.cfg.Workers.Names() {
		labels = append(labels, config.ClusterName(worker))
	}

	clusters, err := d.cloud.ListClusters(ctx)
	if err != nil {
		return nil, err
	}

	byLabel := make(map[string]int, len(clusters))
	for _, cluster := range clusters {
		byLabel[cluster.Label] = cluster.ID
	}

	var (
		deleted []string
		errs    *multierror.Error
	)

	for _, label := range labels {
		id, ok := byLabel[label]
		if !ok {
			d.logger.Info("cluster already absent", zap.String("cluster", label))
			continue
		}

		if err := d.cloud.DeleteCluster(ctx, id); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}

		d.logger.Info("cluster deleted", zap.String("cluster", label), zap.Int("id", id))
		deleted = append(deleted, label)
	}

	return deleted, errs.ErrorOrNil()
}
