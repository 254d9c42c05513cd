package ingest

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/patmonardo/graphcore/pkg/logging"
)

// WorkFunc is one worker's share of the ingestion. The builder is exclusively
// owned for the duration of the call.
type WorkFunc func(ctx context.Context, workerID int, builder *LocalNodesBuilder) error

// RunWorkers drives the master context's configured worker count against the
// provider, each worker executing synchronously with its own builder. The
// first error cancels the group context; builders are released on every exit
// path.
func RunWorkers(ctx context.Context, master *NodesBuilderContext, provider LocalNodesBuilderProvider, work WorkFunc) error {
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < master.Concurrency().Value(); w++ {
		workerID := w
		g.Go(func() (err error) {
			builder, release := provider.Get(workerID)
			defer func() {
				if releaseErr := release(); err == nil {
					err = releaseErr
				}
			}()
			return work(gctx, workerID, builder)
		})
	}
	err := g.Wait()

	elapsed := time.Since(start)
	if master.metrics != nil {
		master.metrics.ImportPhaseDuration.WithLabelValues("ingest").Observe(elapsed.Seconds())
	}
	if err != nil {
		master.logger.Error("ingestion failed",
			logging.Error(err),
			logging.Duration("elapsed", elapsed),
		)
		return err
	}
	master.logger.Info("ingestion finished",
		logging.Duration("elapsed", elapsed),
	)
	return err
}
