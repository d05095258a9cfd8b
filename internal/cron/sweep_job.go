package cron

import (
	"context"
	"fmt"

	"github.com/oxygenixlabs/storefront/internal/storage"
	"github.com/oxygenixlabs/storefront/pkg/logger"
)

// SnapshotSweepJobParams configure the expired snapshot sweep.
type SnapshotSweepJobParams struct {
	Logger  *logger.Logger
	Sweeper storage.Sweeper
}

// NewSnapshotSweepJob removes expired cart and session snapshots from media
// that do not expire keys on their own.
func NewSnapshotSweepJob(params SnapshotSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Sweeper == nil {
		return nil, fmt.Errorf("sweeper required")
	}
	return &snapshotSweepJob{logg: params.Logger, sweeper: params.Sweeper}, nil
}

type snapshotSweepJob struct {
	logg    *logger.Logger
	sweeper storage.Sweeper
}

func (j *snapshotSweepJob) Name() string { return "snapshot-sweep" }

func (j *snapshotSweepJob) Run(ctx context.Context) error {
	removed, err := j.sweeper.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("snapshot sweep: %w", err)
	}
	if removed > 0 {
		j.logg.Info(j.logg.WithField(ctx, "snapshots_removed", removed), "expired snapshots removed")
	}
	return nil
}
