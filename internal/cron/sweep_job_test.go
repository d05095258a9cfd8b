package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/oxygenixlabs/storefront/pkg/logger"
)

type fakeSweeper struct {
	removed int
	err     error
	calls   int
}

func (f *fakeSweeper) Sweep(context.Context) (int, error) {
	f.calls++
	return f.removed, f.err
}

func TestSnapshotSweepJob(t *testing.T) {
	sweeper := &fakeSweeper{removed: 3}
	job, err := NewSnapshotSweepJob(SnapshotSweepJobParams{Logger: logger.Nop(), Sweeper: sweeper})
	if err != nil {
		t.Fatalf("NewSnapshotSweepJob: %v", err)
	}
	if job.Name() != "snapshot-sweep" {
		t.Fatalf("unexpected name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sweeper.calls != 1 {
		t.Fatalf("expected one sweep, got %d", sweeper.calls)
	}

	sweeper.err = errors.New("disk gone")
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected sweep error to propagate")
	}
}

func TestSnapshotSweepJobRequiresSweeper(t *testing.T) {
	if _, err := NewSnapshotSweepJob(SnapshotSweepJobParams{Logger: logger.Nop()}); err == nil {
		t.Fatal("expected missing sweeper error")
	}
}
