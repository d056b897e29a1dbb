package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/reportportal/service-api-sub011/internal/logger"
	"github.com/reportportal/service-api-sub011/internal/types"
)

func TestGenerationRunLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewGenerationRunRepo(db, logger.NewNop())

	run := &types.ClusterGenerationRun{
		LaunchID:  1,
		ProjectID: 10,
		Mode:      "inline",
		Status:    types.GenerationStatusRunning,
	}
	if err := repo.Create(context.Background(), nil, run); err != nil {
		t.Fatalf("create: %v", err)
	}
	if run.ID == uuid.Nil {
		t.Fatalf("run id not assigned")
	}
	if run.StartedAt.IsZero() {
		t.Fatalf("started_at not set")
	}

	if err := repo.UpdateStatus(context.Background(), nil, run.ID, types.GenerationStatusFailed, "analyzer unreachable"); err != nil {
		t.Fatalf("update status: %v", err)
	}

	got, err := repo.GetLatestByLaunchID(context.Background(), nil, 1)
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if got == nil || got.ID != run.ID {
		t.Fatalf("latest run missing")
	}
	if got.Status != types.GenerationStatusFailed || got.Error != "analyzer unreachable" {
		t.Fatalf("status not updated: %+v", got)
	}
	if got.FinishedAt == nil {
		t.Fatalf("terminal status must set finished_at")
	}
}

func TestGenerationRunLatestPicksNewest(t *testing.T) {
	db := newTestDB(t)
	repo := NewGenerationRunRepo(db, logger.NewNop())

	older := &types.ClusterGenerationRun{
		LaunchID: 1, ProjectID: 10, Mode: "inline",
		Status: types.GenerationStatusSucceeded, StartedAt: time.Now().Add(-time.Hour),
	}
	newer := &types.ClusterGenerationRun{
		LaunchID: 1, ProjectID: 10, Mode: "background",
		Status: types.GenerationStatusRunning, StartedAt: time.Now(),
	}
	for _, r := range []*types.ClusterGenerationRun{older, newer} {
		if err := repo.Create(context.Background(), nil, r); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.GetLatestByLaunchID(context.Background(), nil, 1)
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if got == nil || got.ID != newer.ID {
		t.Fatalf("expected the newest run, got %+v", got)
	}
}

func TestGenerationRunLatestMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewGenerationRunRepo(db, logger.NewNop())

	got, err := repo.GetLatestByLaunchID(context.Background(), nil, 99)
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for a launch without runs")
	}
}
