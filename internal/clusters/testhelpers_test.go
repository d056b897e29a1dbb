package clusters

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/reportportal/service-api-sub011/internal/analyzer"
	"github.com/reportportal/service-api-sub011/internal/logger"
	"github.com/reportportal/service-api-sub011/internal/pipeline"
	"github.com/reportportal/service-api-sub011/internal/repos"
	"github.com/reportportal/service-api-sub011/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&types.Launch{},
		&types.TestItem{},
		&types.Log{},
		&types.Cluster{},
		&types.ItemAttribute{},
		&types.ClusterGenerationRun{},
	)
	if err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// seedLaunch creates a launch with two failed items carrying error logs and
// one passed item. Log ids are returned in insertion order.
func seedLaunch(t *testing.T, db *gorm.DB, launchID, projectID int64) []int64 {
	t.Helper()
	launch := &types.Launch{ID: launchID, ProjectID: projectID, Name: "smoke", Status: "failed", StartTime: time.Now()}
	if err := db.Create(launch).Error; err != nil {
		t.Fatalf("seed launch: %v", err)
	}
	items := []*types.TestItem{
		{ID: launchID*100 + 1, LaunchID: launchID, Name: "test-a", Type: "step", Status: types.StatusFailed, HasStats: true, StartTime: time.Now()},
		{ID: launchID*100 + 2, LaunchID: launchID, Name: "test-b", Type: "step", Status: types.StatusFailed, HasStats: true, StartTime: time.Now()},
		{ID: launchID*100 + 3, LaunchID: launchID, Name: "test-c", Type: "step", Status: types.StatusPassed, HasStats: true, StartTime: time.Now()},
	}
	for _, item := range items {
		if err := db.Create(item).Error; err != nil {
			t.Fatalf("seed item: %v", err)
		}
	}
	logs := []*types.Log{
		{LaunchID: launchID, ItemID: items[0].ID, LogLevel: types.LogLevelError, Message: "assertion failed at line 12", LogTime: time.Now()},
		{LaunchID: launchID, ItemID: items[0].ID, LogLevel: types.LogLevelInfo, Message: "starting test", LogTime: time.Now()},
		{LaunchID: launchID, ItemID: items[1].ID, LogLevel: types.LogLevelError, Message: "connection refused", LogTime: time.Now()},
	}
	ids := make([]int64, 0, len(logs))
	for _, l := range logs {
		if err := db.Create(l).Error; err != nil {
			t.Fatalf("seed log: %v", err)
		}
		ids = append(ids, l.ID)
	}
	return ids
}

type fakeAnalyzerClient struct {
	mu       sync.Mutex
	has      bool
	data     *analyzer.ClusterData
	err      error
	calls    int
	lastRq   *analyzer.GenerateClustersRq
	entered  chan struct{}
	release  chan struct{}
}

func (f *fakeAnalyzerClient) HasClients() bool { return f.has }

func (f *fakeAnalyzerClient) GenerateClusters(ctx context.Context, rq *analyzer.GenerateClustersRq) (*analyzer.ClusterData, error) {
	f.mu.Lock()
	f.calls++
	f.lastRq = rq
	entered, release := f.entered, f.release
	f.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		<-release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func (f *fakeAnalyzerClient) CheckAvailability(context.Context) error { return nil }

func (f *fakeAnalyzerClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type generatorFixture struct {
	db       *gorm.DB
	cache    *StatusCache
	client   *fakeAnalyzerClient
	executor *TaskExecutor
	runs     repos.GenerationRunRepo
	gen      *Generator
}

func newGeneratorFixture(t *testing.T, mode ExecutionMode, client *fakeAnalyzerClient) *generatorFixture {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()

	launchRepo := repos.NewLaunchRepo(db, log)
	itemRepo := repos.NewTestItemRepo(db, log)
	logRepo := repos.NewLogRepo(db, log)
	clusterRepo := repos.NewClusterRepo(db, log)
	attrRepo := repos.NewItemAttributeRepo(db, log)
	runRepo := repos.NewGenerationRunRepo(db, log)

	providers := NewProviderFactory(launchRepo, itemRepo, logRepo, log)
	createHandler := NewCreateClusterHandler(clusterRepo, logRepo, log)
	deleteHandler := NewDeleteClusterHandler(clusterRepo, logRepo, log)
	constructor := NewPipelineConstructor(providers, client, createHandler, attrRepo, log)
	pipe := pipeline.NewTransactionalPipeline(db, log)

	executor := NewTaskExecutor(2, 4, log)
	executor.Start(context.Background())
	t.Cleanup(executor.Shutdown)

	cache := NewStatusCache()
	gen := NewGenerator(mode, cache, client, constructor, pipe, deleteHandler, executor, runRepo, NewNoopBus(), log)

	return &generatorFixture{
		db:       db,
		cache:    cache,
		client:   client,
		executor: executor,
		runs:     runRepo,
		gen:      gen,
	}
}

// waitFor polls cond until it holds or the deadline expires.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not reached within %v", timeout)
}

func int64Ptr(v int64) *int64 { return &v }
