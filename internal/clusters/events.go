package clusters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/reportportal/service-api-sub011/internal/logger"
	"github.com/reportportal/service-api-sub011/internal/utils"
)

// GenerationEvent is published on generation start and completion so other
// services can observe fire-and-forget jobs whose errors the caller never
// sees.
type GenerationEvent struct {
	RunID     uuid.UUID `json:"run_id"`
	LaunchID  int64     `json:"launch_id"`
	ProjectID int64     `json:"project_id"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}

type EventBus interface {
	Publish(ctx context.Context, ev GenerationEvent) error
	Close() error
}

type noopBus struct{}

// NewNoopBus is used when no Redis is configured; events are dropped.
func NewNoopBus() EventBus { return noopBus{} }

func (noopBus) Publish(context.Context, GenerationEvent) error { return nil }
func (noopBus) Close() error                                   { return nil }

type redisBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewRedisEventBus(baseLog *logger.Logger) (EventBus, error) {
	addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", baseLog))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	channel := utils.GetEnv("CLUSTER_EVENTS_CHANNEL", "cluster-events", baseLog)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisBus{
		log:     baseLog.With("component", "ClusterEventBus"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (b *redisBus) Publish(ctx context.Context, ev GenerationEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal generation event: %w", err)
	}
	if err := b.rdb.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish generation event: %w", err)
	}
	return nil
}

func (b *redisBus) Close() error {
	return b.rdb.Close()
}
