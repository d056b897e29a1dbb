package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/reportportal/service-api-sub011/internal/logger"
	"github.com/reportportal/service-api-sub011/internal/utils"
)

const (
	clusterRoute = "/cluster"
	healthRoute  = "/health"
)

// Client is the analyzer service boundary. GenerateClusters is a blocking
// round-trip; it may fail on transport or analyzer-side errors and no retry
// is attempted here.
type Client interface {
	HasClients() bool
	GenerateClusters(ctx context.Context, rq *GenerateClustersRq) (*ClusterData, error)
	// CheckAvailability pings every registered analyzer concurrently and
	// returns the first failure, if any.
	CheckAvailability(ctx context.Context) error
}

type httpClient struct {
	registry *Registry
	hc       *http.Client
	tracer   trace.Tracer
	log      *logger.Logger
}

func NewHTTPClient(registry *Registry, baseLog *logger.Logger) Client {
	timeout := time.Duration(utils.GetEnvAsInt("ANALYZER_TIMEOUT_SECONDS", 120, baseLog)) * time.Second
	return &httpClient{
		registry: registry,
		hc:       &http.Client{Timeout: timeout},
		tracer:   otel.Tracer("analyzer-client"),
		log:      baseLog.With("component", "AnalyzerClient"),
	}
}

func (c *httpClient) HasClients() bool {
	return c.registry.HasClients()
}

func (c *httpClient) GenerateClusters(ctx context.Context, rq *GenerateClustersRq) (*ClusterData, error) {
	instances := c.registry.Instances()
	if len(instances) == 0 {
		return nil, fmt.Errorf("no analyzer services registered")
	}
	// The highest-priority analyzer owns clustering; the rest are fallbacks
	// for other analysis kinds.
	inst := instances[0]

	ctx, span := c.tracer.Start(ctx, "analyzer.GenerateClusters",
		trace.WithAttributes(
			attribute.Int64("launch.id", rq.LaunchID),
			attribute.Int64("project.id", rq.Project),
			attribute.Bool("for_update", rq.ForUpdate),
			attribute.String("analyzer.instance", inst.Name),
		))
	defer span.End()

	data, err := c.postClusters(ctx, inst, rq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cluster round-trip failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("clusters.count", len(data.Clusters)))
	return data, nil
}

func (c *httpClient) postClusters(ctx context.Context, inst Instance, rq *GenerateClustersRq) (*ClusterData, error) {
	body, err := json.Marshal(rq)
	if err != nil {
		return nil, fmt.Errorf("marshal cluster request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(inst.URL, "/")+clusterRoute, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyzer %s: %w", inst.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("analyzer %s returned %d: %s", inst.Name, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var data ClusterData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode cluster response from %s: %w", inst.Name, err)
	}
	return &data, nil
}

func (c *httpClient) CheckAvailability(ctx context.Context) error {
	instances := c.registry.Instances()
	if len(instances) == 0 {
		return fmt.Errorf("no analyzer services registered")
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, inst := range instances {
		inst := inst
		g.Go(func() error {
			req, err := http.NewRequestWithContext(gctx, http.MethodGet,
				strings.TrimRight(inst.URL, "/")+healthRoute, nil)
			if err != nil {
				return err
			}
			resp, err := c.hc.Do(req)
			if err != nil {
				return fmt.Errorf("analyzer %s unreachable: %w", inst.Name, err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("analyzer %s unhealthy: %d", inst.Name, resp.StatusCode)
			}
			return nil
		})
	}
	return g.Wait()
}
