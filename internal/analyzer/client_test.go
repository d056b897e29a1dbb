package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/reportportal/service-api-sub011/internal/logger"
)

func TestHTTPClientGenerateClusters(t *testing.T) {
	var gotRq GenerateClustersRq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != clusterRoute {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotRq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		index := int64(42)
		_ = json.NewEncoder(w).Encode(ClusterData{
			Project:  gotRq.Project,
			LaunchID: gotRq.LaunchID,
			Clusters: []ClusterInfo{
				{ClusterID: &index, ClusterMessage: "assertion failed", LogIDs: []int64{1, 2}},
			},
		})
	}))
	defer srv.Close()

	log := logger.NewNop()
	registry := NewRegistry(log, Instance{Name: "test", URL: srv.URL, Priority: 1})
	client := NewHTTPClient(registry, log)

	rq := &GenerateClustersRq{
		LaunchID:       1,
		LaunchName:     "smoke",
		Project:        10,
		Items:          []IndexTestItem{{ItemID: 101, Logs: []IndexLog{{LogID: 1, LogLevel: 50000, Message: "boom"}}}},
		AnalyzerConfig: Config{MinShouldMatch: 95},
	}
	data, err := client.GenerateClusters(context.Background(), rq)
	if err != nil {
		t.Fatalf("generate clusters: %v", err)
	}
	if gotRq.LaunchID != 1 || gotRq.Project != 10 || len(gotRq.Items) != 1 {
		t.Fatalf("request not forwarded intact: %+v", gotRq)
	}
	if len(data.Clusters) != 1 || *data.Clusters[0].ClusterID != 42 {
		t.Fatalf("unexpected response: %+v", data)
	}
}

func TestHTTPClientGenerateClustersAnalyzerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	log := logger.NewNop()
	registry := NewRegistry(log, Instance{Name: "broken", URL: srv.URL, Priority: 1})
	client := NewHTTPClient(registry, log)

	_, err := client.GenerateClusters(context.Background(), &GenerateClustersRq{LaunchID: 1, Project: 10})
	if err == nil {
		t.Fatalf("expected an error from a 503")
	}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "model not loaded") {
		t.Fatalf("error does not carry the analyzer response: %v", err)
	}
}

func TestHTTPClientGenerateClustersNoInstances(t *testing.T) {
	log := logger.NewNop()
	client := NewHTTPClient(NewRegistry(log), log)

	if client.HasClients() {
		t.Fatalf("empty registry must report no clients")
	}
	if _, err := client.GenerateClusters(context.Background(), &GenerateClustersRq{}); err == nil {
		t.Fatalf("expected an error with no registered analyzers")
	}
}

func TestHTTPClientPicksHighestPriorityInstance(t *testing.T) {
	var primaryHits, backupHits int
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		primaryHits++
		_ = json.NewEncoder(w).Encode(ClusterData{})
	}))
	defer primary.Close()
	backup := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backupHits++
		_ = json.NewEncoder(w).Encode(ClusterData{})
	}))
	defer backup.Close()

	log := logger.NewNop()
	registry := NewRegistry(log,
		Instance{Name: "backup", URL: backup.URL, Priority: 5},
		Instance{Name: "primary", URL: primary.URL, Priority: 1},
	)
	client := NewHTTPClient(registry, log)

	if _, err := client.GenerateClusters(context.Background(), &GenerateClustersRq{LaunchID: 1}); err != nil {
		t.Fatalf("generate clusters: %v", err)
	}
	if primaryHits != 1 || backupHits != 0 {
		t.Fatalf("wrong instance used: primary=%d backup=%d", primaryHits, backupHits)
	}
}

func TestHTTPClientCheckAvailability(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != healthRoute {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()
	unhealthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer unhealthy.Close()

	log := logger.NewNop()

	ok := NewHTTPClient(NewRegistry(log, Instance{Name: "h", URL: healthy.URL, Priority: 1}), log)
	if err := ok.CheckAvailability(context.Background()); err != nil {
		t.Fatalf("healthy analyzer reported unavailable: %v", err)
	}

	mixed := NewHTTPClient(NewRegistry(log,
		Instance{Name: "h", URL: healthy.URL, Priority: 1},
		Instance{Name: "u", URL: unhealthy.URL, Priority: 2},
	), log)
	if err := mixed.CheckAvailability(context.Background()); err == nil {
		t.Fatalf("unhealthy analyzer not reported")
	}
}
