package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/reportportal/service-api-sub011/internal/analyzer"
	"github.com/reportportal/service-api-sub011/internal/logger"
)

func newAnalyzerRouter(registry *analyzer.Registry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAnalyzerHandler(registry)
	r.GET("/analyzers", h.List)
	r.PUT("/analyzers", h.Register)
	r.DELETE("/analyzers/:name", h.Remove)
	return r
}

func TestAnalyzerHandlerRegisterListRemove(t *testing.T) {
	registry := analyzer.NewRegistry(logger.NewNop())
	router := newAnalyzerRouter(registry)

	body := `{"name":"primary","url":"http://primary:5000","priority":1}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/analyzers", strings.NewReader(body)))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("register: got %d", rec.Code)
	}
	if !registry.HasClients() {
		t.Fatalf("instance not registered")
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyzers", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "primary") {
		t.Fatalf("registered instance missing from list: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/analyzers/primary", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("remove: got %d", rec.Code)
	}
	if registry.HasClients() {
		t.Fatalf("instance survived removal")
	}
}

func TestAnalyzerHandlerRegisterInvalidBody(t *testing.T) {
	registry := analyzer.NewRegistry(logger.NewNop())
	router := newAnalyzerRouter(registry)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/analyzers", strings.NewReader(`{"name":"x"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a request without url, got %d", rec.Code)
	}
	if registry.HasClients() {
		t.Fatalf("invalid request registered an instance")
	}
}
