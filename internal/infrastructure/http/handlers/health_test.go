package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func serveReadiness(t *testing.T, checks map[string]Check) (*httptest.ResponseRecorder, readinessResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := NewHealthHandler(checks).Readiness(c); err != nil {
		t.Fatalf("readiness: %v", err)
	}

	var body readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec, body
}

func ok(context.Context) error { return nil }

func TestReadiness_AllHealthy(t *testing.T) {
	rec, body := serveReadiness(t, map[string]Check{"postgres": ok, "mongodb": ok, "redis": ok})

	if rec.Code != http.StatusOK || body.Status != "ok" {
		t.Fatalf("expected 200 ok, got %d %s", rec.Code, body.Status)
	}
	if len(body.Dependencies) != 3 {
		t.Fatalf("expected 3 dependencies, got %v", body.Dependencies)
	}
}

func TestReadiness_OneDown(t *testing.T) {
	down := func(context.Context) error { return errors.New("connection refused") }
	rec, body := serveReadiness(t, map[string]Check{"postgres": ok, "redis": down})

	if rec.Code != http.StatusServiceUnavailable || body.Status != "degraded" {
		t.Fatalf("expected 503 degraded, got %d %s", rec.Code, body.Status)
	}
	if body.Dependencies["redis"].Error != "connection refused" {
		t.Fatalf("unexpected redis status: %+v", body.Dependencies["redis"])
	}
	if body.Dependencies["postgres"].Status != "ok" {
		t.Fatalf("healthy dependency must still be reported ok: %+v", body.Dependencies["postgres"])
	}
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler(nil).Liveness(c); err != nil {
		t.Fatalf("liveness: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
