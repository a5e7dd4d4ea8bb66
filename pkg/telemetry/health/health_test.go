package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestChecker_ReadinessAllHealthy(t *testing.T) {
	c := New(time.Second)
	c.Register("ledger", func(ctx context.Context) error { return nil })
	c.Register("temporal", func(ctx context.Context) error { return nil })

	status := c.Readiness(context.Background())
	if status.Overall != "ready" {
		t.Errorf("Overall = %q, want ready", status.Overall)
	}
	if len(status.Checks) != 2 {
		t.Fatalf("len(Checks) = %d, want 2", len(status.Checks))
	}
	for name, result := range status.Checks {
		if result.Status != "ok" {
			t.Errorf("check %q status = %q, want ok", name, result.Status)
		}
	}
}

func TestChecker_ReadinessDegraded(t *testing.T) {
	c := New(time.Second)
	c.Register("ledger", func(ctx context.Context) error { return nil })
	c.Register("temporal", func(ctx context.Context) error {
		return errors.New("all time sources unreachable")
	})

	status := c.Readiness(context.Background())
	if status.Overall != "degraded" {
		t.Errorf("Overall = %q, want degraded", status.Overall)
	}
	if status.Checks["temporal"].Message != "all time sources unreachable" {
		t.Errorf("temporal message = %q", status.Checks["temporal"].Message)
	}
}

func TestChecker_ReadinessTimeout(t *testing.T) {
	c := New(50 * time.Millisecond)
	c.Register("slow", func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	status := c.Readiness(context.Background())
	if status.Overall != "degraded" {
		t.Errorf("Overall = %q, want degraded", status.Overall)
	}
}

func TestChecker_NoChecksIsReady(t *testing.T) {
	status := New(0).Readiness(context.Background())
	if status.Overall != "ready" {
		t.Errorf("Overall = %q, want ready", status.Overall)
	}
}

func TestReadinessHandler_StatusCodes(t *testing.T) {
	c := New(time.Second)
	c.Register("ok", func(ctx context.Context) error { return nil })

	rec := httptest.NewRecorder()
	c.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("healthy readiness code = %d, want 200", rec.Code)
	}

	c.Register("bad", func(ctx context.Context) error { return errors.New("down") })
	rec = httptest.NewRecorder()
	c.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("degraded readiness code = %d, want 503", rec.Code)
	}
}

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	New(0).LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("liveness code = %d, want 200", rec.Code)
	}
	var status Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("liveness body is not JSON: %v", err)
	}
	if status.Overall != "ok" {
		t.Errorf("Overall = %q, want ok", status.Overall)
	}
}

func TestVersionHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler("1.2.3", "abc123", "2026-08-01")(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("version body is not JSON: %v", err)
	}
	if body["version"] != "1.2.3" || body["commit"] != "abc123" {
		t.Errorf("body = %v", body)
	}
}
