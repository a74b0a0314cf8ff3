package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/empresatop10/employee-manager/internal/core/domain"
)

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler(nil)
	c, rec := newContext(http.MethodGet, "/health", "", domain.Actor{})
	if err := h.Liveness(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("err = %v, code = %d", err, rec.Code)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name     string
		checks   map[string]PingFunc
		wantCode int
		wantBody string
	}{
		{"all up", map[string]PingFunc{"store": ok, "sessions": ok}, http.StatusOK, "ok"},
		{"one down", map[string]PingFunc{"store": ok, "sessions": down}, http.StatusServiceUnavailable, "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.checks)
			c, rec := newContext(http.MethodGet, "/health/ready", "", domain.Actor{})
			if err := h.Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Status != tt.wantBody || len(resp.Dependencies) != len(tt.checks) {
				t.Fatalf("resp = %+v", resp)
			}
		})
	}
}
