package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/empresatop10/employee-manager/internal/core/domain"
)

type stubTokens struct {
	verifyFn func(ctx context.Context, token string) (domain.Actor, error)
}

func (s *stubTokens) Issue(context.Context, *domain.Employee) (string, time.Time, error) {
	return "", time.Time{}, nil
}

func (s *stubTokens) Verify(ctx context.Context, token string) (domain.Actor, error) {
	return s.verifyFn(ctx, token)
}

func validTokens() *stubTokens {
	return &stubTokens{verifyFn: func(_ context.Context, token string) (domain.Actor, error) {
		if token != "good" {
			return domain.Actor{}, domain.ErrInvalidCredentials
		}
		return domain.Actor{ID: "e1", Role: domain.RoleManager, DepartmentID: "d1"}, nil
	}}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth(validTokens())
	handler := mw(func(c echo.Context) error {
		called = true
		actor, ok := ActorFrom(c)
		if !ok || actor.ID != "e1" || actor.DepartmentID != "d1" {
			t.Fatalf("actor not set: %+v", actor)
		}
		if c.Get(RoleKey) != "manager" {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"invalid header format", "Token abc"},
		{"invalid token", "Bearer not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			mw := Auth(validTokens())
			handler := mw(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestActorFrom_Missing(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if _, ok := ActorFrom(c); ok {
		t.Fatal("expected no actor")
	}
}
