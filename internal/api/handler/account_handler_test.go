package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/empresatop10/employee-manager/internal/core/domain"
	"github.com/empresatop10/employee-manager/internal/core/ports"
)

func TestAccountHandler_Login_Success(t *testing.T) {
	stub := &stubAccountService{
		authenticateFn: func(_ context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "ana@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.LoginResult{
				Token:     "tkn",
				ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
				Actor:     ports.ActorSummary{ID: "e1", Email: email, Role: domain.RoleEmployee, Groups: []string{"Employees"}},
			}, nil
		},
	}
	h := NewAccountHandler(stub, zerolog.Nop())

	c, rec := newContext(http.MethodPost, "/api/v1/login", `{"email":"ana@example.com","password":"secret"}`, domain.Actor{})
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "tkn" {
		t.Fatalf("token = %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["id"] != "e1" || user["role"] != "employee" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
}

func TestAccountHandler_Login_Validation(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{}, zerolog.Nop())

	for _, body := range []string{`{"email":"not-an-email","password":"x"}`, `{"email":"a@b.com"}`, `{bad json`} {
		c, _ := newContext(http.MethodPost, "/api/v1/login", body, domain.Actor{})
		if err := h.Login(c); httpCode(err) != http.StatusBadRequest {
			t.Errorf("body %s: err = %v, want 400", body, err)
		}
	}
}

func TestAccountHandler_Login_BadCredentials(t *testing.T) {
	stub := &stubAccountService{
		authenticateFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAccountHandler(stub, zerolog.Nop())

	c, _ := newContext(http.MethodPost, "/api/v1/login", `{"email":"ana@example.com","password":"wrong"}`, domain.Actor{})
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v", err)
	}
}

func TestAccountHandler_RecoverPassword_SameAnswerForUnknownEmail(t *testing.T) {
	known := "ana@example.com"
	stub := &stubAccountService{
		requestResetFn: func(_ context.Context, email string) error {
			if email == known {
				return nil
			}
			return domain.ErrEmployeeNotFound
		},
	}
	h := NewAccountHandler(stub, zerolog.Nop())

	var bodies []string
	for _, email := range []string{known, "ghost@example.com"} {
		c, rec := newContext(http.MethodPost, "/api/v1/recover-password", `{"email":"`+email+`"}`, domain.Actor{})
		if err := h.RecoverPassword(c); err != nil {
			t.Fatalf("%s: handler error: %v", email, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", email, rec.Code)
		}
		bodies = append(bodies, rec.Body.String())
	}
	if bodies[0] != bodies[1] {
		t.Fatalf("responses differ: %q vs %q", bodies[0], bodies[1])
	}
}

func TestAccountHandler_RecoverPassword_GatewayFailure(t *testing.T) {
	stub := &stubAccountService{
		requestResetFn: func(context.Context, string) error {
			return fmt.Errorf("send reset: %w", domain.ErrGatewayFailure)
		},
	}
	h := NewAccountHandler(stub, zerolog.Nop())

	c, _ := newContext(http.MethodPost, "/api/v1/recover-password", `{"email":"ana@example.com"}`, domain.Actor{})
	if err := h.RecoverPassword(c); !errors.Is(err, domain.ErrGatewayFailure) {
		t.Fatalf("err = %v", err)
	}
}

func TestAccountHandler_ResetPassword(t *testing.T) {
	stub := &stubAccountService{
		consumeResetFn: func(_ context.Context, token, password, confirm string) error {
			if token != "abc" {
				return domain.ErrResetNotFound
			}
			if password != confirm {
				return domain.ErrPasswordMismatch
			}
			return nil
		},
	}
	h := NewAccountHandler(stub, zerolog.Nop())

	tests := []struct {
		name    string
		hash    string
		body    string
		wantErr error
	}{
		{"ok", "abc", `{"password":"longenough","confirm_password":"longenough"}`, nil},
		{"mismatch", "abc", `{"password":"longenough","confirm_password":"other"}`, domain.ErrPasswordMismatch},
		{"unknown token", "zzz", `{"password":"longenough","confirm_password":"longenough"}`, domain.ErrResetNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodPost, "/api/v1/reset-password/"+tt.hash, tt.body, domain.Actor{})
			c.SetParamNames("hash")
			c.SetParamValues(tt.hash)

			err := h.ResetPassword(c)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || rec.Code != http.StatusOK {
				t.Fatalf("err = %v, code = %d", err, rec.Code)
			}
		})
	}
}

func TestAccountHandler_CheckResetToken(t *testing.T) {
	stub := &stubAccountService{
		tokenValidFn: func(_ context.Context, token string) error {
			if token == "abc" {
				return nil
			}
			return domain.ErrResetNotFound
		},
	}
	h := NewAccountHandler(stub, zerolog.Nop())

	c, rec := newContext(http.MethodGet, "/api/v1/reset-password/abc", "", domain.Actor{})
	c.SetParamNames("hash")
	c.SetParamValues("abc")
	if err := h.CheckResetToken(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("err = %v, code = %d", err, rec.Code)
	}

	c, _ = newContext(http.MethodGet, "/api/v1/reset-password/old", "", domain.Actor{})
	c.SetParamNames("hash")
	c.SetParamValues("old")
	if err := h.CheckResetToken(c); !errors.Is(err, domain.ErrResetNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestAccountHandler_ChangePassword(t *testing.T) {
	stub := &stubAccountService{
		changePasswordFn: func(_ context.Context, actor domain.Actor, oldPassword, _ string) error {
			if actor.ID != manager.ID {
				t.Fatalf("actor = %+v", actor)
			}
			if oldPassword != "current" {
				return domain.ErrInvalidCredentials
			}
			return nil
		},
	}
	h := NewAccountHandler(stub, zerolog.Nop())

	c, rec := newContext(http.MethodPut, "/api/v1/change-password", `{"old_password":"current","new_password":"x"}`, manager)
	if err := h.ChangePassword(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("err = %v, code = %d", err, rec.Code)
	}

	c, _ = newContext(http.MethodPut, "/api/v1/change-password", `{"old_password":"nope","new_password":"x"}`, manager)
	if err := h.ChangePassword(c); httpCode(err) != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
}

func TestAccountHandler_RequiresActor(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{}, zerolog.Nop())

	c, _ := newContext(http.MethodPost, "/api/v1/device-token", `{"device_token":"abc"}`, domain.Actor{})
	if err := h.DeviceToken(c); httpCode(err) != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

func TestAccountHandler_DeviceTokenAndContact(t *testing.T) {
	var gotToken string
	var gotContact ports.ContactInput
	stub := &stubAccountService{
		deviceTokenFn: func(_ context.Context, _ domain.Actor, token string) error {
			gotToken = token
			return nil
		},
		contactFn: func(_ context.Context, _ domain.Actor, in ports.ContactInput) error {
			gotContact = in
			return nil
		},
	}
	h := NewAccountHandler(stub, zerolog.Nop())

	c, rec := newContext(http.MethodPost, "/api/v1/device-token", `{"device_token":"fcm-123"}`, manager)
	if err := h.DeviceToken(c); err != nil || rec.Code != http.StatusOK || gotToken != "fcm-123" {
		t.Fatalf("device token: err = %v, code = %d, token = %q", err, rec.Code, gotToken)
	}

	c, rec = newContext(http.MethodPost, "/api/v1/contact", `{"subject":"Hi","message":"Help"}`, manager)
	if err := h.Contact(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("contact: err = %v, code = %d", err, rec.Code)
	}
	if gotContact.Subject != "Hi" || gotContact.Message != "Help" {
		t.Fatalf("contact input = %+v", gotContact)
	}

	c, _ = newContext(http.MethodPost, "/api/v1/contact", `{"subject":"Hi"}`, manager)
	if err := h.Contact(c); httpCode(err) != http.StatusBadRequest {
		t.Fatalf("missing message: err = %v, want 400", err)
	}
}
