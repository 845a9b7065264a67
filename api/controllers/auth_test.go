package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/avilamfg/exhibit-backend/api/middleware"
	adminsvc "github.com/avilamfg/exhibit-backend/internal/admins"
	pkgerrors "github.com/avilamfg/exhibit-backend/pkg/errors"
)

type stubAdminService struct {
	resp      *adminsvc.LoginResponse
	loginErr  error
	loginReq  adminsvc.LoginRequest
	loggedOut string
	logoutErr error
}

func (s *stubAdminService) Login(ctx context.Context, req adminsvc.LoginRequest) (*adminsvc.LoginResponse, error) {
	s.loginReq = req
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.resp, nil
}

func (s *stubAdminService) Logout(ctx context.Context, sessionID string) error {
	s.loggedOut = sessionID
	return s.logoutErr
}

func TestAdminLogin(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubAdminService{resp: &adminsvc.LoginResponse{
			AccessToken: "token",
			ExpiresAt:   time.Now().Add(15 * time.Minute),
			Admin:       adminsvc.AdminDTO{ID: uuid.New(), Email: "ops@avilamfg.com", Role: "admin"},
		}}
		body := `{"email":"ops@avilamfg.com","password":"secret"}`
		req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		AdminLogin(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.loginReq.Email != "ops@avilamfg.com" {
			t.Fatalf("payload not forwarded: %+v", stub.loginReq)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		stub := &stubAdminService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")}
		body := `{"email":"ops@avilamfg.com","password":"wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()

		AdminLogin(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/login", strings.NewReader(`{"email":"ops@avilamfg.com"}`))
		rec := httptest.NewRecorder()

		AdminLogin(&stubAdminService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAdminLogout(t *testing.T) {
	logg := testLogger()

	stub := &stubAdminService{}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/logout", nil)
	req = req.WithContext(middleware.WithSessionID(req.Context(), "session-abc"))
	rec := httptest.NewRecorder()

	AdminLogout(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.loggedOut != "session-abc" {
		t.Fatalf("expected session revocation, got %q", stub.loggedOut)
	}
}
