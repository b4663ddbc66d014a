package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type fakeVerifier struct {
	uid  string
	role string
	err  error
}

func (f *fakeVerifier) VerifyToken(_ context.Context, _ string) (string, string, error) {
	return f.uid, f.role, f.err
}

func doRequest(t *testing.T, mw []echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec, c
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	rec, _ := doRequest(t, []echo.MiddlewareFunc{RequireAuth(&fakeVerifier{})}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuthRejectsInvalidToken(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("expired")}
	rec, _ := doRequest(t, []echo.MiddlewareFunc{RequireAuth(verifier)}, "Bearer bad-token")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuthStoresCallerIdentity(t *testing.T) {
	verifier := &fakeVerifier{uid: "u-1", role: RoleRecruiter}
	rec, c := doRequest(t, []echo.MiddlewareFunc{RequireAuth(verifier)}, "Bearer good-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if CallerUID(c) != "u-1" {
		t.Errorf("caller uid not stored")
	}
	if role, _ := c.Get(ContextRole).(string); role != RoleRecruiter {
		t.Errorf("caller role not stored")
	}
}

func TestRequireRoleForbidsOtherRoles(t *testing.T) {
	verifier := &fakeVerifier{uid: "u-1", role: RoleCandidate}
	mw := []echo.MiddlewareFunc{RequireAuth(verifier), RequireRole(RoleAdmin, RoleRecruiter)}
	rec, _ := doRequest(t, mw, "Bearer good-token")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	verifier := &fakeVerifier{uid: "u-1", role: RoleAdmin}
	mw := []echo.MiddlewareFunc{RequireAuth(verifier), RequireRole(RoleAdmin)}
	rec, _ := doRequest(t, mw, "Bearer good-token")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
