package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func authedRequest(t *testing.T, uid uint) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	CreateSession(rec, uid)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSessionRoundTrip(t *testing.T) {
	uid, ok := ParseSession(authedRequest(t, 42))
	if !ok || uid != 42 {
		t.Fatalf("ParseSession = (%d,%v), want (42,true)", uid, ok)
	}
}

func TestTamperedCookieRejected(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "ventepos_session", Value: "42.bogus-signature"})
	if _, ok := ParseSession(req); ok {
		t.Fatal("tampered session must be rejected")
	}
}

func TestRequireAuth(t *testing.T) {
	SetUserVerifier(nil)
	handler := Middleware(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no session: got %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, 7))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("valid session: got %d, want 204", rec.Code)
	}
}

func TestRequireAuthRejectsDeletedUser(t *testing.T) {
	SetUserVerifier(func(_ context.Context, _ uint) bool { return false })
	t.Cleanup(func() { SetUserVerifier(nil) })

	handler := Middleware(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, 7))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("deleted user: got %d, want 401", rec.Code)
	}
}
