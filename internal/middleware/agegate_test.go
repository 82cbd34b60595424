package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAgeGate_ForbidsWithoutCookie(t *testing.T) {
	gate := NewAgeGate("test-secret")

	req := httptest.NewRequest(http.MethodGet, "/api/store/products", nil)
	rec := httptest.NewRecorder()

	gate.Middleware(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusForbidden)
	}
}

func TestAgeGate_AllowsWithValidCookie(t *testing.T) {
	gate := NewAgeGate("test-secret")

	setRec := httptest.NewRecorder()
	gate.SetVerifiedCookie(setRec)
	cookies := setRec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/store/products", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()

	gate.Middleware(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusOK)
	}
}

func TestAgeGate_RejectsForgedCookie(t *testing.T) {
	gate := NewAgeGate("test-secret")

	req := httptest.NewRequest(http.MethodGet, "/api/store/products", nil)
	req.AddCookie(&http.Cookie{Name: "age_verified", Value: "21+.deadbeef"})
	rec := httptest.NewRecorder()

	gate.Middleware(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusForbidden)
	}
}

func TestAgeGate_CookieFromOtherSecretRejected(t *testing.T) {
	gate := NewAgeGate("test-secret")
	other := NewAgeGate("other-secret")

	setRec := httptest.NewRecorder()
	other.SetVerifiedCookie(setRec)

	req := httptest.NewRequest(http.MethodGet, "/api/store/products", nil)
	req.AddCookie(setRec.Result().Cookies()[0])
	rec := httptest.NewRecorder()

	gate.Middleware(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusForbidden)
	}
}
