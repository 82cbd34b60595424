package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOriginCheck(t *testing.T) {
	allowed := []string{"https://hempmart.example"}

	tests := []struct {
		name       string
		production bool
		origin     string
		wantStatus int
	}{
		{
			name:       "allowed origin in production",
			production: true,
			origin:     "https://hempmart.example",
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown origin in production",
			production: true,
			origin:     "https://evil.example",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing origin in production",
			production: true,
			origin:     "",
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown origin in development",
			production: false,
			origin:     "https://evil.example",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/signup", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()

			OriginCheck(allowed, tt.production)(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)

			if rec.Result().StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Result().StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestOriginCheck_EmptyAllowListBypasses(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/signup", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rec := httptest.NewRecorder()

	OriginCheck(nil, true)(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusOK)
	}
}
