package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestParseToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()

	p, err := ParseToken(signToken(t, testSecret, jwt.MapClaims{
		"userId":      "u-1",
		"permissions": []string{"answers:delete"},
		"exp":         exp,
	}), testSecret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.UserID != "u-1" || !p.Has("answers:delete") || p.Has("answers:create") {
		t.Fatalf("unexpected principal %+v", p)
	}

	p, err = ParseToken(signToken(t, testSecret, jwt.MapClaims{"sub": "u-2", "exp": exp}), testSecret)
	if err != nil || p.UserID != "u-2" {
		t.Fatalf("expected sub claim fallback, got %+v, %v", p, err)
	}

	if _, err := ParseToken(signToken(t, "another-secret", jwt.MapClaims{"userId": "u-1"}), testSecret); err == nil {
		t.Fatal("expected signature error")
	}
	if _, err := ParseToken(signToken(t, testSecret, jwt.MapClaims{"userId": "u-1", "exp": time.Now().Add(-time.Hour).Unix()}), testSecret); err == nil {
		t.Fatal("expected expiry error")
	}
	if _, err := ParseToken(signToken(t, testSecret, jwt.MapClaims{"role": "admin"}), testSecret); err == nil {
		t.Fatal("expected missing user id error")
	}
}

func protected(permission string) http.Handler {
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := FromContext(r.Context())
		w.Write([]byte(p.UserID))
	})
	h := http.Handler(final)
	if permission != "" {
		h = RequirePermission(permission)(h)
	}
	return JWTMiddleware(testSecret)(h)
}

func TestJWTMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Token abc", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc", want: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + signToken(t, testSecret, jwt.MapClaims{"userId": "u-1"}), want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected("").ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			if tt.want == http.StatusOK && rec.Body.String() != "u-1" {
				t.Fatalf("principal not propagated, body %q", rec.Body.String())
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	withPerm := signToken(t, testSecret, jwt.MapClaims{"userId": "admin", "permissions": []string{"answers:delete"}})
	withoutPerm := signToken(t, testSecret, jwt.MapClaims{"userId": "user"})

	for token, want := range map[string]int{withPerm: http.StatusOK, withoutPerm: http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected("answers:delete").ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("expected %d, got %d", want, rec.Code)
		}
	}
}
