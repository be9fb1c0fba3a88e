package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func adminRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/admin/team/members", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func adminToken(t *testing.T, secret string, exp time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "ops",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(exp)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAdminJWT(t *testing.T) {
	cases := []struct {
		name   string
		secret string
		token  string
		want   int
	}{
		{"valid token", "s3cret", "", http.StatusOK},
		{"no secret configured", "", "", http.StatusUnauthorized},
		{"missing header", "s3cret", "none", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var token string
			switch tc.token {
			case "":
				if tc.secret != "" {
					token = adminToken(t, tc.secret, time.Minute)
				}
			case "none":
				token = ""
			}
			rec := httptest.NewRecorder()
			AdminJWT(tc.secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})).ServeHTTP(rec, adminRequest(token))
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestAdminJWTRejectsWrongKey(t *testing.T) {
	rec := httptest.NewRecorder()
	AdminJWT("right-key")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})).ServeHTTP(rec, adminRequest(adminToken(t, "wrong-key", time.Minute)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAdminJWTRejectsExpired(t *testing.T) {
	rec := httptest.NewRecorder()
	AdminJWT("s3cret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})).ServeHTTP(rec, adminRequest(adminToken(t, "s3cret", -time.Minute)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAdminClaimsExposedToHandlers(t *testing.T) {
	rec := httptest.NewRecorder()
	AdminJWT("s3cret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := AdminClaimsFromContext(r.Context())
		if !ok || claims.Subject != "ops" {
			t.Fatalf("claims = %+v, ok = %v", claims, ok)
		}
	})).ServeHTTP(rec, adminRequest(adminToken(t, "s3cret", time.Minute)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
