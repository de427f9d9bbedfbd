package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func runAuth(t *testing.T, header string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return c, Auth(testSecret)(next)(c)
}

func TestAuthValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"username":    "rajesh.kumar",
		"role":        "worker",
		"identity_id": "w001",
		"exp":         time.Now().Add(time.Hour).Unix(),
	})

	c, err := runAuth(t, "Bearer "+token)
	if err != nil {
		t.Fatalf("expected pass-through, got %v", err)
	}
	if c.Get("username") != "rajesh.kumar" || c.Get("role") != "worker" || c.Get("identity_id") != "w001" {
		t.Fatalf("claims not injected: %v %v %v", c.Get("username"), c.Get("role"), c.Get("identity_id"))
	}
}

func TestAuthRejections(t *testing.T) {
	expired := signToken(t, testSecret, jwt.MapClaims{
		"username": "rajesh.kumar",
		"exp":      time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, "other-secret", jwt.MapClaims{
		"username": "rajesh.kumar",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	cases := []struct {
		name, header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
	}
	for _, tc := range cases {
		_, err := runAuth(t, tc.header)
		he, ok := err.(*echo.HTTPError)
		if !ok {
			t.Fatalf("%s: expected *echo.HTTPError, got %v", tc.name, err)
		}
		if he.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", tc.name, he.Code)
		}
	}
}
