package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"paper-trader/config"
)

const testSecret = "test-secret"

func testToken(t *testing.T) string {
	t.Helper()

	prev := config.C
	config.C = &config.Config{Auth: config.Auth{JWTSecret: testSecret}}
	t.Cleanup(func() { config.C = prev })

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": float64(1),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

func TestTradeRoutes_NonPostRedirectsToDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	token := testToken(t)
	router := newRouter()

	methods := []string{
		http.MethodGet,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	routes := []string{
		"/stocks/42/buy",
		"/stocks/42/sell",
		"/stocks/42/trade",
	}

	for _, method := range methods {
		for _, route := range routes {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(method, route, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			router.ServeHTTP(w, req)

			if w.Code != http.StatusSeeOther {
				t.Errorf("%s %s: expected 303, got %d", method, route, w.Code)
			}
			if loc := w.Header().Get("Location"); loc != "/stocks/42" {
				t.Errorf("%s %s: expected redirect to /stocks/42, got %q", method, route, loc)
			}
		}
	}
}
