package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nantkhun/fintracker/internal/auth"
	"github.com/nantkhun/fintracker/internal/http/middlewares"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(verifier middlewares.TokenVerifier) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.NewAuthMiddleware(verifier).RequireAuth())
	r.GET("/whoami", func(c *gin.Context) {
		id, ok := middlewares.UserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no identity"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)
	r := protectedRouter(m)

	token, err := m.Generate(42, "alice@example.com", "Alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	tests := []struct {
		name           string
		header         string
		wantStatusCode int
	}{
		{name: "valid_token", header: "Bearer " + token, wantStatusCode: http.StatusOK},
		{name: "missing_header", header: "", wantStatusCode: http.StatusUnauthorized},
		{name: "wrong_scheme", header: "Basic " + token, wantStatusCode: http.StatusUnauthorized},
		{name: "empty_bearer", header: "Bearer ", wantStatusCode: http.StatusUnauthorized},
		{name: "garbage_token", header: "Bearer not.a.jwt", wantStatusCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.header)
			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestRequireAuthRejectsForeignSecret(t *testing.T) {
	r := protectedRouter(auth.NewManager("secret-a", time.Hour))

	token, err := auth.NewManager("secret-b", time.Hour).Generate(1, "a@example.com", "A")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if w := get(r, "Bearer "+token); w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", w.Code)
	}
}
