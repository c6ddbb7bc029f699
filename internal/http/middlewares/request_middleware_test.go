package middlewares_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nantkhun/fintracker/internal/auth"
	"github.com/nantkhun/fintracker/internal/http/middlewares"
)

func loggedRouter(buf *bytes.Buffer, setIdentity bool) *gin.Engine {
	log := slog.New(slog.NewJSONHandler(buf, nil))

	r := gin.New()
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.GET("/resource", func(c *gin.Context) {
		if setIdentity {
			middlewares.SetUserContext(c, &auth.Claims{UserID: 42})
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRequestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	r := loggedRouter(&buf, true)

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}

	if line["route"] != "/resource" || line["method"] != http.MethodGet {
		t.Fatalf("got route=%v method=%v", line["route"], line["method"])
	}
	if line["request_id"] != "req-123" {
		t.Fatalf("got request_id %v, want req-123", line["request_id"])
	}
	if line["user_id"] != float64(42) {
		t.Fatalf("got user_id %v, want 42", line["user_id"])
	}
}

func TestRequestLoggerWithoutIdentity(t *testing.T) {
	var buf bytes.Buffer
	r := loggedRouter(&buf, false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/resource", nil))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}

	if _, present := line["user_id"]; present {
		t.Fatalf("user_id logged for an anonymous request: %v", line["user_id"])
	}
}
