package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/suggestbot/go-suggest-backend/internal/archive"
	"github.com/suggestbot/go-suggest-backend/internal/config"
	"github.com/suggestbot/go-suggest-backend/internal/engine"
)

type nopSender struct{}

func (nopSender) SendText(context.Context, int64, string) error  { return nil }
func (nopSender) SendImage(context.Context, int64, string) error { return nil }

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := archive.NewLog(filepath.Join(t.TempDir(), "suggestions.log"))
	eng := engine.New(1000, 0, engine.ModeRelay, nopSender{}, log, nil, nil, zerolog.Nop())

	cfg := config.Config{
		BotToken:    "123:abc",
		AdminID:     1000,
		APIBasePath: "/api/v1",
		RateRPS:     100,
		RateBurst:   100,
	}
	cfg.OTEL.ServiceName = "go-suggest-backend-test"

	r := gin.New()
	RegisterRoutes(r, eng, cfg)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRouter_Health(t *testing.T) {
	r := newRouter(t)

	w := get(r, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	r := newRouter(t)

	w := get(r, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRouter_NoRouteEnvelope(t *testing.T) {
	r := newRouter(t)

	w := get(r, "/nope")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not_found") {
		t.Fatalf("expected error envelope, got %s", w.Body.String())
	}
}

func TestRouter_NoMethodEnvelope(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/health", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "method_not_allowed") {
		t.Fatalf("expected error envelope, got %s", w.Body.String())
	}
}

func TestRouter_WebhookMounted(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bot/webhook/wrong", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", w.Code)
	}
}

func TestRouter_StatsMountedUnderBasePath(t *testing.T) {
	r := newRouter(t)

	w := get(r, "/api/v1/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRouter_DefaultCORSAllowsAll(t *testing.T) {
	r := newRouter(t)

	w := get(r, "/health")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected ACAO *, got %q", got)
	}
}

func TestRouter_RequestIDHeaderSet(t *testing.T) {
	r := newRouter(t)

	w := get(r, "/health")
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header")
	}
}
