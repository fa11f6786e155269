package router_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rogerio-castellano/catalog-api/internal/config"
	"github.com/rogerio-castellano/catalog-api/internal/http/handlers"
	rl "github.com/rogerio-castellano/catalog-api/internal/http/rate_limiter"
	"github.com/rogerio-castellano/catalog-api/internal/http/respond"
	"github.com/rogerio-castellano/catalog-api/internal/models"
	"github.com/rogerio-castellano/catalog-api/internal/repo"
)

// brokenStore fails listing with a driver error and panics on lookups.
type brokenStore struct{ repo.ProductRepository }

func (brokenStore) ListAll(context.Context) ([]models.Product, error) {
	return nil, errors.New("database is locked")
}

func (brokenStore) GetByID(context.Context, int64) (models.Product, error) {
	panic("driver exploded")
}

func TestDefaultConfigHidesErrorDetail(t *testing.T) {
	t.Setenv("APP_ENV", "")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load default config: %v", err)
	}
	if cfg.IsDevelopment() {
		t.Fatal("default config must not be development")
	}

	app := newTestAppWith(t, cfg, brokenStore{}, nil)

	w := app.authed(http.MethodGet, "/products", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "database is locked") {
		t.Errorf("store error leaked to client: %s", w.Body.String())
	}
	if resp := decode[respond.ErrorResponse](t, w); resp.Error != "could not list products" || resp.Message != "" {
		t.Errorf("unexpected body %+v", resp)
	}

	w = app.authed(http.MethodGet, "/products/1", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", w.Code)
	}
	if resp := decode[respond.ErrorResponse](t, w); resp.Message != "something went wrong" {
		t.Errorf("expected generic panic message, got %q", resp.Message)
	}

	w = app.do(http.MethodGet, "/", nil, nil)
	if resp := decode[handlers.InfoResponse](t, w); resp.Example != nil {
		t.Errorf("seed username exposed outside development: %v", resp.Example)
	}
}

func TestIndex(t *testing.T) {
	app := newTestApp(t, nil)
	app.createProduct(t, map[string]any{"name": "Widget", "price": 1})

	w := app.do(http.MethodGet, "/", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	resp := decode[handlers.InfoResponse](t, w)
	if resp.Version == "" || resp.Endpoints["auth"] == nil || resp.Endpoints["products"] == nil {
		t.Errorf("incomplete info response %+v", resp)
	}
	if resp.ProductCount != nil {
		t.Errorf("product_count must not be shown without a token, got %d", *resp.ProductCount)
	}
	if resp.Example["username"] != testUser {
		t.Errorf("expected example username in development, got %v", resp.Example)
	}

	w = app.do(http.MethodGet, "/", nil, http.Header{"Authorization": {"Bearer " + app.token}})
	resp = decode[handlers.InfoResponse](t, w)
	if resp.ProductCount == nil || *resp.ProductCount != 1 {
		t.Errorf("expected product_count 1 with a token, got %v", resp.ProductCount)
	}
}

func TestNotFound(t *testing.T) {
	app := newTestApp(t, nil)

	tests := []struct {
		method string
		target string
		auth   bool
	}{
		{http.MethodGet, "/nope?x=1", false},
		{http.MethodPost, "/", false},
		{http.MethodGet, "/auth/login", false},
		{http.MethodPatch, "/products/1", true},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			header := http.Header{}
			if tt.auth {
				header.Set("Authorization", "Bearer "+app.token)
			}
			w := app.do(tt.method, tt.target, nil, header)
			if w.Code != http.StatusNotFound {
				t.Fatalf("expected 404, got %d", w.Code)
			}

			resp := decode[handlers.NotFoundResponse](t, w)
			if resp.Error == "" || resp.Method != tt.method || resp.URL != tt.target {
				t.Errorf("unexpected body %+v", resp)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp(t, nil)

	w := app.do(http.MethodOptions, "/products", nil, http.Header{
		"Origin":                        {"http://localhost:5173"},
		"Access-Control-Request-Method": {"POST"},
	})
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("missing CORS origin header")
	}
}

func TestSwaggerDoc(t *testing.T) {
	app := newTestApp(t, nil)

	w := app.do(http.MethodGet, "/swagger/doc.json", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	visitors := rl.NewVisitors(0.001, 3)
	app := newTestApp(t, visitors) // login consumes one token

	codes := []int{}
	for range 3 {
		codes = append(codes, app.do(http.MethodGet, "/", nil, nil).Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("unexpected status sequence %v", codes)
	}
}

func TestRateLimit_IgnoresForwardedHeaders(t *testing.T) {
	visitors := rl.NewVisitors(0.001, 2)
	app := newTestApp(t, visitors) // login consumes one token

	first := app.do(http.MethodGet, "/", nil, http.Header{"X-Forwarded-For": {"203.0.113.1"}})
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", first.Code)
	}

	spoofed := app.do(http.MethodGet, "/", nil, http.Header{
		"X-Forwarded-For": {"203.0.113.2"},
		"X-Real-Ip":       {"203.0.113.3"},
	})
	if spoofed.Code != http.StatusTooManyRequests {
		t.Errorf("forwarding headers must not open a new bucket, got %d", spoofed.Code)
	}
}
