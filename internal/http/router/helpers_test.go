package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/catalog-api/internal/auth"
	"github.com/rogerio-castellano/catalog-api/internal/config"
	"github.com/rogerio-castellano/catalog-api/internal/db"
	"github.com/rogerio-castellano/catalog-api/internal/http/handlers"
	rl "github.com/rogerio-castellano/catalog-api/internal/http/rate_limiter"
	"github.com/rogerio-castellano/catalog-api/internal/http/router"
	"github.com/rogerio-castellano/catalog-api/internal/logger"
	"github.com/rogerio-castellano/catalog-api/internal/repo"
)

const (
	testSecret   = "test-secret"
	testUser     = "admin"
	testPassword = "admin123"
)

type testApp struct {
	handler  http.Handler
	products repo.ProductRepository
	tokens   *auth.TokenManager
	token    string
}

func newTestApp(t *testing.T, visitors *rl.Visitors) *testApp {
	t.Helper()
	cfg := &config.Config{Env: config.EnvDevelopment, Seed: config.Seed{Username: testUser}}
	return newTestAppWith(t, cfg, nil, visitors)
}

// newTestAppWith builds the router over an in-memory SQLite database. A nil
// products repository means the SQLite one.
func newTestAppWith(t *testing.T, cfg *config.Config, products repo.ProductRepository, visitors *rl.Visitors) *testApp {
	t.Helper()
	ctx := context.Background()

	database, err := db.Open(ctx, db.DriverSQLite, "")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if products == nil {
		products = repo.NewSQLProductRepository(database)
	}
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	authService := auth.NewService(repo.NewSQLUserRepository(database), tokens)
	if _, err := authService.SeedUser(ctx, testUser, testPassword); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	srv := handlers.NewServer(products, authService, logger.Nop(), cfg)
	h := router.NewRouter(srv, router.Options{
		Logger:      logger.Nop(),
		Verifier:    authService,
		Visitors:    visitors,
		Development: cfg.IsDevelopment(),
	})

	app := &testApp{handler: h, products: products, tokens: tokens}
	app.token = app.login(t, testUser, testPassword)
	return app
}

func (a *testApp) do(method, target string, body io.Reader, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func (a *testApp) authed(method, target string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		r = bytes.NewReader(raw)
	}
	h := http.Header{}
	h.Set("Authorization", "Bearer "+a.token)
	h.Set("Content-Type", "application/json")
	return a.do(method, target, r, h)
}

func (a *testApp) login(t *testing.T, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(handlers.CredentialsRequest{Username: username, Password: password})
	w := a.do(http.MethodPost, "/auth/login", bytes.NewReader(body), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}

	var resp handlers.LoginResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("token decoding failed: %v", err)
	}
	return resp.Token
}

func (a *testApp) createProduct(t *testing.T, body any) handlers.ProductResponse {
	t.Helper()
	w := a.authed(http.MethodPost, "/products", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("product creation failed: %d %s", w.Code, w.Body.String())
	}
	return decode[handlers.ProductResponse](t, w)
}

func (a *testApp) count(t *testing.T) int {
	t.Helper()
	n, err := a.products.Count(context.Background())
	if err != nil {
		t.Fatalf("failed to count products: %v", err)
	}
	return n
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}

func productPath(id int64) string {
	return fmt.Sprintf("/products/%d", id)
}
