package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/garnizeh/carematch/api"
	"github.com/garnizeh/carematch/internal/config"
	"github.com/garnizeh/carematch/internal/ratelimit"
	"github.com/garnizeh/carematch/internal/repository/sqlite/sqlitetest"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:                  "test",
		JWTSecret:            "testsecret",
		JWTAlgorithm:         "hs256",
		TokenDuration:        time.Hour,
		SessionTokenDuration: time.Hour,
		BcryptCost:           bcrypt.MinCost,
		MinPasswordLength:    6,
	}
}

// newRouter wires the full router over a fresh in-memory database.
func newRouter(t *testing.T, limiter *ratelimit.Limiter) (*mux.Router, *prometheus.Registry) {
	t.Helper()
	api.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	d, _ := sqlitetest.Open(t)
	reg := prometheus.NewRegistry()
	r, err := api.SetupRoutes(testConfig(), "v1.2.3", "2026-10-15T00:00:00Z", d, reg, limiter)
	if err != nil {
		t.Fatalf("setup routes: %v", err)
	}
	return r, reg
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

type session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"user_type"`
	UserID      int64  `json:"user_id"`
}

func registration(email string) map[string]any {
	return map[string]any{
		"email":        email,
		"given_name":   "Ana",
		"surname":      "Silva",
		"phone_number": "+351 912 345 678",
		"password":     "s3cret!",
	}
}

// signup registers an account under path and logs it in.
func signup(t *testing.T, h http.Handler, path, email string, extra map[string]any) session {
	t.Helper()
	body := registration(email)
	for k, v := range extra {
		body[k] = v
	}
	if rr := do(t, h, http.MethodPost, path, "", body); rr.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", email, rr.Code, rr.Body.String())
	}

	rr := do(t, h, http.MethodPost, "/v1/auth/login", "", map[string]string{"email": email, "password": "s3cret!"})
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", email, rr.Code, rr.Body.String())
	}
	return decodeBody[session](t, rr)
}
