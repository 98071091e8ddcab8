package accounts

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/vidyavipul/Mini-User-Management-System/internal/auth"
	"github.com/vidyavipul/Mini-User-Management-System/internal/users"
)

func TestQueryInt(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 10},
		{"limit=25", 25},
		{"limit=abc", 10},
		{"limit=0", 10},
		{"limit=-3", 1},
		{"limit=1000000000000000000", 1000000000000000000},
		{"limit=99999999999999999999", 10},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/users?"+tt.query, nil)
		assert.Equal(t, tt.want, queryInt(req, "limit", 10), tt.query)
	}
}

func newTestRouter() http.Handler {
	repo := users.NewMemoryRepository()
	tokens := auth.NewTokenService("test-secret")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(repo, auth.BcryptHasher{Cost: bcrypt.MinCost}, tokens, logger)
	h := NewHandler(logger, svc, auth.Guard{Tokens: tokens, Identities: auth.NewResolver(repo)})

	r := chi.NewRouter()
	r.Route("/auth", h.MountAuthRoutes)
	return r
}

func TestSignupRejectsMalformedJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(`{"email":`))
	newTestRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid JSON body")
}

func TestLoginEmptyBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	newTestRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), msgLoginRequired)
}

func TestMeWithoutGuardContext(t *testing.T) {
	rec := httptest.NewRecorder()
	(&Handler{logger: slog.Default()}).me(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
