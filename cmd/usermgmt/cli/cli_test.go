package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vidyavipul/Mini-User-Management-System/internal/accounts"
	"github.com/vidyavipul/Mini-User-Management-System/internal/app"
	"github.com/vidyavipul/Mini-User-Management-System/internal/auth"
	"github.com/vidyavipul/Mini-User-Management-System/internal/client"
	"github.com/vidyavipul/Mini-User-Management-System/internal/users"
	_ "github.com/vidyavipul/Mini-User-Management-System/testing"
)

func newAccounts(t *testing.T) (*accounts.Service, *users.MemoryRepository) {
	t.Helper()
	repo := users.NewMemoryRepository()
	svc := accounts.NewService(repo, auth.BcryptHasher{Cost: bcrypt.MinCost}, auth.NewTokenService("test-secret"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, repo
}

func TestMakeAdminCommand(t *testing.T) {
	svc, repo := newAccounts(t)
	ctx := context.Background()
	_, err := svc.Signup(ctx, accounts.SignupInput{FullName: "Ann Lee", Email: "ann@x.com", Password: "Password123"})
	require.NoError(t, err)

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	code := MakeAdminCommand(ctx, svc, MakeAdminOptions{Email: "ANN@x.com", Stdout: stdout, Stderr: stderr})
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "Promoted user to admin: ann@x.com\n", stdout.String())

	u, err := repo.FindByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, users.RoleAdmin, u.Role)
}

func TestMakeAdminCommandFailures(t *testing.T) {
	svc, _ := newAccounts(t)

	stderr := new(bytes.Buffer)
	assert.Equal(t, 1, MakeAdminCommand(context.Background(), svc, MakeAdminOptions{Stdout: io.Discard, Stderr: stderr}))
	assert.Contains(t, stderr.String(), "Usage:")

	stderr.Reset()
	assert.Equal(t, 1, MakeAdminCommand(context.Background(), svc, MakeAdminOptions{Email: "ghost@x.com", Stdout: io.Discard, Stderr: stderr}))
	assert.Equal(t, "User not found for email: ghost@x.com\n", stderr.String())
}

type failingPromoter struct{}

func (failingPromoter) PromoteAdmin(ctx context.Context, email string) (users.PublicUser, error) {
	return users.PublicUser{}, errors.New("connection refused")
}

func TestMakeAdminCommandStoreError(t *testing.T) {
	stderr := new(bytes.Buffer)
	code := MakeAdminCommand(context.Background(), failingPromoter{}, MakeAdminOptions{Email: "ann@x.com", Stdout: io.Discard, Stderr: stderr})
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "connection refused")
}

func TestSessionCommands(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(app.NewAPI(app.APIDeps{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: &app.Config{JWTSecret: "test-secret"},
		Users:  users.NewMemoryRepository(),
		Hasher: auth.BcryptHasher{Cost: bcrypt.MinCost},
	}))
	defer srv.Close()

	seed := client.New(srv.URL, srv.Client(), nil)
	_, err := seed.Signup(ctx, "Ann Lee", "ann@x.com", "Password123")
	require.NoError(t, err)

	store := &client.MemoryTokenStore{}
	c := client.New(srv.URL, srv.Client(), client.NewSession(store))
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)

	assert.Equal(t, 1, WhoAmICommand(ctx, c, SessionOptions{Stdout: stdout, Stderr: stderr}))
	assert.Contains(t, stderr.String(), "Not logged in")

	prompted := false
	prompt := func(string) (string, error) {
		prompted = true
		return "Password123", nil
	}
	code := LoginCommand(ctx, c, SessionOptions{Email: "ann@x.com", Prompt: prompt, Stdout: stdout, Stderr: stderr})
	require.Equal(t, 0, code, stderr.String())
	assert.True(t, prompted)
	assert.Contains(t, stdout.String(), "Logged in as ann@x.com (user)")

	stdout.Reset()
	require.Equal(t, 0, WhoAmICommand(ctx, c, SessionOptions{Stdout: stdout, Stderr: stderr}))
	var me client.User
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &me))
	assert.Equal(t, "ann@x.com", me.Email)

	stdout.Reset()
	require.Equal(t, 0, LogoutCommand(ctx, c, SessionOptions{Stdout: stdout, Stderr: stderr}))
	assert.Equal(t, "Logged out\n", stdout.String())
	token, _ := store.Load()
	assert.Empty(t, token)

	stderr.Reset()
	code = LoginCommand(ctx, c, SessionOptions{Email: "ann@x.com", Password: "wrong-password", Stdout: io.Discard, Stderr: stderr})
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Invalid credentials")
}
