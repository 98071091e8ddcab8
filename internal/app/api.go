package app

import (
	"log/slog"
	"net/http"

	"github.com/vidyavipul/Mini-User-Management-System/internal/accounts"
	"github.com/vidyavipul/Mini-User-Management-System/internal/auth"
	"github.com/vidyavipul/Mini-User-Management-System/internal/observability"
	"github.com/vidyavipul/Mini-User-Management-System/internal/users"
)

// APIDeps lists what NewAPI needs to assemble the HTTP surface.
type APIDeps struct {
	Logger  *slog.Logger
	Config  *Config
	Users   users.Repository
	Hasher  auth.Hasher
	Metrics *observability.Metrics
}

// NewAPI wires the token service, identity resolver, access guard and
// account service into a router.
func NewAPI(deps APIDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var secret string
	if deps.Config != nil {
		secret = deps.Config.JWTSecret
	}
	hasher := deps.Hasher
	if hasher == nil {
		hasher = auth.NewBcryptHasher()
	}

	tokens := auth.NewTokenService(secret)
	guard := auth.Guard{
		Tokens:     tokens,
		Identities: auth.NewResolver(deps.Users),
		Logger:     logger,
	}
	if deps.Metrics != nil {
		guard.Failures = deps.Metrics
	}

	service := accounts.NewService(deps.Users, hasher, tokens, logger)
	handler := accounts.NewHandler(logger, service, guard)

	return NewRouter(RouterParams{
		Logger:          logger,
		Config:          deps.Config,
		AccountsHandler: handler,
		Metrics:         deps.Metrics,
		RequestLog:      !InTestMode(),
	})
}
