package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vidyavipul/Mini-User-Management-System/internal/platform/httpx"
	"github.com/vidyavipul/Mini-User-Management-System/internal/shared"
	"github.com/vidyavipul/Mini-User-Management-System/internal/users"
)

// Verifier checks a raw bearer token.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// IdentityResolver turns verified claims into the current caller.
type IdentityResolver interface {
	Resolve(ctx context.Context, claims *Claims) (Identity, error)
}

// FailureRecorder counts rejected requests by reason.
type FailureRecorder interface {
	AuthFailure(reason string)
}

// Failure reasons reported to FailureRecorder.
const (
	ReasonMissingToken  = "missing_token"
	ReasonInvalidToken  = "invalid_token"
	ReasonUnknownUser   = "unknown_user"
	ReasonForbidden     = "forbidden"
	ReasonResolverError = "resolver_error"
)

// Guard wires authentication and role checks for HTTP handlers.
type Guard struct {
	Tokens     Verifier
	Identities IdentityResolver
	Logger     *slog.Logger
	Failures   FailureRecorder
}

// Authenticate requires a valid bearer token naming an existing user and
// stores the resolved Identity in the request context.
func (g Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			g.reject(w, ReasonMissingToken, shared.NewError(shared.ErrUnauthorized, "Authorization header missing or invalid"))
			return
		}
		claims, err := g.Tokens.Verify(token)
		if err != nil {
			if errors.Is(err, shared.ErrConfiguration) {
				g.logError("auth verify token", err)
				httpx.RespondError(w, err)
				return
			}
			g.reject(w, ReasonInvalidToken, shared.NewError(shared.ErrUnauthorized, "Unauthorized").WithDetails(err.Error()))
			return
		}
		identity, err := g.Identities.Resolve(r.Context(), claims)
		if err != nil {
			if errors.Is(err, ErrUnknownSubject) {
				g.reject(w, ReasonUnknownUser, shared.NewError(shared.ErrUnauthorized, "User not found"))
				return
			}
			g.logError("auth resolve identity", err)
			g.record(ReasonResolverError)
			httpx.RespondError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
	})
}

// RequireRole admits only callers whose current role equals role.
func (g Guard) RequireRole(role users.Role) func(http.Handler) http.Handler {
	return g.RequireAny(role)
}

// RequireAny admits callers holding at least one of roles.
func (g Guard) RequireAny(roles ...users.Role) func(http.Handler) http.Handler {
	allowed := make(map[users.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				g.reject(w, ReasonMissingToken, shared.NewError(shared.ErrUnauthorized, "Unauthorized"))
				return
			}
			if _, ok := allowed[identity.Role]; !ok {
				g.reject(w, ReasonForbidden, shared.NewError(shared.ErrForbidden, "Forbidden: insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (g Guard) reject(w http.ResponseWriter, reason string, err error) {
	g.record(reason)
	httpx.RespondError(w, err)
}

func (g Guard) record(reason string) {
	if g.Failures != nil {
		g.Failures.AuthFailure(reason)
	}
}

func (g Guard) logError(msg string, err error) {
	if g.Logger != nil {
		g.Logger.Error(msg, slog.Any("error", err))
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
