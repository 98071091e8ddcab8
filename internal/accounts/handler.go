package accounts

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vidyavipul/Mini-User-Management-System/internal/auth"
	"github.com/vidyavipul/Mini-User-Management-System/internal/platform/httpx"
	"github.com/vidyavipul/Mini-User-Management-System/internal/shared"
)

// Handler exposes account endpoints over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   auth.Guard
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service *Service, guard auth.Guard) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, guard: guard}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if httpx.StatusFor(err) >= http.StatusInternalServerError {
		h.logger.Error(op, slog.Any("error", err), slog.String("path", r.URL.Path))
	}
	httpx.RespondError(w, err)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, op string, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		h.fail(w, r, op, err)
		return false
	}
	return true
}

func currentIdentity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.NewError(shared.ErrUnauthorized, "Unauthorized"))
	}
	return identity, ok
}

// queryInt parses a positive integer query value. Missing, malformed and zero
// values yield def; negative values clamp to 1.
func queryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n == 0 {
		return def
	}
	if n < 1 {
		return 1
	}
	return n
}
