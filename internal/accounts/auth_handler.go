package accounts

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidyavipul/Mini-User-Management-System/internal/platform/httpx"
)

// MountAuthRoutes registers signup, login, me and logout.
func (h *Handler) MountAuthRoutes(r chi.Router) {
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.With(h.guard.Authenticate).Get("/me", h.me)
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !h.decode(w, r, "signup", &req) {
		return
	}
	result, err := h.service.Signup(r.Context(), SignupInput{FullName: req.FullName, Email: req.Email, Password: req.Password})
	if err != nil {
		h.fail(w, r, "signup", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, "login", &req) {
		return
	}
	result, err := h.service.Login(r.Context(), LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, identityResponse{User: identity})
}

// logout is stateless; the client discards its token.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	httpx.Message(w, http.StatusOK, "Logged out")
}
