package accounts

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vidyavipul/Mini-User-Management-System/internal/platform/httpx"
	"github.com/vidyavipul/Mini-User-Management-System/internal/shared"
	"github.com/vidyavipul/Mini-User-Management-System/internal/users"
)

// MountUserRoutes registers the admin console and profile self service.
func (h *Handler) MountUserRoutes(r chi.Router) {
	r.Use(h.guard.Authenticate)
	r.Get("/me", h.profile)
	r.Patch("/me", h.updateProfile)
	r.Patch("/me/password", h.changePassword)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(users.RoleAdmin))
		r.Get("/", h.listUsers)
		r.Patch("/{id}/activate", h.setStatus(users.StatusActive, "User activated"))
		r.Patch("/{id}/deactivate", h.setStatus(users.StatusInactive, "User deactivated"))
	})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", shared.DefaultPage)
	limit := queryInt(r, "limit", shared.DefaultPageSize)
	result, err := h.service.ListUsers(r.Context(), page, limit)
	if err != nil {
		h.fail(w, r, "list users", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) setStatus(status users.Status, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httpx.RespondError(w, shared.NewError(shared.ErrNotFound, "User not found"))
			return
		}
		user, err := h.service.SetStatus(r.Context(), id, status)
		if err != nil {
			h.fail(w, r, "set user status", err)
			return
		}
		httpx.JSON(w, http.StatusOK, userMessageResponse{Message: message, User: user})
	}
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(w, r)
	if !ok {
		return
	}
	user, err := h.service.Profile(r.Context(), identity)
	if err != nil {
		h.fail(w, r, "profile", err)
		return
	}
	httpx.JSON(w, http.StatusOK, userResponse{User: user})
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(w, r)
	if !ok {
		return
	}
	var req profileRequest
	if !h.decode(w, r, "update profile", &req) {
		return
	}
	user, err := h.service.UpdateProfile(r.Context(), identity, ProfilePatch{FullName: req.FullName, Email: req.Email})
	if err != nil {
		h.fail(w, r, "update profile", err)
		return
	}
	httpx.JSON(w, http.StatusOK, userMessageResponse{Message: "Profile updated", User: user})
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(w, r)
	if !ok {
		return
	}
	var req passwordRequest
	if !h.decode(w, r, "change password", &req) {
		return
	}
	if err := h.service.ChangePassword(r.Context(), identity, req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(w, r, "change password", err)
		return
	}
	httpx.Message(w, http.StatusOK, "Password updated")
}
