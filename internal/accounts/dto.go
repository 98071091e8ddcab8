package accounts

import (
	"github.com/vidyavipul/Mini-User-Management-System/internal/auth"
	"github.com/vidyavipul/Mini-User-Management-System/internal/users"
)

type signupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type identityResponse struct {
	User auth.Identity `json:"user"`
}

type userResponse struct {
	User users.PublicUser `json:"user"`
}

type userMessageResponse struct {
	Message string           `json:"message"`
	User    users.PublicUser `json:"user"`
}
