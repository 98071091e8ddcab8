// Package accounts implements signup, login and profile self service on top
// of the user store, plus the admin user console.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vidyavipul/Mini-User-Management-System/internal/auth"
	"github.com/vidyavipul/Mini-User-Management-System/internal/shared"
	"github.com/vidyavipul/Mini-User-Management-System/internal/users"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID, role string) (string, error)
}

// SignupInput carries the signup request fields.
type SignupInput struct {
	FullName string
	Email    string
	Password string
}

// LoginInput carries the login request fields.
type LoginInput struct {
	Email    string
	Password string
}

// ProfilePatch lists the profile fields a caller supplied. Nil means untouched.
type ProfilePatch struct {
	FullName *string
	Email    *string
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	Token string           `json:"token"`
	User  users.PublicUser `json:"user"`
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Data []users.PublicUser `json:"data"`
	shared.Pagination
}

// Service wraps account business rules.
type Service struct {
	users    users.Repository
	hasher   auth.Hasher
	tokens   TokenIssuer
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a new Service.
func NewService(repo users.Repository, hasher auth.Hasher, tokens TokenIssuer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:    repo,
		hasher:   hasher,
		tokens:   tokens,
		validate: newValidator(),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Signup registers a new user with role user and status active.
func (s *Service) Signup(ctx context.Context, in SignupInput) (AuthResult, error) {
	if in.FullName == "" || in.Email == "" || in.Password == "" {
		return AuthResult{}, shared.NewError(shared.ErrValidation, msgSignupRequired)
	}
	form := signupForm{FullName: in.FullName, Email: in.Email, Password: in.Password}
	if err := check(s.validate, form); err != nil {
		return AuthResult{}, err
	}

	email := users.NormalizeEmail(in.Email)
	taken, err := s.users.EmailExists(ctx, email, uuid.Nil)
	if err != nil {
		return AuthResult{}, err
	}
	if taken {
		return AuthResult{}, shared.NewError(shared.ErrEmailTaken, "Email already registered")
	}

	digest, err := s.hash(in.Password, "password")
	if err != nil {
		return AuthResult{}, err
	}

	user := &users.User{
		ID:           uuid.New(),
		FullName:     strings.TrimSpace(in.FullName),
		Email:        email,
		PasswordHash: digest,
		Role:         users.RoleUser,
		Status:       users.StatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, users.ErrDuplicateEmail) {
			return AuthResult{}, shared.NewError(shared.ErrEmailTaken, "Email already registered")
		}
		return AuthResult{}, err
	}
	s.logger.Info("user signed up", slog.String("user_id", user.ID.String()))
	return s.issue(user)
}

// Login checks credentials and records the login time.
func (s *Service) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	if in.Email == "" || in.Password == "" {
		return AuthResult{}, shared.NewError(shared.ErrValidation, msgLoginRequired)
	}
	if err := check(s.validate, loginForm{Email: in.Email}); err != nil {
		return AuthResult{}, err
	}

	user, err := s.users.FindByEmail(ctx, users.NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return AuthResult{}, shared.NewError(shared.ErrInvalidCredentials, "Invalid credentials")
		}
		return AuthResult{}, err
	}
	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return AuthResult{}, shared.NewError(shared.ErrInvalidCredentials, "Invalid credentials")
	}

	at := s.now()
	if err := s.users.RecordLogin(ctx, user.ID, at); err != nil {
		return AuthResult{}, err
	}
	user.LastLogin = &at
	return s.issue(user)
}

// Profile returns the caller's current record.
func (s *Service) Profile(ctx context.Context, identity auth.Identity) (users.PublicUser, error) {
	user, err := s.users.FindByID(ctx, identity.ID)
	if err != nil {
		return users.PublicUser{}, mapNotFound(err)
	}
	return user.Public(), nil
}

// ChangePassword replaces the caller's password after checking the current one.
// A wrong current password never touches the stored hash.
func (s *Service) ChangePassword(ctx context.Context, identity auth.Identity, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return shared.NewError(shared.ErrValidation, msgPasswordRequired)
	}
	user, err := s.users.FindByID(ctx, identity.ID)
	if err != nil {
		return mapNotFound(err)
	}
	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return shared.NewError(shared.ErrIncorrectPassword, "Current password is incorrect")
	}
	if err := check(s.validate, passwordForm{NewPassword: newPassword}); err != nil {
		return err
	}
	digest, err := s.hash(newPassword, "newPassword")
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, digest); err != nil {
		return mapNotFound(err)
	}
	s.logger.Info("password changed", slog.String("user_id", user.ID.String()))
	return nil
}

// UpdateProfile applies the supplied fields of patch to the caller's record.
// Empty strings count as not supplied.
func (s *Service) UpdateProfile(ctx context.Context, identity auth.Identity, patch ProfilePatch) (users.PublicUser, error) {
	patch.FullName, patch.Email = supplied(patch.FullName), supplied(patch.Email)
	if err := check(s.validate, profileForm{FullName: patch.FullName, Email: patch.Email}); err != nil {
		return users.PublicUser{}, err
	}

	var update users.ProfileUpdate
	if patch.FullName != nil {
		name := strings.TrimSpace(*patch.FullName)
		update.FullName = &name
	}
	if patch.Email != nil {
		email := users.NormalizeEmail(*patch.Email)
		taken, err := s.users.EmailExists(ctx, email, identity.ID)
		if err != nil {
			return users.PublicUser{}, err
		}
		if taken {
			return users.PublicUser{}, shared.NewError(shared.ErrEmailTaken, "Email already in use")
		}
		update.Email = &email
	}

	user, err := s.users.UpdateProfile(ctx, identity.ID, update)
	if err != nil {
		if errors.Is(err, users.ErrDuplicateEmail) {
			return users.PublicUser{}, shared.NewError(shared.ErrEmailTaken, "Email already in use")
		}
		return users.PublicUser{}, mapNotFound(err)
	}
	return user.Public(), nil
}

// ListUsers returns one page of users, newest first. The page and the total
// count are fetched concurrently.
func (s *Service) ListUsers(ctx context.Context, page, limit int) (UserPage, error) {
	meta := shared.NewPagination(page, limit, 0)

	var (
		list  []users.User
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = s.users.List(gctx, users.ListFilter{Offset: meta.Offset(), Limit: meta.Limit})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.users.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return UserPage{}, fmt.Errorf("accounts: list users: %w", err)
	}

	data := make([]users.PublicUser, 0, len(list))
	for _, u := range list {
		data = append(data, u.Public())
	}
	return UserPage{Data: data, Pagination: shared.NewPagination(meta.Page, meta.Limit, total)}, nil
}

// SetStatus activates or deactivates the user with id.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status users.Status) (users.PublicUser, error) {
	if !status.Valid() {
		return users.PublicUser{}, shared.FieldError("status", "Invalid status")
	}
	user, err := s.users.SetStatus(ctx, id, status)
	if err != nil {
		return users.PublicUser{}, mapNotFound(err)
	}
	s.logger.Info("user status changed", slog.String("user_id", id.String()), slog.String("status", string(status)))
	return user.Public(), nil
}

// PromoteAdmin grants the admin role to the account owning email and marks it active.
func (s *Service) PromoteAdmin(ctx context.Context, email string) (users.PublicUser, error) {
	email = users.NormalizeEmail(email)
	if email == "" {
		return users.PublicUser{}, shared.FieldError("email", "Email is required")
	}
	user, err := s.users.Promote(ctx, email)
	if err != nil {
		return users.PublicUser{}, mapNotFound(err)
	}
	s.logger.Info("user promoted to admin", slog.String("user_id", user.ID.String()))
	return user.Public(), nil
}

func (s *Service) issue(user *users.User) (AuthResult, error) {
	token, err := s.tokens.Issue(user.ID.String(), string(user.Role))
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, User: user.Public()}, nil
}

func (s *Service) hash(plaintext, field string) (string, error) {
	digest, err := s.hasher.Hash(plaintext)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return "", shared.FieldError(field, msgPasswordTooLong)
		}
		return "", err
	}
	return digest, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, users.ErrNotFound) {
		return shared.NewError(shared.ErrNotFound, "User not found")
	}
	return err
}

func supplied(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
