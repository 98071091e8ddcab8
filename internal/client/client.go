// Package client is a Go client for the user management API. It keeps the
// caller's session in an explicit Session value.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// User mirrors the public user projection returned by the API.
type User struct {
	ID        string     `json:"id"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// UserPage is one page of the admin listing.
type UserPage struct {
	Data       []User `json:"data"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Total      int    `json:"total"`
	TotalPages int    `json:"totalPages"`
}

// ProfileUpdate carries the profile fields to change. Nil fields are omitted.
type ProfileUpdate struct {
	FullName *string `json:"fullName,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
	Field   string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%d %s (%s)", e.Status, e.Message, e.Field)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

// Client calls the API on behalf of the holder of Session.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// New builds a Client for baseURL. A nil httpClient uses a 15 second timeout.
func New(baseURL string, httpClient *http.Client, session *Session) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if session == nil {
		session = NewSession(nil)
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient, session: session}
}

// Session returns the session the client reads and updates.
func (c *Client) Session() *Session {
	return c.session
}

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type userEnvelope struct {
	User User `json:"user"`
}

// Signup registers an account and starts a session for it.
func (c *Client) Signup(ctx context.Context, fullName, email, password string) (User, error) {
	var out authResponse
	body := map[string]string{"fullName": fullName, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", body, &out); err != nil {
		return User{}, err
	}
	return out.User, c.session.Set(out.Token, out.User)
}

// Login starts a session.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var out authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return User{}, err
	}
	return out.User, c.session.Set(out.Token, out.User)
}

// Me fetches the identity behind the current token and caches it. A 401
// means the token is no longer usable and ends the session.
func (c *Client) Me(ctx context.Context) (User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			_ = c.session.Clear()
		}
		return User{}, err
	}
	c.session.SetUser(out.User)
	return out.User, nil
}

// Logout tells the server and discards the local token. The server keeps no
// session state, so the local discard happens even if the call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if clearErr := c.session.Clear(); clearErr != nil {
		return clearErr
	}
	return err
}

// Profile fetches the caller's own record.
func (c *Client) Profile(ctx context.Context) (User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &out); err != nil {
		return User{}, err
	}
	c.session.SetUser(out.User)
	return out.User, nil
}

// UpdateProfile changes the caller's name and/or email.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodPatch, "/api/users/me", update, &out); err != nil {
		return User{}, err
	}
	c.session.SetUser(out.User)
	return out.User, nil
}

// ChangePassword replaces the caller's password.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{"currentPassword": currentPassword, "newPassword": newPassword}
	return c.do(ctx, http.MethodPatch, "/api/users/me/password", body, nil)
}

// ListUsers fetches one page of the admin listing.
func (c *Client) ListUsers(ctx context.Context, page, limit int) (UserPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	var out UserPage
	err := c.do(ctx, http.MethodGet, "/api/users?"+q.Encode(), nil, &out)
	return out, err
}

// Activate marks a user active.
func (c *Client) Activate(ctx context.Context, userID string) (User, error) {
	return c.setStatus(ctx, userID, "activate")
}

// Deactivate marks a user inactive.
func (c *Client) Deactivate(ctx context.Context, userID string) (User, error) {
	return c.setStatus(ctx, userID, "deactivate")
}

func (c *Client) setStatus(ctx context.Context, userID, action string) (User, error) {
	var out userEnvelope
	path := "/api/users/" + url.PathEscape(userID) + "/" + action
	if err := c.do(ctx, http.MethodPatch, path, nil, &out); err != nil {
		return User{}, err
	}
	return out.User, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode %s: %w", path, err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: build %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Message: "Request failed"}
		var payload struct {
			Message string `json:"message"`
			Field   string `json:"field"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil && payload.Message != "" {
			apiErr.Message = payload.Message
			apiErr.Field = payload.Field
		}
		return apiErr
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s: %w", path, err)
	}
	return nil
}
