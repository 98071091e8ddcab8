package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vidyavipul/Mini-User-Management-System/internal/client"
)

// PasswordReader obtains a password without echoing it.
type PasswordReader func(prompt string) (string, error)

// SessionOptions configures the client side commands.
type SessionOptions struct {
	Email    string
	Password string
	Prompt   PasswordReader
	Stdout   io.Writer
	Stderr   io.Writer
}

func (o *SessionOptions) defaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// LoginCommand signs in and stores the token in the client's session.
func LoginCommand(ctx context.Context, c *client.Client, opts SessionOptions) int {
	opts.defaults()
	email := strings.TrimSpace(opts.Email)
	if email == "" {
		_, _ = fmt.Fprintln(opts.Stderr, "Usage: usermgmt login --email=user@example.com")
		return 1
	}
	password := opts.Password
	if password == "" && opts.Prompt != nil {
		var err error
		if password, err = opts.Prompt("Password: "); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "login: read password: %v\n", err)
			return 1
		}
	}
	user, err := c.Login(ctx, email, password)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "login: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(opts.Stdout, "Logged in as %s (%s)\n", user.Email, user.Role)
	return 0
}

// WhoAmICommand prints the identity behind the stored token as JSON.
func WhoAmICommand(ctx context.Context, c *client.Client, opts SessionOptions) int {
	opts.defaults()
	if !c.Session().Authenticated() {
		_, _ = fmt.Fprintln(opts.Stderr, "Not logged in")
		return 1
	}
	user, err := c.Me(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "whoami: %v\n", err)
		return 1
	}
	enc := json.NewEncoder(opts.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(user); err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "whoami: encode json: %v\n", err)
		return 1
	}
	return 0
}

// LogoutCommand discards the stored token.
func LogoutCommand(ctx context.Context, c *client.Client, opts SessionOptions) int {
	opts.defaults()
	if err := c.Logout(ctx); err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "logout: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(opts.Stdout, "Logged out")
	return 0
}
