// Package cli implements the usermgmt subcommands other than serve.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vidyavipul/Mini-User-Management-System/internal/shared"
	"github.com/vidyavipul/Mini-User-Management-System/internal/users"
)

// Promoter grants the admin role to an account by email.
type Promoter interface {
	PromoteAdmin(ctx context.Context, email string) (users.PublicUser, error)
}

// MakeAdminOptions defines the flags of the make-admin command.
type MakeAdminOptions struct {
	Email  string
	Stdout io.Writer
	Stderr io.Writer
}

// MakeAdminCommand promotes the account owning opts.Email to admin and
// reactivates it. It returns the process exit code.
func MakeAdminCommand(ctx context.Context, promoter Promoter, opts MakeAdminOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	email := strings.TrimSpace(opts.Email)
	if email == "" {
		_, _ = fmt.Fprintln(opts.Stderr, "Usage: usermgmt make-admin --email=user@example.com")
		return 1
	}
	user, err := promoter.PromoteAdmin(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			_, _ = fmt.Fprintf(opts.Stderr, "User not found for email: %s\n", email)
			return 1
		}
		_, _ = fmt.Fprintf(opts.Stderr, "make-admin: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(opts.Stdout, "Promoted user to admin: %s\n", user.Email)
	return 0
}
