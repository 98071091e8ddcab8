package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/vidyavipul/Mini-User-Management-System/cmd/usermgmt/cli"
	"github.com/vidyavipul/Mini-User-Management-System/internal/accounts"
	"github.com/vidyavipul/Mini-User-Management-System/internal/app"
	"github.com/vidyavipul/Mini-User-Management-System/internal/auth"
	"github.com/vidyavipul/Mini-User-Management-System/internal/client"
	"github.com/vidyavipul/Mini-User-Management-System/internal/observability"
	"github.com/vidyavipul/Mini-User-Management-System/internal/platform/db"
)

const usage = `usage: usermgmt <command> [flags]

commands:
  serve                      run the HTTP API (default)
  migrate                    apply database migrations
  make-admin --email=<addr>  promote a user to admin
  login --email=<addr>       sign in against a running API
  whoami                     show the signed in user
  logout                     discard the stored token`

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	var code int
	switch cmd {
	case "serve":
		code = serve(ctx)
	case "migrate":
		code = migrate(ctx)
	case "make-admin":
		code = makeAdmin(ctx, args)
	case "login", "whoami", "logout":
		code = session(ctx, cmd, args)
	case "help", "-h", "--help":
		fmt.Println(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", cmd, usage)
		code = 2
	}
	stop()
	os.Exit(code)
}

func bootstrap() (*app.Config, *slog.Logger, bool) {
	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		return nil, nil, false
	}
	return cfg, app.NewLogger(cfg), true
}

func serve(ctx context.Context) int {
	cfg, logger, ok := bootstrap()
	if !ok {
		return 1
	}
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is not set; token issuance and verification will fail")
	}

	repo, closeStore, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("open user store", slog.Any("error", err))
		return 1
	}
	defer closeStore()

	router := app.NewAPI(app.APIDeps{
		Logger:  logger,
		Config:  cfg,
		Users:   repo,
		Hasher:  auth.NewBcryptHasher(),
		Metrics: observability.NewMetrics(),
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("http server", slog.Any("error", err))
			return 1
		}
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
		return 1
	}
	return 0
}

func migrate(ctx context.Context) int {
	cfg, logger, ok := bootstrap()
	if !ok {
		return 1
	}
	if cfg.StoreDriver != app.StoreDriverPostgres {
		logger.Error("migrate requires STORE_DRIVER=postgres")
		return 1
	}
	pool, err := db.Open(ctx, cfg.DatabaseURL, db.PoolOptions{PingTimeout: 5 * time.Second})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		return 1
	}
	defer pool.Close()
	if err := db.MigratePool(ctx, pool); err != nil {
		logger.Error("migrate", slog.Any("error", err))
		return 1
	}
	logger.Info("database migrations applied")
	return 0
}

func makeAdmin(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("make-admin", flag.ContinueOnError)
	email := fs.String("email", "", "email of the account to promote")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, logger, ok := bootstrap()
	if !ok {
		return 1
	}
	repo, closeStore, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("open user store", slog.Any("error", err))
		return 1
	}
	defer closeStore()

	service := accounts.NewService(repo, auth.NewBcryptHasher(), auth.NewTokenService(cfg.JWTSecret), logger)
	return cli.MakeAdminCommand(ctx, service, cli.MakeAdminOptions{Email: *email})
}

func session(ctx context.Context, cmd string, args []string) int {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	apiURL := fs.String("api", envOr("USERMGMT_API_URL", "http://localhost:5000"), "base URL of the API")
	tokenPath := fs.String("token-file", defaultTokenPath(), "where the session token is kept")
	email := fs.String("email", "", "account email (login)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	sess := client.NewSession(client.FileTokenStore{Path: *tokenPath})
	if err := sess.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd, err)
		return 1
	}
	c := client.New(*apiURL, nil, sess)
	opts := cli.SessionOptions{Email: *email, Prompt: readPassword}

	switch cmd {
	case "login":
		return cli.LoginCommand(ctx, c, opts)
	case "whoami":
		return cli.WhoAmICommand(ctx, c, opts)
	default:
		return cli.LogoutCommand(ctx, c, opts)
	}
}

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func defaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "usermgmt", "token")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
