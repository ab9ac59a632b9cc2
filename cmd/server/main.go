package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iudanet/roadsync/internal/server/app"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// jwtSecretEnv переменная окружения с секретом подписи токенов
const jwtSecretEnv = "ROADSYNC_JWT_SECRET"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := app.DefaultConfig()
	cfg.Version = Version
	var debug bool

	cmd := &cobra.Command{
		Use:     "roadsync-server",
		Short:   "RoadSync reference server",
		Version: fmt.Sprintf("%s (built %s, commit %s)", Version, BuildDate, GitCommit),
		// Ошибки печатает main
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.JWTSecret == "" {
				cfg.JWTSecret = os.Getenv(jwtSecretEnv)
			}
			if cfg.JWTSecret == "" {
				return errors.New("jwt secret is required: use --jwt-secret or " + jwtSecretEnv)
			}

			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

			srv, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := srv.Close(); err != nil {
					logger.Error("Failed to close server", "error", err)
				}
			}()

			return srv.Run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flags.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to SQLite database")
	flags.StringVar(&cfg.JWTSecret, "jwt-secret", "", "secret for signing access tokens (or "+jwtSecretEnv+")")
	flags.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "access token lifetime")
	flags.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "roads per page")
	flags.IntVar(&cfg.AuthRate, "login-rate", cfg.AuthRate, "register/login requests per IP per window")
	flags.DurationVar(&cfg.AuthRateWindow, "login-window", cfg.AuthRateWindow, "rate limit window for register/login")
	flags.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")
	flags.BoolVar(&debug, "debug", false, "enable debug logging")

	return cmd
}
