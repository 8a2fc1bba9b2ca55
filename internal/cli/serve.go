package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pet-care-manager/internal/adapters/auth/jwtauth"
	"pet-care-manager/internal/adapters/auth/remote"
	"pet-care-manager/internal/adapters/blob"
	"pet-care-manager/internal/config"
	"pet-care-manager/internal/domain/access"
	"pet-care-manager/internal/platform/logger"
	"pet-care-manager/internal/platform/metrics"
	"pet-care-manager/internal/ports/auth"
	"pet-care-manager/internal/router"
)

type ServeOptions struct {
	*RootOptions
	Addr string
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Levanta la API HTTP. Con storage postgres o sqlite aplica el schema
antes de aceptar requests.

Example:
  petcare serve
  petcare serve --config ./petcare.yaml --addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (overrides http.addr / PORT)")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	if opts.Addr != "" {
		cfg.HTTP.Addr = opts.Addr
	}
	log := newLogger(cfg)

	store, db, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	if db != nil {
		defer db.Close()
	}

	blobs, err := blob.Open(ctx, cfg.Blob)
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}

	verifier, err := newVerifier(cfg.Auth)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	rule, err := access.ParseDeletionRule(cfg.HealthRecords.DeletionRule)
	if err != nil {
		return err
	}

	h := router.NewRouter(router.Options{
		AuthVerifier:   verifier,
		Store:          store,
		DB:             db,
		Blobs:          blobs,
		MaxUploadBytes: cfg.Blob.MaxUploadBytes,
		DeletionRule:   rule,
		Logger:         log,
		Metrics:        metrics.New(),
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      h,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("starting server", logger.Fields{
			"addr":    cfg.HTTP.Addr,
			"storage": cfg.Storage.Driver,
			"auth":    cfg.Auth.Mode,
		})
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down", logger.Fields{"timeout": cfg.HTTP.ShutdownTimeout.String()})
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newVerifier devuelve nil en modo dev (headers X-Debug-*).
func newVerifier(cfg config.Auth) (auth.AuthVerifier, error) {
	switch cfg.Mode {
	case config.AuthDev, "":
		return nil, nil
	case config.AuthJWT:
		v, err := jwtauth.NewVerifier(cfg.JWT.Secret, cfg.JWT.Issuer)
		if err != nil {
			return nil, err
		}
		return v, nil
	case config.AuthRemote:
		client, err := remote.NewClient(remote.Config{
			BaseURL: cfg.Remote.BaseURL,
			APIKey:  cfg.Remote.APIKey,
			Timeout: cfg.Remote.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return remote.NewVerifier(client), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}
