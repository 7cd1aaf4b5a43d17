package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ListableAPI/internal/auth"
	"ListableAPI/internal/handler"
	"ListableAPI/internal/logger"
	"ListableAPI/internal/router"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		var validator *auth.JWTValidator
		if cfg.Auth.Enabled {
			if validator, err = auth.NewJWTValidator(cfg.Auth.JWT); err != nil {
				logger.Error("auth_init_failed", map[string]any{"error": err.Error()})
				return err
			}
		}

		h := handler.New(reg, store, cfg.List.Parallel)
		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router.InitRoutes(cfg, h, validator),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errc := make(chan error, 1)
		go func() {
			logger.Info("server_start", map[string]any{"port": cfg.Port, "auth": cfg.Auth.Enabled})
			errc <- srv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server_error", map[string]any{"error": err.Error()})
				return err
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("server_stop", nil)
		return srv.Shutdown(shutdownCtx)
	},
}
