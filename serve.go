package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"chatwire/config"
	"chatwire/gateway"
	"chatwire/model"
	"chatwire/provider"
)

const (
	shutdownTimeout = 10 * time.Second
	checkTimeout    = 15 * time.Second
)

type serveFlags struct {
	listen string
	check  bool
}

func NewServeCommand() *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the completion gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("error loading settings: %w", err)
			}
			if f.listen != "" {
				cfg.Gateway.Listen = f.listen
			}

			level := cfg.Gateway.LogLevel
			if cmd.Flags().Changed("log-level") {
				level = logLevel
			}
			if err := config.InitLogging(level, os.Stderr); err != nil {
				return err
			}

			p, creds, fileCreds, err := provider.FromConfig(cfg)
			if err != nil {
				return fmt.Errorf("couldn't build provider: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if f.check {
				return runCheck(ctx, cmd, p)
			}

			if fileCreds != nil {
				if err := fileCreds.Watch(ctx); err != nil {
					return err
				}
				defer fileCreds.Stop()
			}

			metrics := gateway.NewMetrics()
			gw := gateway.FromConfig(cfg, p, creds, metrics)
			handler := gateway.NewHandler(gw, gateway.HandlerConfig{
				Metrics:   metrics,
				RateLimit: cfg.Gateway.RateLimit,
				RateBurst: cfg.Gateway.RateBurst,
			})

			return serve(ctx, cfg, handler)
		},
	}

	cmd.Flags().StringVar(&f.listen, "listen", "", "Address to listen on, overrides [gateway] listen")
	cmd.Flags().BoolVar(&f.check, "check", false, "Check the provider once and exit")
	return cmd
}

// serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests.
func serve(ctx context.Context, cfg *config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Gateway.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.GatewayTimeout() + 10*time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		log.WithFields(log.Fields{
			"component": "serve",
			"listen":    cfg.Gateway.Listen,
			"provider":  cfg.Provider.Type,
		}).Info("gateway listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		log.WithField("component", "serve").Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func runCheck(ctx context.Context, cmd *cobra.Command, p model.Provider) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	result := provider.Check(ctx, p)
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if !result.Ready {
		return fmt.Errorf("provider not ready: %s", result.Reason)
	}
	return nil
}
