package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sustrend/zeroe-viz/internal/config"
	"github.com/sustrend/zeroe-viz/internal/dashboard"
)

const shutdownTimeout = 10 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interactive impact dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(cfg, nil)
		if err != nil {
			return err
		}

		handler, err := buildHandler(env, cfg)
		if err != nil {
			return err
		}

		go env.Logos.Run(ctx, time.Duration(cfg.Branding.WarmIntervalSecs)*time.Second)

		srv := newHTTPServer(handler, resolvePort(servePort, cfg.Server.Port), cfg.Server)
		return startServer(ctx, srv)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// buildHandler creates the dashboard handler from the shared components.
func buildHandler(env *appEnv, c *config.Config) (http.Handler, error) {
	s, err := dashboard.New(dashboard.Options{
		Calculator:  env.Calculator,
		Renderer:    env.Renderer,
		Logos:       env.Logos,
		CORSOrigins: c.Server.CORSOrigins,
		ChartRate:   c.Server.ChartRate,
		ChartBurst:  c.Server.ChartBurst,
		LogoTimeout: time.Duration(c.Branding.TimeoutSecs) * time.Second,
		ReportTitle: c.Report.Title,
	})
	if err != nil {
		return nil, err
	}
	return s.Handler(), nil
}

// resolvePort returns the flag value when set, otherwise the config value.
func resolvePort(flagPort, cfgPort int) int {
	if flagPort != 0 {
		return flagPort
	}
	return cfgPort
}

func newHTTPServer(handler http.Handler, port int, sc config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(sc.ReadTimeoutSecs) * time.Second,
		WriteTimeout:      time.Duration(sc.WriteTimeoutSecs) * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// startServer serves until ctx is cancelled, then shuts down gracefully.
func startServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- eris.Wrap(err, "server listen")
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server shutdown")
	}
	return <-errCh
}
