package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"disputewise/internal/analyze"
	"disputewise/internal/api"
	"disputewise/internal/logger"
	"disputewise/internal/store"
)

var (
	servePort     int
	serveProvider string
	serveModel    string
	serveCacheDir string
	serveNoCache  bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dispute analysis HTTP API",
	Long: `Serve starts the HTTP API for managing customers and disputes,
running analyses, and reading dashboard metrics.

Example:
  disputewise serve
  disputewise serve --port 9090 --provider openai --model gpt-4o-mini
  disputewise serve --provider ollama --no-cache`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	serveCmd.Flags().StringVar(&serveProvider, "provider", "", "oracle provider (openai, anthropic, ollama; empty disables AI analysis)")
	serveCmd.Flags().StringVar(&serveModel, "model", "", "oracle model name")
	serveCmd.Flags().StringVar(&serveCacheDir, "cache-dir", "", "judgment cache directory (adds a disk layer)")
	serveCmd.Flags().BoolVar(&serveNoCache, "no-cache", false, "disable judgment caching")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if serveProvider != "" {
		cfg.Oracle.Provider = serveProvider
	}
	if serveModel != "" {
		cfg.Oracle.Model = serveModel
	}
	if serveCacheDir != "" {
		cfg.Cache.Dir = serveCacheDir
	}
	if serveNoCache {
		cfg.Cache.Enabled = false
	}
	if err := applyOracleEnv(cfg); err != nil {
		return err
	}

	log := logger.New()

	o, err := buildOracle(cfg)
	if err != nil {
		return fmt.Errorf("configure oracle: %w", err)
	}
	if o == nil {
		log.Warn("no oracle provider configured, analysis endpoints will return errors")
	} else {
		log.WithField("provider", o.Name()).Info("oracle configured")
	}

	st := store.New()
	analyzer := analyze.New(o)
	handler := api.NewHandler(st, analyzer, log)
	router := api.NewRouter(handler, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
