package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/commentdex/commentdex/internal/config"
	logpkg "github.com/commentdex/commentdex/internal/logger"
	"github.com/commentdex/commentdex/internal/metrics"
	chiTransport "github.com/commentdex/commentdex/internal/transport/chi"
	healthuc "github.com/commentdex/commentdex/internal/usecase/health"
	translateuc "github.com/commentdex/commentdex/internal/usecase/translate"
	"github.com/commentdex/commentdex/internal/version"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "path to the config file (overrides CONFIG_PATH)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(*cobra.Command, []string) error {
	if serveConfigPath != "" {
		if err := os.Setenv("CONFIG_PATH", serveConfigPath); err != nil {
			return fmt.Errorf("set CONFIG_PATH: %w", err)
		}
	}

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.New(env, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting commentdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.Server.Port),
		zap.String("store_path", cfg.Store.Path),
		zap.Strings("redis_addrs", cfg.Redis.Addrs),
		zap.String("index", cfg.Index.Name),
	)

	st, q, err := openSyncDeps(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	defer q.Close()

	metrics.RegisterDomainMetrics()

	translateSvc := translateuc.New(newCompiler(cfg))
	syncSvc := newSyncService(cfg, st, q)
	healthSvc := healthuc.New(st, q)

	server := chiTransport.NewServer(translateSvc, syncSvc, healthSvc, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(cfg.Server.AuthToken),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}

	logger.Info("server stopped gracefully")
	return nil
}
