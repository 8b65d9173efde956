package commands

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

	"github.com/reporeferee/reporeferee/internal/build"
	"github.com/reporeferee/reporeferee/internal/classifier"
	"github.com/reporeferee/reporeferee/internal/config"
	"github.com/reporeferee/reporeferee/internal/gateway"
	"github.com/reporeferee/reporeferee/internal/lifecycle"
	"github.com/reporeferee/reporeferee/internal/record"
	"github.com/reporeferee/reporeferee/internal/webhook"
)

// shutdownTimeout bounds how long an in-flight HTTP request may delay
// shutdown. Dispatched deliveries are waited for without a deadline since
// each one performs at most a handful of API calls.
const shutdownTimeout = 10 * time.Second

var (
	serveListenAddr string
	serveLogDir     string
	serveLogLevel   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook daemon",
	Long: `Start the webhook listener and handle deliveries until interrupted.
Settings come from REPOREFEREE_* environment variables; the flags below
override their env counterparts.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(
		&serveListenAddr, "listen", "",
		"Webhook listener address (overrides REPOREFEREE_LISTEN_ADDR)",
	)
	serveCmd.Flags().StringVar(
		&serveLogDir, "log-dir", "",
		"Log file directory (overrides REPOREFEREE_LOG_DIR)",
	)
	serveCmd.Flags().StringVar(
		&serveLogLevel, "log-level", "",
		"Log level (overrides REPOREFEREE_LOG_LEVEL)",
	)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	if serveListenAddr != "" {
		cfg.ListenAddr = serveListenAddr
	}
	if serveLogDir != "" {
		cfg.LogDir = serveLogDir
	}
	if serveLogLevel != "" {
		cfg.LogLevel = serveLogLevel
	}

	logCfg := build.DefaultLogConfig()
	logCfg.LogDir = cfg.LogDir
	logCfg.Level = cfg.LogLevel

	log, closeLogs, err := build.SetupLogging(logCfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeLogs()
	}()

	gw := gateway.NewGitHubGateway(cfg.Owner, cfg.GitHubToken, log)
	store := record.NewStore(gw, cfg.ModerationRepo, log)

	clsCfg := classifier.DefaultConfig()
	clsCfg.APIKey = cfg.OpenAIAPIKey
	cls := classifier.NewOpenAIClassifier(clsCfg, log)

	ctrl := lifecycle.NewController(lifecycle.Config{
		DetectionRepos: cfg.DetectionRepos,
		ModerationRepo: cfg.ModerationRepo,
		Owner:          cfg.Owner,
		Automatic:      cfg.Automatic,
	}, gw, store, cls, log)

	disp := webhook.NewDispatcher(ctrl, log)
	srv := webhook.NewServer(webhook.Config{
		Secret:         cfg.WebhookSecret,
		ModerationRepo: cfg.ModerationRepo,
	}, disp, log)

	httpSrv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Webhook listener starting",
			"addr", cfg.ListenAddr,
			"automatic", cfg.Automatic,
			"version", build.Version())

		if err := httpSrv.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {

			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Shutting down", "signal", sig.String())
	case err := <-errCh:
		return fmt.Errorf("webhook listener failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(
		context.Background(), shutdownTimeout,
	)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Error("HTTP shutdown failed", "err", err)
	}

	// Let already-accepted deliveries finish their API calls.
	disp.Wait()
	log.Info("Shutdown complete")

	return nil
}
