package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"forensai-backend/internal/config"
	"forensai-backend/internal/handlers"
	"forensai-backend/internal/logx"
	"forensai-backend/internal/metrics"
	"forensai-backend/internal/router"
	"forensai-backend/internal/services"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "forensai-backend",
		Short:         "HTTP relay between the ForensAI frontend and a local Ollama model",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			applyFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				logx.Log.Error().Err(err).Msg("✗ Invalid configuration")
				return err
			}
			logx.Setup(cfg.Debug, cfg.Env)
			return run(cfg)
		},
	}

	cmd.Flags().String("port", config.DefaultPort, "port to listen on (env PORT)")
	cmd.Flags().String("ollama-url", config.DefaultOllamaURL, "Ollama generate endpoint (env OLLAMA_URL)")
	cmd.Flags().String("model", config.DefaultModelName, "model name sent to Ollama (env OLLAMA_MODEL)")
	cmd.Flags().Duration("ollama-timeout", 0, "timeout for one Ollama call, 0 for none (env OLLAMA_TIMEOUT)")
	cmd.Flags().Bool("debug", false, "enable debug logging (env DEBUG)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})

	return cmd
}

// applyFlags lets explicitly set flags override the environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetString("port")
	}
	if flags.Changed("ollama-url") {
		cfg.OllamaURL, _ = flags.GetString("ollama-url")
	}
	if flags.Changed("model") {
		cfg.ModelName, _ = flags.GetString("model")
	}
	if flags.Changed("ollama-timeout") {
		cfg.OllamaTimeout, _ = flags.GetDuration("ollama-timeout")
	}
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
}

func run(cfg *config.Config) error {
	logx.Log.Info().Msg("🚀 ForensAI Backend starting...")

	// ──── Metrics ────
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(reg)
	metrics.SetBuildInfo(version, cfg.ModelName)

	// ──── Services ────
	ollama := services.NewOllamaService(cfg.OllamaURL, cfg.OllamaTimeout)
	fileExtractService := services.NewFileExtractService()
	logx.Log.Info().
		Str("url", cfg.OllamaURL).
		Str("model", cfg.ModelName).
		Dur("timeout", cfg.OllamaTimeout).
		Msg("✓ Ollama client initialized")

	// ──── Handlers ────
	chatHandler := handlers.NewChatHandler(ollama, cfg.ModelName)
	analyzeHandler := handlers.NewAnalyzeHandler(ollama, fileExtractService, cfg.ModelName, cfg.MaxUploadBytes)

	r := router.New(
		chatHandler,
		analyzeHandler,
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		cfg.AllowedOrigins,
	)

	// No write timeout: a chat call blocks for as long as the model takes.
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	idle := make(chan struct{})
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logx.Log.Info().Msg("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logx.Log.Error().Err(err).Msg("shutdown")
		}
		close(idle)
	}()

	logx.Log.Info().Msgf("✓ ForensAI Backend ready on http://localhost:%s", cfg.Port)
	logx.Log.Info().Msg("  GET  /api/health       - Health check")
	logx.Log.Info().Msg("  POST /api/chat         - Chat with AI")
	logx.Log.Info().Msg("  POST /api/analyze-log  - Analyze log files")
	logx.Log.Info().Msg("  GET  /metrics          - Prometheus metrics")
	logx.Log.Info().Msg("⚠️  Make sure Ollama is running: ollama serve")

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logx.Log.Error().Err(err).Msg("Server error")
		return err
	}
	<-idle
	return nil
}
