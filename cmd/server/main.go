package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"docsummary/internal/backend"
	"docsummary/internal/backend/claude"
	"docsummary/internal/backend/gemini"
	"docsummary/internal/config"
	"docsummary/internal/extractor"
	"docsummary/internal/handler"
	"docsummary/internal/logger"
	"docsummary/internal/router"
	"docsummary/internal/service"
	"docsummary/internal/status"
)

// @title docsummary API
// @version 1.0
// @description Document summarization service streaming progress events.
// @BasePath /

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, closeBackends, err := buildRegistry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize backends: %w", err)
	}
	defer closeBackends()
	if !registry.AnyConfigured() {
		log.Warn().Msg("no backend credential configured; every request will get the fallback summary")
	}

	// Initialize services
	register := status.NewRegister()
	summarySvc := service.NewSummaryService(extractor.New(), registry, register, service.SummaryServiceConfig{
		MaxUploadBytes: cfg.Upload.MaxBytes(),
		MirrorProgress: cfg.Status.MirrorProgress,
		Stream: service.SequencerConfig{
			StageDelay:     cfg.Stream.StageDelay,
			ChunkDelay:     cfg.Stream.ChunkDelay,
			ChunkSize:      cfg.Stream.ChunkSize,
			LiveGeneration: cfg.Stream.LiveGeneration,
		},
	})

	// Initialize handlers
	summarizeH := handler.NewSummarizeHandler(summarySvc, cfg.Upload.MaxBytes())
	statusH := handler.NewStatusHandler(status.NewPoller(register, cfg.Status.PollInterval))
	homeH := handler.NewHomeHandler()
	healthH := handler.NewHealthHandler(summarySvc)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := router.Setup(cfg.CORS.AllowedOrigins, summarizeH, statusH, homeH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildRegistry creates both backends. Gemini goes through Vertex AI when a
// project is configured and through the REST API otherwise.
func buildRegistry(ctx context.Context, cfg *config.Config) (*backend.Registry, func(), error) {
	registry := backend.NewRegistry()
	closeFn := func() {}

	claudeBackend := claude.NewBackend(&cfg.Claude)
	registry.Register(claudeBackend, claudeBackend.Model(), claudeBackend.Configured())

	if cfg.Gemini.UsesVertex() {
		vb, err := gemini.NewVertexBackend(ctx, &cfg.Gemini)
		if err != nil {
			return nil, closeFn, err
		}
		closeFn = func() {
			if err := vb.Close(); err != nil {
				log.Warn().Err(err).Msg("closing vertex client")
			}
		}
		registry.Register(vb, vb.Model(), true)
		log.Info().Str("project", cfg.Gemini.VertexProject).Str("location", cfg.Gemini.VertexLocation).
			Msg("gemini served through vertex ai")
	} else {
		gb := gemini.NewBackend(&cfg.Gemini)
		registry.Register(gb, gb.Model(), gb.Configured())
	}

	return registry, closeFn, nil
}
