package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Yajiroobe/SAE-VISION360/internal/config"
	"github.com/Yajiroobe/SAE-VISION360/internal/core/ports"
	"github.com/Yajiroobe/SAE-VISION360/internal/core/usecase"
	"github.com/Yajiroobe/SAE-VISION360/internal/infrastructure/llm/gemini"
	"github.com/Yajiroobe/SAE-VISION360/internal/infrastructure/llm/groq"
	"github.com/Yajiroobe/SAE-VISION360/internal/infrastructure/profile"
	"github.com/Yajiroobe/SAE-VISION360/internal/infrastructure/queue/nats"
	"github.com/Yajiroobe/SAE-VISION360/internal/infrastructure/repository/postgres"
	"github.com/Yajiroobe/SAE-VISION360/internal/infrastructure/resilience"
	"github.com/Yajiroobe/SAE-VISION360/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue        ports.AnalysisQueue
	Reservations ports.ReservationRepository
	Profiles     ports.ProfileCatalog
	GuidanceUC   ports.GuidanceService
	AnalysisUC   ports.SceneAnalysisService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	analysisRepo := postgres.NewAnalysisRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)

	frames, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init frame storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init analysis queue: %w", err)
	}

	describer := gemini.New(gemini.Config{
		BaseURL:    cfg.GeminiBaseURL,
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		APIVersion: cfg.GeminiAPIVersion,
		Executor:   executor,
	})
	recommender := groq.New(groq.Config{
		BaseURL:  cfg.GroqBaseURL,
		APIKey:   cfg.GroqAPIKey,
		Model:    cfg.GroqModel,
		Executor: executor,
	})

	profiles, err := profile.Load(cfg.ProfileCatalogPath, logger)
	if err != nil {
		return nil, fmt.Errorf("load profile catalogue: %w", err)
	}

	guidanceUC := usecase.NewGuidanceUseCase()
	analysisUC := usecase.NewAnalyzeSceneUseCase(analysisRepo, frames, queue, describer, recommender, profiles)

	return &App{
		Config: cfg,

		Queue:        queue,
		Reservations: reservationRepo,
		Profiles:     profiles,
		GuidanceUC:   guidanceUC,
		AnalysisUC:   analysisUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
