package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
	"github.com/Yajiroobe/SAE-VISION360/internal/core/ports"
)

const defaultScenePrompt = "Décris précisément les produits/objets visibles, marques ou catégories, positions relatives."

// AnalyzeSceneUseCase orchestrates the frame analysis pipeline: store the
// captured frame, queue it, then describe -> recommend in the worker.
type AnalyzeSceneUseCase struct {
	repo        ports.AnalysisRepository
	frames      ports.FrameStorage
	queue       ports.AnalysisQueue
	describer   ports.SceneDescriber
	recommender ports.Recommender
	profiles    ports.ProfileCatalog
}

func NewAnalyzeSceneUseCase(
	repo ports.AnalysisRepository,
	frames ports.FrameStorage,
	queue ports.AnalysisQueue,
	describer ports.SceneDescriber,
	recommender ports.Recommender,
	profiles ports.ProfileCatalog,
) *AnalyzeSceneUseCase {
	return &AnalyzeSceneUseCase{
		repo:        repo,
		frames:      frames,
		queue:       queue,
		describer:   describer,
		recommender: recommender,
		profiles:    profiles,
	}
}

// DescribeScene is the synchronous vision relay.
func (uc *AnalyzeSceneUseCase) DescribeScene(ctx context.Context, imageB64, prompt string) (domain.SceneDescription, error) {
	if strings.TrimSpace(imageB64) == "" {
		return domain.SceneDescription{}, domain.WrapError(domain.ErrInvalidInput, "describe scene", errors.New("image payload is required"))
	}
	if strings.TrimSpace(prompt) == "" {
		prompt = defaultScenePrompt
	}
	return uc.describer.Describe(ctx, imageB64, prompt)
}

// Recommend is the synchronous language relay. The inline override wins
// over the catalogue; an unknown id falls back to the default profile.
func (uc *AnalyzeSceneUseCase) Recommend(ctx context.Context, description, profileID string, override *domain.UserProfile) (domain.Recommendation, error) {
	if strings.TrimSpace(description) == "" {
		return domain.Recommendation{}, domain.WrapError(domain.ErrInvalidInput, "recommend", errors.New("description is required"))
	}
	return uc.recommender.Recommend(ctx, description, uc.ResolveProfile(profileID, override))
}

// ResolveProfile applies the override > catalogue > default precedence.
func (uc *AnalyzeSceneUseCase) ResolveProfile(profileID string, override *domain.UserProfile) domain.UserProfile {
	if override != nil {
		return *override
	}
	if profile, ok := uc.profiles.Get(profileID); ok {
		return profile
	}
	if profile, ok := uc.profiles.Get("default"); ok {
		return profile
	}
	return domain.UserProfile{}
}

// Submit stores the frame, records a pending analysis and queues it for
// the worker. The image must be valid base64, with or without a data URI
// prefix.
func (uc *AnalyzeSceneUseCase) Submit(ctx context.Context, imageB64, profileID, prompt string) (*domain.Analysis, error) {
	raw, err := decodeFrame(imageB64)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(prompt) == "" {
		prompt = defaultScenePrompt
	}
	if strings.TrimSpace(profileID) == "" {
		profileID = "default"
	}

	id := uuid.NewString()
	frameKey := fmt.Sprintf("%s.jpg", id)
	now := time.Now().UTC()

	if err := uc.frames.Save(ctx, frameKey, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("save frame: %w", err)
	}

	analysis := &domain.Analysis{
		ID:        id,
		ProfileID: profileID,
		Prompt:    prompt,
		FramePath: frameKey,
		Status:    domain.AnalysisPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, analysis); err != nil {
		return nil, fmt.Errorf("create analysis record: %w", err)
	}
	if err := uc.queue.PublishAnalysisRequested(ctx, id); err != nil {
		return nil, fmt.Errorf("publish analysis event: %w", err)
	}
	return analysis, nil
}

// ProcessByID runs the describe -> recommend pipeline for one queued
// analysis. Failures are recorded on the analysis row and returned.
func (uc *AnalyzeSceneUseCase) ProcessByID(ctx context.Context, analysisID string) error {
	if err := uc.repo.UpdateStatus(ctx, analysisID, domain.AnalysisProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	if err := uc.runPipeline(ctx, analysisID); err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, analysisID, domain.AnalysisFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.UpdateStatus(ctx, analysisID, domain.AnalysisReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *AnalyzeSceneUseCase) runPipeline(ctx context.Context, analysisID string) error {
	analysis, err := uc.repo.GetByID(ctx, analysisID)
	if err != nil {
		return fmt.Errorf("fetch analysis by id: %w", err)
	}

	frame, err := uc.frames.Open(ctx, analysis.FramePath)
	if err != nil {
		return fmt.Errorf("open frame: %w", err)
	}
	raw, err := io.ReadAll(frame)
	_ = frame.Close()
	if err != nil {
		return fmt.Errorf("read frame: %w", err)
	}

	desc, err := uc.describer.Describe(ctx, base64.StdEncoding.EncodeToString(raw), analysis.Prompt)
	if err != nil {
		return fmt.Errorf("describe scene: %w", err)
	}

	rec, err := uc.recommender.Recommend(ctx, desc.Text, uc.ResolveProfile(analysis.ProfileID, nil))
	if err != nil {
		return fmt.Errorf("generate recommendation: %w", err)
	}

	if err := uc.repo.SaveResult(ctx, analysisID, desc.Text, rec); err != nil {
		return fmt.Errorf("save analysis result: %w", err)
	}
	return nil
}

func (uc *AnalyzeSceneUseCase) GetByID(ctx context.Context, analysisID string) (*domain.Analysis, error) {
	return uc.repo.GetByID(ctx, analysisID)
}

func (uc *AnalyzeSceneUseCase) List(ctx context.Context, limit int) ([]domain.Analysis, error) {
	return uc.repo.List(ctx, limit)
}

func decodeFrame(imageB64 string) ([]byte, error) {
	payload := strings.TrimSpace(imageB64)
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	if payload == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "decode frame", errors.New("image payload is required"))
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "decode frame", err)
	}
	return raw, nil
}
