package ports

import (
	"context"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
)

// GuidanceService is the inbound contract for detection enrichment and
// advisory generation. All three operations are pure and safe for
// concurrent use.
type GuidanceService interface {
	Enrich(det domain.Detection, profileHint string) (domain.Enrichment, error)
	EnrichBatch(dets []domain.Detection, profileHint string) []domain.BatchItem
	Advise(profile domain.UserProfile, contextLabel string, dets []domain.Detection, enrichments []domain.Enrichment) (domain.Advisory, error)
}

// SceneAnalysisService is the inbound contract for the frame analysis
// pipeline, both synchronous relays and the queued variant.
type SceneAnalysisService interface {
	DescribeScene(ctx context.Context, imageB64, prompt string) (domain.SceneDescription, error)
	Recommend(ctx context.Context, description, profileID string, override *domain.UserProfile) (domain.Recommendation, error)
	Submit(ctx context.Context, imageB64, profileID, prompt string) (*domain.Analysis, error)
	ProcessByID(ctx context.Context, analysisID string) error
	GetByID(ctx context.Context, analysisID string) (*domain.Analysis, error)
	List(ctx context.Context, limit int) ([]domain.Analysis, error)
}
