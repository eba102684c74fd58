package ports

import (
	"context"
	"io"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
)

// SceneDescriber turns a captured frame into a free-text scene description.
type SceneDescriber interface {
	Describe(ctx context.Context, imageB64, prompt string) (domain.SceneDescription, error)
}

// Recommender turns a scene description plus a user profile into
// structured advice.
type Recommender interface {
	Recommend(ctx context.Context, description string, profile domain.UserProfile) (domain.Recommendation, error)
}

// ProfileCatalog resolves user profiles by id.
type ProfileCatalog interface {
	Get(id string) (domain.UserProfile, bool)
	IDs() []string
}

// FrameStorage stores captured frames.
type FrameStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// AnalysisRepository persists and reads scene-analysis state.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *domain.Analysis) error
	GetByID(ctx context.Context, id string) (*domain.Analysis, error)
	List(ctx context.Context, limit int) ([]domain.Analysis, error)
	UpdateStatus(ctx context.Context, id string, status domain.AnalysisStatus, errMessage string) error
	SaveResult(ctx context.Context, id string, description string, rec domain.Recommendation) error
}

// ReservationRepository persists adapted-transport bookings.
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) error
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	List(ctx context.Context) ([]domain.Reservation, error)
	UpdateStatus(ctx context.Context, id string, status domain.ReservationStatus) error
}

// AnalysisQueue publishes/consumes scene-analysis jobs.
type AnalysisQueue interface {
	PublishAnalysisRequested(ctx context.Context, analysisID string) error
	SubscribeAnalysisRequested(ctx context.Context, handler func(context.Context, string) error) error
}
