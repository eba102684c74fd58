package httpadapter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
	"github.com/Yajiroobe/SAE-VISION360/internal/core/usecase"
	"github.com/Yajiroobe/SAE-VISION360/internal/observability/metrics"
)

type fakeAnalysisService struct {
	describeFn  func(ctx context.Context, imageB64, prompt string) (domain.SceneDescription, error)
	recommendFn func(ctx context.Context, description, profileID string, override *domain.UserProfile) (domain.Recommendation, error)
	submitFn    func(ctx context.Context, imageB64, profileID, prompt string) (*domain.Analysis, error)
	getFn       func(ctx context.Context, analysisID string) (*domain.Analysis, error)
	listFn      func(ctx context.Context, limit int) ([]domain.Analysis, error)
}

func (f *fakeAnalysisService) DescribeScene(ctx context.Context, imageB64, prompt string) (domain.SceneDescription, error) {
	if f.describeFn == nil {
		return domain.SceneDescription{}, nil
	}
	return f.describeFn(ctx, imageB64, prompt)
}

func (f *fakeAnalysisService) Recommend(ctx context.Context, description, profileID string, override *domain.UserProfile) (domain.Recommendation, error) {
	if f.recommendFn == nil {
		return domain.Recommendation{}, nil
	}
	return f.recommendFn(ctx, description, profileID, override)
}

func (f *fakeAnalysisService) Submit(ctx context.Context, imageB64, profileID, prompt string) (*domain.Analysis, error) {
	if f.submitFn == nil {
		return &domain.Analysis{}, nil
	}
	return f.submitFn(ctx, imageB64, profileID, prompt)
}

func (f *fakeAnalysisService) ProcessByID(context.Context, string) error { return nil }

func (f *fakeAnalysisService) GetByID(ctx context.Context, analysisID string) (*domain.Analysis, error) {
	if f.getFn == nil {
		return &domain.Analysis{ID: analysisID}, nil
	}
	return f.getFn(ctx, analysisID)
}

func (f *fakeAnalysisService) List(ctx context.Context, limit int) ([]domain.Analysis, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx, limit)
}

type fakeReservationRepo struct {
	created []*domain.Reservation
	getFn   func(ctx context.Context, id string) (*domain.Reservation, error)
}

func (f *fakeReservationRepo) Create(_ context.Context, res *domain.Reservation) error {
	f.created = append(f.created, res)
	return nil
}

func (f *fakeReservationRepo) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	for _, res := range f.created {
		if res.ID == id {
			return res, nil
		}
	}
	return nil, domain.WrapError(domain.ErrNotFound, "get reservation", errors.New("reservation not found: "+id))
}

func (f *fakeReservationRepo) List(context.Context) ([]domain.Reservation, error) {
	out := make([]domain.Reservation, 0, len(f.created))
	for _, res := range f.created {
		out = append(out, *res)
	}
	return out, nil
}

func (f *fakeReservationRepo) UpdateStatus(_ context.Context, id string, status domain.ReservationStatus) error {
	for _, res := range f.created {
		if res.ID == id {
			res.Status = status
			return nil
		}
	}
	return domain.WrapError(domain.ErrNotFound, "update reservation status", errors.New("reservation not found: "+id))
}

type fakeProfileCatalog struct {
	profiles map[string]domain.UserProfile
}

func (f *fakeProfileCatalog) Get(id string) (domain.UserProfile, bool) {
	p, ok := f.profiles[id]
	return p, ok
}

func (f *fakeProfileCatalog) IDs() []string {
	ids := make([]string, 0, len(f.profiles))
	for id := range f.profiles {
		ids = append(ids, id)
	}
	return ids
}

type testRouterConfig struct {
	analysis     *fakeAnalysisService
	reservations *fakeReservationRepo
	profiles     map[string]domain.UserProfile
	metrics      *metrics.HTTPServerMetrics
	options      RouterOptions
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func newTestHandler(cfg testRouterConfig) http.Handler {
	analysis := cfg.analysis
	if analysis == nil {
		analysis = &fakeAnalysisService{}
	}
	reservations := cfg.reservations
	if reservations == nil {
		reservations = &fakeReservationRepo{}
	}
	router := NewRouter(
		usecase.NewGuidanceUseCase(),
		analysis,
		reservations,
		&fakeProfileCatalog{profiles: cfg.profiles},
		cfg.metrics,
	)
	options := cfg.options
	if options.MaxWait <= 0 {
		options.MaxWait = 50 * time.Millisecond
	}
	return router.Handler(options)
}
