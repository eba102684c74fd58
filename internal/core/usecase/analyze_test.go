package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"testing"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
)

type analysisRepoFake struct {
	created  *domain.Analysis
	stored   map[string]*domain.Analysis
	statuses []domain.AnalysisStatus
	saved    bool
	saveErr  error
}

func newAnalysisRepoFake() *analysisRepoFake {
	return &analysisRepoFake{stored: map[string]*domain.Analysis{}}
}

func (f *analysisRepoFake) Create(_ context.Context, a *domain.Analysis) error {
	f.created = a
	f.stored[a.ID] = a
	return nil
}

func (f *analysisRepoFake) GetByID(_ context.Context, id string) (*domain.Analysis, error) {
	a, ok := f.stored[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get analysis", errors.New(id))
	}
	return a, nil
}

func (f *analysisRepoFake) List(context.Context, int) ([]domain.Analysis, error) { return nil, nil }

func (f *analysisRepoFake) UpdateStatus(_ context.Context, _ string, status domain.AnalysisStatus, _ string) error {
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *analysisRepoFake) SaveResult(context.Context, string, string, domain.Recommendation) error {
	f.saved = true
	return f.saveErr
}

type frameStorageFake struct {
	frames map[string][]byte
}

func newFrameStorageFake() *frameStorageFake {
	return &frameStorageFake{frames: map[string][]byte{}}
}

func (f *frameStorageFake) Save(_ context.Context, key string, data io.Reader) error {
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.frames[key] = raw
	return nil
}

func (f *frameStorageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	raw, ok := f.frames[key]
	if !ok {
		return nil, errors.New("frame missing")
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

type queueFake struct {
	published []string
	err       error
}

func (f *queueFake) PublishAnalysisRequested(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, id)
	return nil
}

func (f *queueFake) SubscribeAnalysisRequested(context.Context, func(context.Context, string) error) error {
	return nil
}

type describerFake struct {
	gotImage  string
	gotPrompt string
	err       error
}

func (f *describerFake) Describe(_ context.Context, imageB64, prompt string) (domain.SceneDescription, error) {
	f.gotImage = imageB64
	f.gotPrompt = prompt
	if f.err != nil {
		return domain.SceneDescription{}, f.err
	}
	return domain.SceneDescription{Text: "un rayon de supermarché", Model: "test", Prompt: prompt}, nil
}

type recommenderFake struct {
	gotProfile domain.UserProfile
	err        error
}

func (f *recommenderFake) Recommend(_ context.Context, _ string, profile domain.UserProfile) (domain.Recommendation, error) {
	f.gotProfile = profile
	if f.err != nil {
		return domain.Recommendation{}, f.err
	}
	return domain.Recommendation{Summary: "ok", Risks: []string{}, Actions: []string{}}, nil
}

type catalogFake struct {
	profiles map[string]domain.UserProfile
}

func (f *catalogFake) Get(id string) (domain.UserProfile, bool) {
	p, ok := f.profiles[id]
	return p, ok
}

func (f *catalogFake) IDs() []string { return nil }

func newAnalyzeFixture() (*AnalyzeSceneUseCase, *analysisRepoFake, *frameStorageFake, *queueFake, *describerFake, *recommenderFake) {
	repo := newAnalysisRepoFake()
	frames := newFrameStorageFake()
	queue := &queueFake{}
	describer := &describerFake{}
	recommender := &recommenderFake{}
	catalog := &catalogFake{profiles: map[string]domain.UserProfile{
		"wheelchair_diabetic": {Name: "Test", Mobility: "wheelchair", Conditions: []string{"diabetes"}},
		"default":             {Name: "Default"},
	}}
	uc := NewAnalyzeSceneUseCase(repo, frames, queue, describer, recommender, catalog)
	return uc, repo, frames, queue, describer, recommender
}

func TestSubmitStoresFrameAndQueues(t *testing.T) {
	uc, repo, frames, queue, _, _ := newAnalyzeFixture()

	img := base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	analysis, err := uc.Submit(context.Background(), "data:image/jpeg;base64,"+img, "", "")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if analysis.Status != domain.AnalysisPending {
		t.Fatalf("expected pending status, got %s", analysis.Status)
	}
	if analysis.ProfileID != "default" || analysis.Prompt == "" {
		t.Fatalf("expected defaults applied, got %+v", analysis)
	}
	if repo.created == nil {
		t.Fatalf("expected analysis record created")
	}
	if got := frames.frames[analysis.FramePath]; string(got) != "jpeg-bytes" {
		t.Fatalf("expected decoded frame stored, got %q", got)
	}
	if len(queue.published) != 1 || queue.published[0] != analysis.ID {
		t.Fatalf("expected analysis id published, got %v", queue.published)
	}
}

func TestSubmitRejectsBadImage(t *testing.T) {
	uc, _, _, _, _, _ := newAnalyzeFixture()

	if _, err := uc.Submit(context.Background(), "   ", "p", ""); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty image, got %v", err)
	}
	if _, err := uc.Submit(context.Background(), "not-base64!!", "p", ""); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad base64, got %v", err)
	}
}

func TestProcessByIDRunsPipeline(t *testing.T) {
	uc, repo, _, _, describer, recommender := newAnalyzeFixture()

	img := base64.StdEncoding.EncodeToString([]byte("frame"))
	analysis, err := uc.Submit(context.Background(), img, "wheelchair_diabetic", "décris la scène")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if err := uc.ProcessByID(context.Background(), analysis.ID); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}

	if describer.gotPrompt != "décris la scène" {
		t.Fatalf("expected stored prompt forwarded, got %q", describer.gotPrompt)
	}
	if recommender.gotProfile.Mobility != "wheelchair" {
		t.Fatalf("expected catalogue profile resolved, got %+v", recommender.gotProfile)
	}
	if !repo.saved {
		t.Fatalf("expected result saved")
	}
	last := repo.statuses[len(repo.statuses)-1]
	if last != domain.AnalysisReady {
		t.Fatalf("expected final status ready, got %s", last)
	}
}

func TestProcessByIDMarksFailed(t *testing.T) {
	uc, repo, _, _, describer, _ := newAnalyzeFixture()
	describer.err = domain.WrapError(domain.ErrUpstream, "gemini describe", errors.New("boom"))

	img := base64.StdEncoding.EncodeToString([]byte("frame"))
	analysis, err := uc.Submit(context.Background(), img, "default", "")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if err := uc.ProcessByID(context.Background(), analysis.ID); err == nil {
		t.Fatalf("expected pipeline error")
	}
	last := repo.statuses[len(repo.statuses)-1]
	if last != domain.AnalysisFailed {
		t.Fatalf("expected final status failed, got %s", last)
	}
}

func TestResolveProfilePrecedence(t *testing.T) {
	uc, _, _, _, _, _ := newAnalyzeFixture()

	override := &domain.UserProfile{Name: "Inline", Mobility: "cane"}
	if got := uc.ResolveProfile("wheelchair_diabetic", override); got.Name != "Inline" {
		t.Fatalf("expected override precedence, got %+v", got)
	}
	if got := uc.ResolveProfile("wheelchair_diabetic", nil); got.Mobility != "wheelchair" {
		t.Fatalf("expected catalogue hit, got %+v", got)
	}
	if got := uc.ResolveProfile("unknown", nil); got.Name != "Default" {
		t.Fatalf("expected default fallback, got %+v", got)
	}
}
