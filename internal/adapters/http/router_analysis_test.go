package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
	"github.com/Yajiroobe/SAE-VISION360/internal/observability/metrics"
)

func TestSubmitAnalysisReturns202(t *testing.T) {
	analysis := &fakeAnalysisService{
		submitFn: func(_ context.Context, imageB64, profileID, prompt string) (*domain.Analysis, error) {
			if imageB64 != "aGVsbG8=" {
				t.Errorf("image = %q", imageB64)
			}
			return &domain.Analysis{ID: "a-1", ProfileID: profileID, Status: domain.AnalysisPending}, nil
		},
	}
	handler := newTestHandler(testRouterConfig{analysis: analysis})

	res := postJSONRequest(t, handler, "/v1/analyses", `{"image": "aGVsbG8=", "profile_id": "wheelchair"}`)
	if res.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", res.Code, res.Body.String())
	}

	var report domain.Analysis
	if err := json.Unmarshal(res.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Status != domain.AnalysisPending {
		t.Errorf("status = %s, want pending", report.Status)
	}
}

func TestSubmitAnalysisWithoutImage(t *testing.T) {
	handler := newTestHandler(testRouterConfig{})
	res := postJSONRequest(t, handler, "/v1/analyses", `{"profile_id": "wheelchair"}`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.Code)
	}
}

func TestGetAnalysisMapsNotFound(t *testing.T) {
	analysis := &fakeAnalysisService{
		getFn: func(_ context.Context, id string) (*domain.Analysis, error) {
			return nil, domain.WrapError(domain.ErrNotFound, "get analysis", errors.New("analysis not found: "+id))
		},
	}
	handler := newTestHandler(testRouterConfig{analysis: analysis})

	req := httptest.NewRequest(http.MethodGet, "/v1/analyses/missing", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", res.Code)
	}
}

func TestDescribeSceneMapsUpstreamFailureToGenericBody(t *testing.T) {
	analysis := &fakeAnalysisService{
		describeFn: func(context.Context, string, string) (domain.SceneDescription, error) {
			return domain.SceneDescription{}, domain.WrapError(domain.ErrUpstream, "gemini describe", errors.New("secret internal detail"))
		},
	}
	handler := newTestHandler(testRouterConfig{analysis: analysis})

	res := postJSONRequest(t, handler, "/v1/describe/scene", `{"image": "aGVsbG8="}`)
	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", res.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "service externe indisponible" {
		t.Errorf("error body = %q, upstream detail must not leak", body["error"])
	}
}

func TestDescribeCallsFeedRelayMetrics(t *testing.T) {
	analysis := &fakeAnalysisService{
		recommendFn: func(context.Context, string, string, *domain.UserProfile) (domain.Recommendation, error) {
			return domain.Recommendation{}, domain.WrapError(domain.ErrUpstream, "groq recommend", errors.New("down"))
		},
	}
	handler := newTestHandler(testRouterConfig{
		analysis: analysis,
		metrics:  metrics.NewHTTPServerMetrics("api"),
	})

	if res := postJSONRequest(t, handler, "/v1/describe/scene", `{"image": "aGVsbG8="}`); res.Code != http.StatusOK {
		t.Fatalf("describe status = %d", res.Code)
	}
	if res := postJSONRequest(t, handler, "/v1/describe/recommendation", `{"description": "trottoir"}`); res.Code != http.StatusServiceUnavailable {
		t.Fatalf("recommend status = %d", res.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", res.Code)
	}

	scrape := res.Body.String()
	for _, series := range []string{
		`v360_relay_requests_total{service="api",status="success",vendor="gemini"} 1`,
		`v360_relay_requests_total{service="api",status="error",vendor="groq"} 1`,
	} {
		if !strings.Contains(scrape, series) {
			t.Errorf("series %s missing from scrape", series)
		}
	}
	if !strings.Contains(scrape, `v360_relay_duration_seconds_count{service="api",vendor="gemini"} 1`) {
		t.Error("relay duration histogram not observed for gemini")
	}
}

func TestExportAnalysesProducesReadableWorkbook(t *testing.T) {
	created := time.Date(2026, 5, 30, 10, 0, 0, 0, time.UTC)
	analysis := &fakeAnalysisService{
		listFn: func(context.Context, int) ([]domain.Analysis, error) {
			return []domain.Analysis{
				{
					ID:          "a-1",
					ProfileID:   "wheelchair",
					Status:      domain.AnalysisReady,
					Description: "Un trottoir encombré",
					Recommendation: &domain.Recommendation{
						Summary: "Trottoir encombré",
						Risks:   []string{"Obstacle proche"},
						Actions: []string{"Ralentir"},
					},
					CreatedAt: created,
				},
			}, nil
		},
	}
	handler := newTestHandler(testRouterConfig{analysis: analysis})

	req := httptest.NewRequest(http.MethodGet, "/v1/analyses/export", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d", res.Code)
	}

	book, err := excelize.OpenReader(bytes.NewReader(res.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer book.Close()

	id, err := book.GetCellValue("Historique", "A2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if id != "a-1" {
		t.Errorf("A2 = %q, want a-1", id)
	}
	summary, _ := book.GetCellValue("Historique", "E2")
	if summary != "Trottoir encombré" {
		t.Errorf("E2 = %q", summary)
	}
}

func TestOpenAPIDocumentListsRoutes(t *testing.T) {
	handler := newTestHandler(testRouterConfig{})

	req := httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d", res.Code)
	}

	var doc struct {
		OpenAPI string                    `json:"openapi"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.OpenAPI != "3.0.3" {
		t.Errorf("openapi = %q", doc.OpenAPI)
	}
	for _, path := range []string{"/v1/guidance/advise", "/v1/analyses", "/v1/reservations"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("path %s missing from document", path)
		}
	}
}
