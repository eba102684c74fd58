package httpadapter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
)

func postJSONRequest(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func TestEnrichEndpointClassifiesFromBox(t *testing.T) {
	handler := newTestHandler(testRouterConfig{})

	// Area 0.36 > 0.08 puts the detection near; x_center 0.2 is left.
	res := postJSONRequest(t, handler, "/v1/guidance/enrich", `{
		"detection": {
			"class": "stairs",
			"score": 0.92,
			"box": {"x_center": 0.2, "y_center": 0.5, "width": 0.6, "height": 0.6}
		}
	}`)
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", res.Code, res.Body.String())
	}

	var enrichment domain.Enrichment
	if err := json.Unmarshal(res.Body.Bytes(), &enrichment); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if enrichment.Summary != "Escalier" {
		t.Errorf("summary = %q", enrichment.Summary)
	}
	if enrichment.Zone != domain.ZoneNear || enrichment.Side != domain.SideLeft {
		t.Errorf("zone/side = %s/%s, want near/left", enrichment.Zone, enrichment.Side)
	}
	if len(enrichment.Risks) != 2 {
		t.Errorf("risks = %v", enrichment.Risks)
	}
}

func TestEnrichEndpointRejectsInvalidBox(t *testing.T) {
	handler := newTestHandler(testRouterConfig{})

	res := postJSONRequest(t, handler, "/v1/guidance/enrich", `{
		"detection": {
			"class": "stairs",
			"score": 0.9,
			"box": {"x_center": 0.5, "y_center": 0.5, "width": 0, "height": 0.5}
		}
	}`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.Code)
	}
}

func TestEnrichBatchEndpointIsolatesItemErrors(t *testing.T) {
	handler := newTestHandler(testRouterConfig{})

	res := postJSONRequest(t, handler, "/v1/guidance/enrich/batch", `{
		"detections": [
			{"class": "person", "score": 0.8, "zone": "near", "side": "left"},
			{"class": "", "score": 0.5},
			{"class": "door", "score": 1.4},
			{"class": "shop", "score": 0.7, "box": {"x_center": 0.9, "y_center": 0.4, "width": 0.1, "height": 0.1}}
		]
	}`)
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", res.Code, res.Body.String())
	}

	var body struct {
		Items []domain.BatchItem `json:"items"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Items) != 4 {
		t.Fatalf("items = %d, want 4", len(body.Items))
	}
	if body.Items[0].Enrichment == nil || body.Items[0].Error != "" {
		t.Errorf("item 0 should succeed: %+v", body.Items[0])
	}
	if body.Items[1].Error == "" || body.Items[2].Error == "" {
		t.Errorf("items 1 and 2 should fail: %+v, %+v", body.Items[1], body.Items[2])
	}
	if body.Items[3].Enrichment == nil {
		t.Fatalf("item 3 should succeed: %+v", body.Items[3])
	}
	if body.Items[3].Enrichment.Side != domain.SideRight {
		t.Errorf("item 3 side = %s, want right", body.Items[3].Enrichment.Side)
	}
}

func TestAdviseEndpointEscalatesNearObstacle(t *testing.T) {
	handler := newTestHandler(testRouterConfig{})

	res := postJSONRequest(t, handler, "/v1/guidance/advise", `{
		"detections": [
			{"class": "person", "score": 0.9, "zone": "near", "side": "left"}
		]
	}`)
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", res.Code, res.Body.String())
	}

	var advisory domain.Advisory
	if err := json.Unmarshal(res.Body.Bytes(), &advisory); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if advisory.Priority != domain.PriorityHigh {
		t.Errorf("priority = %s, want high", advisory.Priority)
	}
	if len(advisory.Messages) == 0 || !strings.Contains(advisory.Messages[0], "Obstacle person left") {
		t.Errorf("messages = %v", advisory.Messages)
	}
	if len(advisory.Channels) != 2 {
		t.Errorf("channels = %v, want voice+haptic", advisory.Channels)
	}
}

func TestAdviseEndpointResolvesProfileFromCatalog(t *testing.T) {
	handler := newTestHandler(testRouterConfig{
		profiles: map[string]domain.UserProfile{
			"wheelchair": {Name: "Fauteuil", Mobility: "wheelchair"},
		},
	})

	res := postJSONRequest(t, handler, "/v1/guidance/advise", `{
		"profile_id": "wheelchair",
		"detections": [
			{"class": "stairs", "score": 0.9, "zone": "far", "side": "center"}
		]
	}`)
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", res.Code, res.Body.String())
	}

	var advisory domain.Advisory
	if err := json.Unmarshal(res.Body.Bytes(), &advisory); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// The wheelchair rule marks stairs impassable, which is critical
	// vocabulary even far away.
	if advisory.Priority != domain.PriorityHigh {
		t.Errorf("priority = %s, want high", advisory.Priority)
	}
	joined := strings.Join(advisory.Messages, " | ")
	if !strings.Contains(joined, "impraticable") {
		t.Errorf("messages = %v", advisory.Messages)
	}
}

func TestProfileEndpoints(t *testing.T) {
	handler := newTestHandler(testRouterConfig{
		profiles: map[string]domain.UserProfile{
			"default": {Name: "Profil par défaut"},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles/default", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("get profile status = %d", res.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/profiles/absent", nil)
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusNotFound {
		t.Fatalf("missing profile status = %d, want 404", res.Code)
	}
}
