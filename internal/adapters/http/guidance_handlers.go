package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
	"github.com/Yajiroobe/SAE-VISION360/internal/core/usecase"
)

// detectionPayload is the wire form of a detection. Zone and side may be
// given directly or derived server-side from the normalized bounding box.
type detectionPayload struct {
	Class   string              `json:"class"`
	Score   float64             `json:"score"`
	Zone    string              `json:"zone,omitempty"`
	Side    string              `json:"side,omitempty"`
	OCR     string              `json:"ocr,omitempty"`
	Context string              `json:"context,omitempty"`
	Box     *domain.BoundingBox `json:"box,omitempty"`
}

func (p detectionPayload) toDomain() (domain.Detection, error) {
	det := domain.Detection{
		ClassName: p.Class,
		Score:     p.Score,
		Zone:      domain.Zone(p.Zone),
		Side:      domain.Side(p.Side),
		OCR:       p.OCR,
		Context:   p.Context,
	}
	if p.Box != nil {
		if det.Zone == "" {
			zone, err := usecase.ClassifyZone(*p.Box)
			if err != nil {
				return domain.Detection{}, err
			}
			det.Zone = zone
		}
		if det.Side == "" {
			side, err := usecase.ClassifySide(*p.Box)
			if err != nil {
				return domain.Detection{}, err
			}
			det.Side = side
		}
	}
	return det, nil
}

func toDomainDetections(payloads []detectionPayload) ([]domain.Detection, error) {
	dets := make([]domain.Detection, 0, len(payloads))
	for _, p := range payloads {
		det, err := p.toDomain()
		if err != nil {
			return nil, err
		}
		dets = append(dets, det)
	}
	return dets, nil
}

func (rt *Router) enrichDetection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Detection detectionPayload `json:"detection"`
		Profile   string           `json:"profile"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	det, err := req.Detection.toDomain()
	if err != nil {
		writeError(w, err)
		return
	}

	enrichment, err := rt.guidance.Enrich(det, req.Profile)
	if err != nil {
		if rt.metrics != nil {
			rt.metrics.RecordEnrichItems(serviceName, 0, 1)
		}
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordEnrichItems(serviceName, 1, 0)
	}
	writeJSON(w, http.StatusOK, enrichment)
}

func (rt *Router) enrichBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Detections []detectionPayload `json:"detections"`
		Profile    string             `json:"profile"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	// Box classification failures are positional item errors, the rest of
	// the batch still goes through.
	dets := make([]domain.Detection, len(req.Detections))
	boxErrors := make([]string, len(req.Detections))
	for i, p := range req.Detections {
		det, err := p.toDomain()
		if err != nil {
			boxErrors[i] = err.Error()
			continue
		}
		dets[i] = det
	}

	items := rt.guidance.EnrichBatch(dets, req.Profile)
	ok, failed := 0, 0
	for i := range items {
		if boxErrors[i] != "" {
			items[i] = domain.BatchItem{Error: boxErrors[i]}
		}
		if items[i].Error != "" {
			failed++
		} else {
			ok++
		}
	}
	if rt.metrics != nil {
		rt.metrics.RecordEnrichItems(serviceName, ok, failed)
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (rt *Router) advise(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Detections  []detectionPayload  `json:"detections"`
		ProfileID   string              `json:"profile_id"`
		Profile     *domain.UserProfile `json:"profile"`
		Context     string              `json:"context"`
		Enrichments []domain.Enrichment `json:"enrichments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	dets, err := toDomainDetections(req.Detections)
	if err != nil {
		writeError(w, err)
		return
	}

	profile := rt.resolveProfile(req.ProfileID, req.Profile)
	advisory, err := rt.guidance.Advise(profile, req.Context, dets, req.Enrichments)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordAdvisory(serviceName, string(advisory.Priority))
	}
	writeJSON(w, http.StatusOK, advisory)
}

// resolveProfile prefers the inline profile; a catalogue miss degrades to
// a profile whose mobility tag is the requested id, as the rule tables key
// on mobility.
func (rt *Router) resolveProfile(profileID string, override *domain.UserProfile) domain.UserProfile {
	if override != nil {
		return *override
	}
	if profileID == "" {
		if rt.profiles != nil {
			if p, ok := rt.profiles.Get("default"); ok {
				return p
			}
		}
		return domain.UserProfile{}
	}
	if rt.profiles != nil {
		if p, ok := rt.profiles.Get(profileID); ok {
			return p
		}
	}
	return domain.UserProfile{Mobility: profileID}
}

func (rt *Router) getProfileByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/profiles/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "profile id is required"})
		return
	}
	if rt.profiles == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found: " + id})
		return
	}
	profile, ok := rt.profiles.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found: " + id})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (rt *Router) listProfiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if rt.profiles == nil {
		writeJSON(w, http.StatusOK, map[string]any{"profiles": []string{}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profiles": rt.profiles.IDs()})
}
