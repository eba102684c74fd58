package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
)

func (rt *Router) describeScene(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Image  string `json:"image"`
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Image) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image is required"})
		return
	}

	start := time.Now()
	description, err := rt.analysis.DescribeScene(r.Context(), req.Image, req.Prompt)
	if rt.metrics != nil {
		rt.metrics.RecordRelayCall(serviceName, "gemini", time.Since(start), err)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, description)
}

func (rt *Router) recommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Description string              `json:"description"`
		ProfileID   string              `json:"profile_id"`
		Profile     *domain.UserProfile `json:"profile"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "description is required"})
		return
	}

	start := time.Now()
	rec, err := rt.analysis.Recommend(r.Context(), req.Description, req.ProfileID, req.Profile)
	if rt.metrics != nil {
		rt.metrics.RecordRelayCall(serviceName, "groq", time.Since(start), err)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
