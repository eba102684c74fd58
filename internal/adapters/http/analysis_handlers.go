package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

func (rt *Router) analyses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.submitAnalysis(w, r)
	case http.MethodGet:
		rt.listAnalyses(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) submitAnalysis(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Image     string `json:"image"`
		ProfileID string `json:"profile_id"`
		Prompt    string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Image) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image is required"})
		return
	}

	analysis, err := rt.analysis.Submit(r.Context(), req.Image, req.ProfileID, req.Prompt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, analysis)
}

func (rt *Router) listAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	analyses, err := rt.analysis.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": analyses})
}

func (rt *Router) getAnalysisByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/analyses/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "analysis id is required"})
		return
	}

	analysis, err := rt.analysis.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// exportAnalyses streams the history as an xlsx workbook, one row per
// analysis.
func (rt *Router) exportAnalyses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	analyses, err := rt.analysis.List(r.Context(), 0)
	if err != nil {
		writeError(w, err)
		return
	}

	book := excelize.NewFile()
	defer book.Close()

	const sheet = "Historique"
	index, err := book.NewSheet(sheet)
	if err != nil {
		writeError(w, err)
		return
	}
	book.SetActiveSheet(index)
	_ = book.DeleteSheet("Sheet1")

	headers := []string{"ID", "Profil", "Statut", "Description", "Résumé", "Risques", "Actions", "Créé le"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = book.SetCellValue(sheet, cell, header)
	}

	for row, analysis := range analyses {
		values := []any{
			analysis.ID,
			analysis.ProfileID,
			string(analysis.Status),
			analysis.Description,
			"",
			"",
			"",
			analysis.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if rec := analysis.Recommendation; rec != nil {
			values[4] = rec.Summary
			values[5] = strings.Join(rec.Risks, "; ")
			values[6] = strings.Join(rec.Actions, "; ")
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = book.SetCellValue(sheet, cell, value)
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="analyses.xlsx"`)
	if err := book.Write(w); err != nil {
		// The response is already partially written, nothing to send back.
		slog.Error("export write failed",
			"request_id", requestIDFromContext(r.Context()),
			"error", err,
		)
	}
}
