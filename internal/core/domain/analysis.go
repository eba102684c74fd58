package domain

import "time"

// SceneDescription is the free-text result of the vision-description
// relay, together with the model and prompt that produced it.
type SceneDescription struct {
	Text   string `json:"text"`
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// Recommendation is the structured advice returned by the
// language-recommendation relay. The core only checks that it parses into
// this shape; malformed vendor payloads surface as a parse failure.
type Recommendation struct {
	Summary string   `json:"summary"`
	Risks   []string `json:"risks"`
	Actions []string `json:"actions"`
}

type AnalysisStatus string

const (
	AnalysisPending    AnalysisStatus = "pending"
	AnalysisProcessing AnalysisStatus = "processing"
	AnalysisReady      AnalysisStatus = "ready"
	AnalysisFailed     AnalysisStatus = "failed"
)

// Analysis is one captured frame going through the asynchronous
// describe -> recommend pipeline.
type Analysis struct {
	ID             string          `json:"id"`
	ProfileID      string          `json:"profile_id"`
	Prompt         string          `json:"prompt"`
	FramePath      string          `json:"frame_path"`
	Description    string          `json:"description,omitempty"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
	Status         AnalysisStatus  `json:"status"`
	Error          string          `json:"error,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
