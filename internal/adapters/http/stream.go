package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
)

var streamUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Same open policy as the CORS middleware.
	CheckOrigin: func(*http.Request) bool { return true },
}

type streamRequest struct {
	Detections []detectionPayload  `json:"detections"`
	ProfileID  string              `json:"profile_id"`
	Profile    *domain.UserProfile `json:"profile"`
	Context    string              `json:"context"`
}

type streamResponse struct {
	Advisory *domain.Advisory `json:"advisory,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// streamGuidance serves a request/response advisory loop over one
// websocket connection. Each frame is handled independently; a bad frame
// produces an error frame, not a disconnect.
func (rt *Router) streamGuidance(w http.ResponseWriter, r *http.Request) {
	conn, err := streamUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}
	defer conn.Close()

	if rt.metrics != nil {
		rt.metrics.StreamOpened()
		defer rt.metrics.StreamClosed()
	}

	requestID := requestIDFromContext(r.Context())
	for {
		var req streamRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("guidance stream closed unexpectedly", "request_id", requestID, "error", err)
			}
			return
		}

		response := rt.adviseFrame(req)
		if err := conn.WriteJSON(response); err != nil {
			slog.Warn("guidance stream write failed", "request_id", requestID, "error", err)
			return
		}
	}
}

func (rt *Router) adviseFrame(req streamRequest) streamResponse {
	dets, err := toDomainDetections(req.Detections)
	if err != nil {
		return streamResponse{Error: err.Error()}
	}

	profile := rt.resolveProfile(req.ProfileID, req.Profile)
	advisory, err := rt.guidance.Advise(profile, req.Context, dets, nil)
	if err != nil {
		return streamResponse{Error: err.Error()}
	}
	if rt.metrics != nil {
		rt.metrics.RecordAdvisory(serviceName, string(advisory.Priority))
	}
	return streamResponse{Advisory: &advisory}
}
