package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/ports"
	"github.com/Yajiroobe/SAE-VISION360/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	guidance     ports.GuidanceService
	analysis     ports.SceneAnalysisService
	reservations ports.ReservationRepository
	profiles     ports.ProfileCatalog
	metrics      *metrics.HTTPServerMetrics
}

type RouterOptions struct {
	RateLimitRPS   float64
	RateLimitBurst int
	MaxInFlight    int
	MaxWait        time.Duration
}

func NewRouter(
	guidance ports.GuidanceService,
	analysis ports.SceneAnalysisService,
	reservations ports.ReservationRepository,
	profiles ports.ProfileCatalog,
	serverMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		guidance:     guidance,
		analysis:     analysis,
		reservations: reservations,
		profiles:     profiles,
		metrics:      serverMetrics,
	}
}

func (rt *Router) Handler(options RouterOptions) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", rt.healthz)
	mux.HandleFunc("/healthz", rt.healthz)

	mux.HandleFunc("/v1/guidance/enrich", rt.enrichDetection)
	mux.HandleFunc("/v1/guidance/enrich/batch", rt.enrichBatch)
	mux.HandleFunc("/v1/guidance/advise", rt.advise)
	mux.HandleFunc("/v1/guidance/stream", rt.streamGuidance)

	mux.HandleFunc("/v1/describe/scene", rt.describeScene)
	mux.HandleFunc("/v1/describe/recommendation", rt.recommend)

	mux.HandleFunc("/v1/analyses", rt.analyses)
	mux.HandleFunc("/v1/analyses/export", rt.exportAnalyses)
	mux.HandleFunc("/v1/analyses/", rt.getAnalysisByID)

	mux.HandleFunc("/v1/reservations", rt.reservationsCollection)
	mux.HandleFunc("/v1/reservations/", rt.reservationByID)

	mux.HandleFunc("/v1/profiles", rt.listProfiles)
	mux.HandleFunc("/v1/profiles/", rt.getProfileByID)

	mux.HandleFunc("/v1/openapi.json", rt.openAPIDocument)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	maxWait := options.MaxWait
	if maxWait <= 0 {
		maxWait = 2 * time.Second
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, options.MaxInFlight, maxWait)
	handler = rateLimitMiddleware(handler, options.RateLimitRPS, options.RateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = corsMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
