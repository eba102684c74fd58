package httpadapter

import (
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

var buildOpenAPIDocument = sync.OnceValue(func() *openapi3.T {
	jsonBody := func(description string) *openapi3.ResponseRef {
		return &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription(description).
				WithContent(openapi3.NewContentWithJSONSchema(openapi3.NewObjectSchema())),
		}
	}
	jsonOp := func(summary string, status int, description string) *openapi3.Operation {
		op := openapi3.NewOperation()
		op.Summary = summary
		op.Responses = openapi3.NewResponses()
		op.Responses.Set(statusKey(status), jsonBody(description))
		return op
	}

	paths := openapi3.NewPaths(
		openapi3.WithPath("/health", &openapi3.PathItem{
			Get: jsonOp("Liveness probe", http.StatusOK, "Service status"),
		}),
		openapi3.WithPath("/v1/guidance/enrich", &openapi3.PathItem{
			Post: jsonOp("Enrich a single detection", http.StatusOK, "Enrichment"),
		}),
		openapi3.WithPath("/v1/guidance/enrich/batch", &openapi3.PathItem{
			Post: jsonOp("Enrich a batch of detections with positional error isolation", http.StatusOK, "Batch items"),
		}),
		openapi3.WithPath("/v1/guidance/advise", &openapi3.PathItem{
			Post: jsonOp("Produce a prioritized advisory for a detection batch", http.StatusOK, "Advisory"),
		}),
		openapi3.WithPath("/v1/describe/scene", &openapi3.PathItem{
			Post: jsonOp("Describe a captured frame through the vision relay", http.StatusOK, "Scene description"),
		}),
		openapi3.WithPath("/v1/describe/recommendation", &openapi3.PathItem{
			Post: jsonOp("Turn a description into structured advice", http.StatusOK, "Recommendation"),
		}),
		openapi3.WithPath("/v1/analyses", &openapi3.PathItem{
			Post: jsonOp("Queue a frame for asynchronous analysis", http.StatusAccepted, "Pending analysis"),
			Get:  jsonOp("List analyses", http.StatusOK, "Analyses"),
		}),
		openapi3.WithPath("/v1/analyses/export", &openapi3.PathItem{
			Get: jsonOp("Export the analysis history as an xlsx workbook", http.StatusOK, "Workbook"),
		}),
		openapi3.WithPath("/v1/analyses/{analysis_id}", &openapi3.PathItem{
			Get: jsonOp("Fetch one analysis report", http.StatusOK, "Analysis"),
		}),
		openapi3.WithPath("/v1/reservations", &openapi3.PathItem{
			Post: jsonOp("Create an adapted-transport reservation", http.StatusCreated, "Reservation"),
			Get:  jsonOp("List reservations", http.StatusOK, "Reservations"),
		}),
		openapi3.WithPath("/v1/reservations/{reservation_id}", &openapi3.PathItem{
			Get: jsonOp("Fetch one reservation", http.StatusOK, "Reservation"),
		}),
		openapi3.WithPath("/v1/reservations/{reservation_id}/status", &openapi3.PathItem{
			Patch: jsonOp("Update a reservation status", http.StatusOK, "Reservation"),
		}),
		openapi3.WithPath("/v1/profiles", &openapi3.PathItem{
			Get: jsonOp("List profile ids", http.StatusOK, "Profile ids"),
		}),
		openapi3.WithPath("/v1/profiles/{profile_id}", &openapi3.PathItem{
			Get: jsonOp("Fetch one user profile", http.StatusOK, "Profile"),
		}),
	)

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Vision360 API",
			Description: "Guidance, scene analysis and reservation API for PMR mobility assistance.",
			Version:     "1.0.0",
		},
		Paths: paths,
	}
})

func statusKey(status int) string {
	switch status {
	case http.StatusOK:
		return "200"
	case http.StatusCreated:
		return "201"
	case http.StatusAccepted:
		return "202"
	default:
		return "default"
	}
}

func (rt *Router) openAPIDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, buildOpenAPIDocument())
}
