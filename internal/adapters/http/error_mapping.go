package httpadapter

import (
	"net/http"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrParse):
		return http.StatusBadGateway
	case domain.IsKind(err, domain.ErrUpstream), domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage hides upstream detail behind a generic body; validation
// and not-found errors keep their text so the client can act on it.
func errorMessage(status int, err error) string {
	switch status {
	case http.StatusBadRequest, http.StatusNotFound:
		return err.Error()
	case http.StatusBadGateway:
		return "réponse du service externe illisible"
	case http.StatusServiceUnavailable:
		return "service externe indisponible"
	default:
		return "erreur interne"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := mapErrorToHTTPStatus(err)
	writeJSON(w, status, map[string]string{"error": errorMessage(status, err)})
}
