// Package llm holds the pieces shared by the external model relay
// adapters: the HTTP status error type and its resilience classification.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
	"github.com/Yajiroobe/SAE-VISION360/internal/infrastructure/resilience"
)

// HTTPStatusError is a non-2xx vendor response.
type HTTPStatusError struct {
	Vendor     string
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "vendor status error"
	}
	if e.Body == "" {
		return fmt.Sprintf("%s %s status: %s", e.Vendor, e.Operation, e.Status)
	}
	return fmt.Sprintf("%s %s status: %s: %s", e.Vendor, e.Operation, e.Status, e.Body)
}

// ClassifyVendorError decides retry/record behavior for relay failures:
// cancelled contexts are neither, transport errors and 5xx/429 are both,
// other statuses and parse failures are terminal.
func ClassifyVendorError(err error) resilience.Verdict {
	if err == nil {
		return resilience.Verdict{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.Verdict{}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.Verdict{Retryable: true, RecordFailure: true}
	}
	if domain.IsKind(err, domain.ErrParse) {
		return resilience.Verdict{}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		if retryableStatus(statusErr.StatusCode) {
			return resilience.Verdict{Retryable: true, RecordFailure: true}
		}
		return resilience.Verdict{}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.Verdict{Retryable: true, RecordFailure: true}
	}

	return resilience.Verdict{RecordFailure: true}
}

// WrapUpstream tags relay failures with the right error kind: parse
// failures keep theirs, everything else is an upstream failure.
func WrapUpstream(operation string, err error) error {
	if err == nil {
		return nil
	}
	if domain.IsKind(err, domain.ErrParse) || domain.IsKind(err, domain.ErrUpstream) {
		return err
	}
	if resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return domain.WrapError(domain.ErrUpstream, operation, err)
}

func retryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests,
		http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// StripDataURI removes a "data:image/...;base64," prefix when present.
func StripDataURI(payload string) string {
	trimmed := strings.TrimSpace(payload)
	if idx := strings.Index(trimmed, ","); idx >= 0 && strings.HasPrefix(trimmed, "data:") {
		return trimmed[idx+1:]
	}
	return trimmed
}
