package relay

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/fotocoach/coachd/internal/models"
)

// Error is an upstream failure converted to the error taxonomy. Type is the
// contract callers branch on; Detail carries raw provider text for
// diagnostics.
type Error struct {
	Type   models.ErrorType
	Detail string
}

func (e *Error) Error() string {
	return string(e.Type) + ": " + e.Detail
}

// quota wording inside a 429 distinguishes exhausted billing from transient
// throttling; the provider uses one status code for both.
var quotaMarkers = []string{"quota", "limit exceeded", "billing", "spend"}

func mentionsQuota(message string) bool {
	for _, m := range quotaMarkers {
		if strings.Contains(message, m) {
			return true
		}
	}
	return false
}

// ClassifyProviderError maps an upstream failure to the taxonomy. It inspects
// status codes AND message text: a 429 alone is ambiguous between rate
// limiting and exhausted quota.
func ClassifyProviderError(err error) *Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, reqErr.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Type: models.ErrorUnknown, Detail: "upstream request timed out"}
	}
	detail := "unknown error"
	if err != nil {
		detail = err.Error()
	}
	return &Error{Type: models.ErrorUnknown, Detail: detail}
}

func classifyStatus(status int, message string) *Error {
	lower := strings.ToLower(message)
	switch {
	case status == http.StatusTooManyRequests && mentionsQuota(lower):
		return &Error{Type: models.ErrorQuotaExceeded, Detail: message}
	case status == http.StatusTooManyRequests:
		return &Error{Type: models.ErrorRateLimit, Detail: message}
	case status == 529 || strings.Contains(lower, "overloaded"):
		return &Error{Type: models.ErrorOverloaded, Detail: message}
	case status == http.StatusUnauthorized:
		return &Error{Type: models.ErrorAuth, Detail: message}
	}
	return &Error{Type: models.ErrorUnknown, Detail: message}
}

// HTTPStatus maps an error type to the response status. Throttle-shaped
// rejections get 429 so callers can back off; malformed input gets 400;
// everything else is a server-side 500.
func HTTPStatus(t models.ErrorType) int {
	switch t {
	case models.ErrorRateLimit, models.ErrorDailyLimit, models.ErrorMonthlyLimit:
		return http.StatusTooManyRequests
	case models.ErrorValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
