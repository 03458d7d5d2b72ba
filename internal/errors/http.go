package errors

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// ErrorDetail is the error body of an ErrorResponse.
type ErrorDetail struct {
	Message          string                 `json:"message"`
	InternalError    string                 `json:"internal_error,omitempty"`
	ReportableDetail map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse is the JSON envelope for failed requests.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// HTTPStatusFromErr maps an error's mark to an HTTP status code.
func HTTPStatusFromErr(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidOperation):
		return http.StatusBadRequest
	case errors.Is(err, ErrLimitExceeded):
		return http.StatusForbidden
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusUnauthorized
	case errors.Is(err, ErrHTTPClient):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorResponse builds the response envelope for an error. Internal causes
// are only included when includeInternal is set (non-production), keeping
// infrastructure detail out of user-visible responses.
func NewErrorResponse(err error, includeInternal bool) ErrorResponse {
	resp := ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Message: "something went wrong",
		},
	}

	var ie *InternalError
	if errors.As(err, &ie) {
		if ie.Hint() != "" {
			resp.Error.Message = ie.Hint()
		}
		resp.Error.ReportableDetail = ie.ReportableDetails()
		if includeInternal {
			resp.Error.InternalError = ie.Error()
		}
		return resp
	}

	if includeInternal && err != nil {
		resp.Error.InternalError = err.Error()
	}
	return resp
}
