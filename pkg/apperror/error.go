package apperror

import "net/http"

// Stable reasons surfaced to API clients next to the HTTP status.
const (
	ReasonDuplicateEntry         = "DUPLICATE_ENTRY"
	ReasonJobPostHasApplications = "JOB_POST_HAS_APPLICATIONS"
	ReasonJobPostNotAvailable    = "JOB_POST_NOT_AVAILABLE"
	ReasonValidation             = "VALIDATION_ERROR"
)

type AppError struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithReason returns a copy of e tagged with a stable reason code.
func (e *AppError) WithReason(reason string) *AppError {
	cp := *e
	cp.Reason = reason
	return &cp
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

func Validation(message string, err error) *AppError {
	return New(http.StatusBadRequest, message, err).WithReason(ReasonValidation)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, message, nil).WithReason(ReasonDuplicateEntry)
}

func TooManyRequests(message string) *AppError {
	return New(http.StatusTooManyRequests, message, nil)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}
