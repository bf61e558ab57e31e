package middleware

import (
	"errors"
	"net/http"

	"recruiter-platform/internal/delivery/http/response"
	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/apperror"
	"recruiter-platform/pkg/logger"
	"recruiter-platform/pkg/validation"

	"github.com/gin-gonic/gin"
)

// ErrorDetail is the "error" member of a failed response.
type ErrorDetail struct {
	Reason string                  `json:"reason,omitempty"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

// ErrorHandler renders the last error a handler attached with c.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		code, message, detail := classify(err)
		if code >= http.StatusInternalServerError {
			// Never expose internal details to clients.
			logger.Log.Error("request failed",
				"error", err,
				"method", c.Request.Method,
				"path", c.FullPath(),
				"request_id", c.GetString(RequestIDKey),
			)
		}
		response.Error(c, code, message, detail)
	}
}

func classify(err error) (int, string, *ErrorDetail) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		var detail *ErrorDetail
		if appErr.Reason != "" {
			detail = &ErrorDetail{Reason: appErr.Reason}
			if appErr.Reason == apperror.ReasonValidation && appErr.Err != nil {
				detail.Fields = validation.FormatValidationErrors(appErr.Err)
			}
		}
		message := appErr.Message
		if appErr.Code >= http.StatusInternalServerError {
			message = "An unexpected error occurred. Please try again later."
		}
		return appErr.Code, message, detail
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Resource not found", nil
	case errors.Is(err, domain.ErrDuplicate):
		return http.StatusConflict, "Resource already exists", &ErrorDetail{Reason: apperror.ReasonDuplicateEntry}
	case errors.Is(err, domain.ErrJobPostHasApplications):
		return http.StatusConflict, domain.ErrJobPostHasApplications.Error(),
			&ErrorDetail{Reason: apperror.ReasonJobPostHasApplications}
	case errors.Is(err, domain.ErrJobPostNotAvailable):
		return http.StatusNotFound, "Job post is not available", &ErrorDetail{Reason: apperror.ReasonJobPostNotAvailable}
	case errors.Is(err, domain.ErrForeignKeyConstraint):
		return http.StatusConflict, "The resource is referenced by other records", nil
	}
	return http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil
}
