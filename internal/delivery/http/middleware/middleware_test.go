package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/apperror"
	"recruiter-platform/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type body struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   struct {
		Reason string `json:"reason"`
		Fields []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"fields"`
	} `json:"error"`
}

func serveError(t *testing.T, err error) (*httptest.ResponseRecorder, body) {
	t.Helper()
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/", func(c *gin.Context) { c.Error(err) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	var b body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	return w, b
}

func TestErrorHandlerAppError(t *testing.T) {
	w, b := serveError(t, apperror.Conflict("Job post already exists"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, b.Success)
	assert.Equal(t, "Job post already exists", b.Message)
	assert.Equal(t, apperror.ReasonDuplicateEntry, b.Error.Reason)
}

func TestErrorHandlerValidationFields(t *testing.T) {
	type input struct {
		JobTitle string `validate:"required"`
	}
	verr := validator.New().Struct(input{})
	require.Error(t, verr)

	w, b := serveError(t, apperror.Validation("Validation failed", verr))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.ReasonValidation, b.Error.Reason)
	require.Len(t, b.Error.Fields, 1)
	assert.Equal(t, "JobTitle", b.Error.Fields[0].Field)
	assert.Equal(t, "Job title is required", b.Error.Fields[0].Message)
}

func TestErrorHandlerDomainErrors(t *testing.T) {
	tests := []struct {
		err    error
		code   int
		reason string
	}{
		{fmt.Errorf("get: %w", domain.ErrNotFound), http.StatusNotFound, ""},
		{fmt.Errorf("%w: job_posts_name_version_key", domain.ErrDuplicate), http.StatusConflict, apperror.ReasonDuplicateEntry},
		{domain.ErrJobPostHasApplications, http.StatusConflict, apperror.ReasonJobPostHasApplications},
		{domain.ErrJobPostNotAvailable, http.StatusNotFound, apperror.ReasonJobPostNotAvailable},
	}
	for _, tt := range tests {
		w, b := serveError(t, tt.err)
		assert.Equal(t, tt.code, w.Code, tt.err.Error())
		assert.Equal(t, tt.reason, b.Error.Reason, tt.err.Error())
	}
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	w, b := serveError(t, errors.New("pq: password authentication failed"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, b.Message, "password")
}

func TestRequireRole(t *testing.T) {
	newRouter := func(role string) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) { c.Set(string(domain.KeyUserRole), role) })
		r.GET("/", RequireRole(domain.RoleRecruiter, domain.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	for role, want := range map[string]int{
		domain.RoleAdmin:     http.StatusOK,
		domain.RoleRecruiter: http.StatusOK,
		domain.RoleCandidate: http.StatusForbidden,
		"":                   http.StatusForbidden,
	} {
		w := httptest.NewRecorder()
		newRouter(role).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, want, w.Code, role)
	}
}

type stubVerifier struct {
	claims *auth.Claims
	err    error
}

func (s stubVerifier) Verify(string) (*auth.Claims, error) { return s.claims, s.err }

type stubAuth struct {
	domain.AuthUsecase
	role string
}

func (s stubAuth) EnsureUserExists(_ context.Context, u *domain.User) error {
	u.Role = s.role
	return nil
}

func TestAuthMiddleware(t *testing.T) {
	claims := &auth.Claims{Email: "a@b.c", TenantID: "acme", RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}}
	r := gin.New()
	r.Use(AuthMiddleware(stubVerifier{claims: claims}, stubAuth{role: domain.RoleRecruiter}))
	r.GET("/", func(c *gin.Context) {
		ctx := c.Request.Context()
		c.JSON(http.StatusOK, gin.H{
			"user":   ctx.Value(domain.KeyUserID),
			"role":   ctx.Value(domain.KeyUserRole),
			"tenant": c.GetString(string(domain.KeyTenantID)),
		})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"user-1","role":"recruiter","tenant":"acme"}`, w.Body.String())
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	r := gin.New()
	r.Use(AuthMiddleware(stubVerifier{err: errors.New("expired")}, stubAuth{}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "bad"})
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.example.com", "https://*.preview.example.com"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	preflight := func(origin string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", origin)
		r.ServeHTTP(w, req)
		return w
	}

	w := preflight("https://app.example.com")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	assert.Equal(t, http.StatusNoContent, preflight("https://pr-12.preview.example.com").Code)
	assert.Equal(t, http.StatusForbidden, preflight("https://evil.com").Code)
	assert.Equal(t, http.StatusForbidden, preflight("http://pr-12.preview.example.com").Code)
}

func TestRateLimitInMemory(t *testing.T) {
	cfg := RateLimitConfig{
		Limit:     2,
		Window:    time.Minute,
		KeyPrefix: "rl:test:" + t.Name() + ":",
		KeyFunc:   func(c *gin.Context) string { return c.ClientIP() },
	}
	r := gin.New()
	r.Use(RateLimitMiddleware(cfg))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
		if i == 2 {
			assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
