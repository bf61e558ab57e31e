package middleware

import (
	"context"
	"net/http"
	"strings"

	"recruiter-platform/internal/delivery/http/response"
	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/auth"
	"recruiter-platform/pkg/security"

	"github.com/gin-gonic/gin"
)

// TokenVerifier is satisfied by *auth.Verifier.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthMiddleware verifies the bearer token (or auth_token cookie) and loads
// the caller's role and tenant from the users table. The role claim in the
// token is never trusted.
func AuthMiddleware(verifier TokenVerifier, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string
		if header := c.GetHeader("Authorization"); header != "" {
			tokenString = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		} else if cookie, err := c.Cookie("auth_token"); err == nil {
			tokenString = cookie
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
				Event:     security.EventUnauthorizedAccess,
				IP:        c.ClientIP(),
				RequestID: c.GetString(RequestIDKey),
				Details:   map[string]any{"reason": "invalid_token", "path": c.FullPath()},
			})
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		user := &domain.User{ID: claims.Subject, Email: claims.Email}
		if claims.TenantID != "" {
			tenant := claims.TenantID
			user.TenantID = &tenant
		}
		// First sight of a subject provisions a candidate account.
		if err := authUC.EnsureUserExists(c.Request.Context(), user); err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		role := user.Role
		if role == "" {
			role = domain.RoleCandidate
		}

		c.Set(string(domain.KeyUserID), user.ID)
		c.Set(string(domain.KeyUserEmail), user.Email)
		c.Set(string(domain.KeyUserRole), role)
		if user.TenantID != nil {
			c.Set(string(domain.KeyTenantID), *user.TenantID)
		}

		// Usecases read the caller from the request context.
		ctx := context.WithValue(c.Request.Context(), domain.KeyUserID, user.ID)
		ctx = context.WithValue(ctx, domain.KeyUserRole, role)
		if user.TenantID != nil {
			ctx = context.WithValue(ctx, domain.KeyTenantID, *user.TenantID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole lets only the listed roles through.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := c.GetString(string(domain.KeyUserRole))
		if _, ok := allowed[role]; !ok {
			security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
				Event:       security.EventForbiddenAccess,
				ActorID:     c.GetString(string(domain.KeyUserID)),
				SubjectType: "route",
				SubjectID:   c.FullPath(),
				IP:          c.ClientIP(),
				RequestID:   c.GetString(RequestIDKey),
				Details:     map[string]any{"role": role},
			})
			response.Error(c, http.StatusForbidden, "You do not have permission to perform this action", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
