package v1

import (
	"net/http"

	"recruiter-platform/internal/delivery/http/middleware"
	"recruiter-platform/internal/delivery/http/response"
	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/security"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

func NewAuthHandler(protected *gin.RouterGroup, authUC domain.AuthUsecase) {
	handler := &AuthHandler{authUC: authUC}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.POST("/sync", handler.SyncProfile)
		protectedAuth.GET("/me", handler.Me)
	}

	admin := protected.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	{
		admin.PUT("/users/:id/role", handler.AssignRole)
	}
}

// SyncProfile godoc
// @Summary      Sync the caller into the users table
// @Description  Creates the local user on first login. The auth middleware already does this; the endpoint lets clients force it and read the result.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /auth/sync [post]
// @Security     BearerAuth
func (h *AuthHandler) SyncProfile(c *gin.Context) {
	user := &domain.User{
		ID:       currentUserID(c),
		Email:    c.GetString(string(domain.KeyUserEmail)),
		TenantID: currentTenant(c),
	}
	if err := h.authUC.EnsureUserExists(c.Request.Context(), user); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User synced", user)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      404  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User retrieved", user)
}

type AssignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// AssignRole godoc
// @Summary      Assign a role to a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User ID"
// @Param        role  body      AssignRoleRequest  true  "Role"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /admin/users/{id}/role [put]
// @Security     BearerAuth
func (h *AuthHandler) AssignRole(c *gin.Context) {
	var req AssignRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	targetID := c.Param("id")
	if err := h.authUC.AssignRole(c.Request.Context(), targetID, req.Role); err != nil {
		c.Error(err)
		return
	}

	security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
		Event:       security.EventRoleAssigned,
		ActorID:     currentUserID(c),
		SubjectType: "user",
		SubjectID:   targetID,
		IP:          c.ClientIP(),
		RequestID:   c.GetString(middleware.RequestIDKey),
		Details:     map[string]any{"role": req.Role},
	})
	response.Success(c, http.StatusOK, "Role assigned", gin.H{"user_id": targetID, "role": req.Role})
}
