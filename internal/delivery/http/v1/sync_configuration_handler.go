package v1

import (
	"net/http"

	"recruiter-platform/internal/delivery/http/middleware"
	"recruiter-platform/internal/delivery/http/response"
	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/security"

	"github.com/gin-gonic/gin"
)

type SyncConfigurationHandler struct {
	syncUC domain.SyncConfigurationUsecase
}

func NewSyncConfigurationHandler(protected *gin.RouterGroup, syncUC domain.SyncConfigurationUsecase) {
	handler := &SyncConfigurationHandler{syncUC: syncUC}

	sync := protected.Group("/sync", middleware.RequireRole(domain.RoleAdmin))
	{
		sync.GET("/configurations", handler.List)
		sync.GET("/configurations/:entityType", handler.Get)
		sync.PUT("/configurations/:entityType", handler.Update)
		sync.POST("/targets", middleware.RateLimitMiddleware(middleware.SyncRateLimitConfig()), handler.Targets)
	}
}

// List godoc
// @Summary      Sync policy of every entity type
// @Tags         sync
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.EntitySyncConfiguration}
// @Router       /sync/configurations [get]
// @Security     BearerAuth
func (h *SyncConfigurationHandler) List(c *gin.Context) {
	configs, err := h.syncUC.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Sync configurations retrieved", configs)
}

// Get godoc
// @Summary      Sync policy of one entity type
// @Tags         sync
// @Produce      json
// @Param        entityType  path      string  true  "Entity type, e.g. JobPost"
// @Success      200         {object}  response.Response{data=domain.EntitySyncConfiguration}
// @Router       /sync/configurations/{entityType} [get]
// @Security     BearerAuth
func (h *SyncConfigurationHandler) Get(c *gin.Context) {
	cfg, err := h.syncUC.Get(c.Request.Context(), c.Param("entityType"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Sync configuration retrieved", cfg)
}

// Update godoc
// @Summary      Change the sync policy of an entity type
// @Tags         sync
// @Accept       json
// @Produce      json
// @Param        entityType  path      string                               true  "Entity type"
// @Param        policy      body      domain.UpdateSyncConfigurationInput  true  "Policy fields to change"
// @Success      200         {object}  response.Response{data=domain.EntitySyncConfiguration}
// @Router       /sync/configurations/{entityType} [put]
// @Security     BearerAuth
func (h *SyncConfigurationHandler) Update(c *gin.Context) {
	entityType := c.Param("entityType")
	var input domain.UpdateSyncConfigurationInput
	if !bindJSON(c, &input) {
		return
	}
	cfg, err := h.syncUC.Update(c.Request.Context(), entityType, &input)
	if err != nil {
		c.Error(err)
		return
	}
	security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
		Event:       security.EventSyncPolicyUpdated,
		ActorID:     currentUserID(c),
		SubjectType: "entity_sync_configuration",
		SubjectID:   entityType,
		IP:          c.ClientIP(),
		RequestID:   c.GetString(middleware.RequestIDKey),
		Details: map[string]any{
			"sync_scope": cfg.SyncScope,
			"is_enabled": cfg.IsEnabled,
		},
	})
	response.Success(c, http.StatusOK, "Sync configuration updated", cfg)
}

// Targets godoc
// @Summary      Regions a change would replicate to
// @Description  Dry run of the sync policy for one message. Nothing is published.
// @Tags         sync
// @Accept       json
// @Produce      json
// @Param        message  body      domain.SyncMessage  true  "Sync message"
// @Success      200      {object}  response.Response{data=[]string}
// @Failure      503      {object}  response.Response
// @Router       /sync/targets [post]
// @Security     BearerAuth
func (h *SyncConfigurationHandler) Targets(c *gin.Context) {
	var msg domain.SyncMessage
	if !bindJSON(c, &msg) {
		return
	}
	targets, err := h.syncUC.DetermineTargets(c.Request.Context(), &msg)
	if err != nil {
		c.Error(err)
		return
	}
	if targets == nil {
		targets = []string{}
	}
	response.Success(c, http.StatusOK, "Target regions determined", targets)
}
