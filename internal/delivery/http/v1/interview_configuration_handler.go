package v1

import (
	"net/http"

	"recruiter-platform/internal/delivery/http/middleware"
	"recruiter-platform/internal/delivery/http/response"
	"recruiter-platform/internal/domain"

	"github.com/gin-gonic/gin"
)

type InterviewConfigurationHandler struct {
	configUC domain.InterviewConfigurationUsecase
}

func NewInterviewConfigurationHandler(protected *gin.RouterGroup, configUC domain.InterviewConfigurationUsecase) {
	handler := &InterviewConfigurationHandler{configUC: configUC}

	configs := protected.Group("/interview-configurations", middleware.RequireRole(domain.RoleRecruiter, domain.RoleAdmin))
	{
		configs.GET("", handler.List)
		configs.POST("", handler.Create)
		configs.GET("/:name/latest", handler.GetLatest)
		configs.GET("/:name/versions/:version", handler.Get)
		configs.PUT("/:name/versions/:version", handler.Update)
		configs.DELETE("/:name/versions/:version", handler.Delete)
	}
}

// Create godoc
// @Summary      Create an interview configuration
// @Tags         interview-configurations
// @Accept       json
// @Produce      json
// @Param        config  body      domain.InterviewConfigurationInput  true  "Configuration"
// @Success      201     {object}  response.Response{data=domain.InterviewConfiguration}
// @Failure      400     {object}  response.Response
// @Router       /interview-configurations [post]
// @Security     BearerAuth
func (h *InterviewConfigurationHandler) Create(c *gin.Context) {
	var input domain.InterviewConfigurationInput
	if !bindJSON(c, &input) {
		return
	}
	cfg, err := h.configUC.Create(c.Request.Context(), currentUserID(c), currentTenant(c), &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Interview configuration created", cfg)
}

// List godoc
// @Summary      List interview configurations
// @Tags         interview-configurations
// @Produce      json
// @Param        search       query     string  false  "Matches name"
// @Param        active_only  query     bool    false  "Only active configurations"
// @Param        page         query     int     false  "Page number"
// @Param        page_size    query     int     false  "Page size"
// @Success      200          {object}  response.Response{data=domain.PaginatedResult[domain.InterviewConfiguration]}
// @Router       /interview-configurations [get]
// @Security     BearerAuth
func (h *InterviewConfigurationHandler) List(c *gin.Context) {
	result, err := h.configUC.List(c.Request.Context(), domain.InterviewConfigurationFilter{
		Search:     c.Query("search"),
		ActiveOnly: c.Query("active_only") == "true",
		TenantID:   tenantScope(c),
		PageParams: pageParams(c),
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview configurations retrieved", result)
}

// Get godoc
// @Summary      Get an interview configuration version
// @Tags         interview-configurations
// @Produce      json
// @Param        name     path      string  true  "Configuration name"
// @Param        version  path      int     true  "Version"
// @Success      200      {object}  response.Response{data=domain.InterviewConfiguration}
// @Router       /interview-configurations/{name}/versions/{version} [get]
// @Security     BearerAuth
func (h *InterviewConfigurationHandler) Get(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	cfg, err := h.configUC.Get(c.Request.Context(), name, version)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview configuration retrieved", cfg)
}

// GetLatest godoc
// @Summary      Latest version of an interview configuration
// @Tags         interview-configurations
// @Produce      json
// @Param        name  path      string  true  "Configuration name"
// @Success      200   {object}  response.Response{data=domain.InterviewConfiguration}
// @Router       /interview-configurations/{name}/latest [get]
// @Security     BearerAuth
func (h *InterviewConfigurationHandler) GetLatest(c *gin.Context) {
	cfg, err := h.configUC.GetLatest(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview configuration retrieved", cfg)
}

// Update godoc
// @Summary      Update an interview configuration
// @Tags         interview-configurations
// @Accept       json
// @Produce      json
// @Param        name     path      string                                     true  "Configuration name"
// @Param        version  path      int                                        true  "Version"
// @Param        config   body      domain.UpdateInterviewConfigurationInput   true  "Configuration"
// @Success      200      {object}  response.Response{data=domain.InterviewConfiguration}
// @Router       /interview-configurations/{name}/versions/{version} [put]
// @Security     BearerAuth
func (h *InterviewConfigurationHandler) Update(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	var input domain.UpdateInterviewConfigurationInput
	if !bindJSON(c, &input) {
		return
	}
	cfg, err := h.configUC.Update(c.Request.Context(), currentUserID(c), name, version, &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview configuration updated", cfg)
}

// Delete godoc
// @Summary      Delete an interview configuration version
// @Tags         interview-configurations
// @Param        name     path      string  true  "Configuration name"
// @Param        version  path      int     true  "Version"
// @Success      200      {object}  response.Response
// @Router       /interview-configurations/{name}/versions/{version} [delete]
// @Security     BearerAuth
func (h *InterviewConfigurationHandler) Delete(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.configUC.Delete(c.Request.Context(), currentUserID(c), name, version); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview configuration deleted", nil)
}
