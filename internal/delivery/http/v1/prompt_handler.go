package v1

import (
	"net/http"

	"recruiter-platform/internal/delivery/http/middleware"
	"recruiter-platform/internal/delivery/http/response"
	"recruiter-platform/internal/domain"

	"github.com/gin-gonic/gin"
)

type PromptHandler struct {
	promptUC domain.PromptUsecase
}

func NewPromptHandler(protected *gin.RouterGroup, promptUC domain.PromptUsecase) {
	handler := &PromptHandler{promptUC: promptUC}

	prompts := protected.Group("/prompts", middleware.RequireRole(domain.RoleRecruiter, domain.RoleAdmin))
	{
		prompts.GET("", handler.List)
		prompts.POST("", handler.Create)
		prompts.GET("/categories", handler.Categories)
		prompts.GET("/:name/latest", handler.GetLatest)
		prompts.GET("/:name/versions", handler.ListVersions)
		prompts.GET("/:name/versions/:version", handler.Get)
		prompts.PUT("/:name/versions/:version", handler.Update)
		prompts.DELETE("/:name/versions/:version", handler.Delete)
		prompts.POST("/:name/versions/:version/duplicate", handler.Duplicate)
		prompts.POST("/:name/versions/:version/restore", handler.Restore)
	}
}

// Create godoc
// @Summary      Create a prompt
// @Tags         prompts
// @Accept       json
// @Produce      json
// @Param        prompt  body      domain.PromptInput  true  "Prompt"
// @Success      201     {object}  response.Response{data=domain.Prompt}
// @Failure      409     {object}  response.Response
// @Router       /prompts [post]
// @Security     BearerAuth
func (h *PromptHandler) Create(c *gin.Context) {
	var input domain.PromptInput
	if !bindJSON(c, &input) {
		return
	}
	prompt, err := h.promptUC.Create(c.Request.Context(), currentUserID(c), currentTenant(c), &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Prompt created", prompt)
}

// List godoc
// @Summary      List prompts
// @Tags         prompts
// @Produce      json
// @Param        category         query     string  false  "Category"
// @Param        locale           query     string  false  "Locale"
// @Param        search           query     string  false  "Matches name or content"
// @Param        include_deleted  query     bool    false  "Include soft-deleted prompts"
// @Param        page             query     int     false  "Page number"
// @Param        page_size        query     int     false  "Page size"
// @Success      200              {object}  response.Response{data=domain.PaginatedResult[domain.Prompt]}
// @Router       /prompts [get]
// @Security     BearerAuth
func (h *PromptHandler) List(c *gin.Context) {
	result, err := h.promptUC.List(c.Request.Context(), domain.PromptFilter{
		Category:       c.Query("category"),
		Locale:         c.Query("locale"),
		Search:         c.Query("search"),
		IncludeDeleted: c.Query("include_deleted") == "true",
		PageParams:     pageParams(c),
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Prompts retrieved", result)
}

// Categories godoc
// @Summary      Distinct prompt categories
// @Tags         prompts
// @Produce      json
// @Success      200  {object}  response.Response{data=[]string}
// @Router       /prompts/categories [get]
// @Security     BearerAuth
func (h *PromptHandler) Categories(c *gin.Context) {
	categories, err := h.promptUC.Categories(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Categories retrieved", categories)
}

// Get godoc
// @Summary      Get a prompt version
// @Tags         prompts
// @Produce      json
// @Param        name     path      string  true  "Prompt name"
// @Param        version  path      int     true  "Version"
// @Success      200      {object}  response.Response{data=domain.Prompt}
// @Router       /prompts/{name}/versions/{version} [get]
// @Security     BearerAuth
func (h *PromptHandler) Get(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	prompt, err := h.promptUC.Get(c.Request.Context(), name, version)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Prompt retrieved", prompt)
}

// GetLatest godoc
// @Summary      Latest version of a prompt
// @Tags         prompts
// @Produce      json
// @Param        name  path      string  true  "Prompt name"
// @Success      200   {object}  response.Response{data=domain.Prompt}
// @Router       /prompts/{name}/latest [get]
// @Security     BearerAuth
func (h *PromptHandler) GetLatest(c *gin.Context) {
	prompt, err := h.promptUC.GetLatest(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Prompt retrieved", prompt)
}

// ListVersions godoc
// @Summary      All versions of a prompt
// @Tags         prompts
// @Produce      json
// @Param        name  path      string  true  "Prompt name"
// @Success      200   {object}  response.Response{data=[]domain.Prompt}
// @Router       /prompts/{name}/versions [get]
// @Security     BearerAuth
func (h *PromptHandler) ListVersions(c *gin.Context) {
	prompts, err := h.promptUC.ListVersions(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Prompt versions retrieved", prompts)
}

// Update godoc
// @Summary      Update a prompt
// @Tags         prompts
// @Accept       json
// @Produce      json
// @Param        name     path      string                     true  "Prompt name"
// @Param        version  path      int                        true  "Version"
// @Param        prompt   body      domain.UpdatePromptInput   true  "Prompt"
// @Success      200      {object}  response.Response{data=domain.Prompt}
// @Router       /prompts/{name}/versions/{version} [put]
// @Security     BearerAuth
func (h *PromptHandler) Update(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	var input domain.UpdatePromptInput
	if !bindJSON(c, &input) {
		return
	}
	prompt, err := h.promptUC.Update(c.Request.Context(), currentUserID(c), name, version, &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Prompt updated", prompt)
}

// Duplicate godoc
// @Summary      Duplicate a prompt under a new name
// @Tags         prompts
// @Accept       json
// @Produce      json
// @Param        name     path      string                        true  "Prompt name"
// @Param        version  path      int                           true  "Version"
// @Param        input    body      domain.DuplicatePromptInput   true  "New name"
// @Success      201      {object}  response.Response{data=domain.Prompt}
// @Router       /prompts/{name}/versions/{version}/duplicate [post]
// @Security     BearerAuth
func (h *PromptHandler) Duplicate(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	var input domain.DuplicatePromptInput
	if !bindJSON(c, &input) {
		return
	}
	prompt, err := h.promptUC.Duplicate(c.Request.Context(), currentUserID(c), name, version, &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Prompt duplicated", prompt)
}

// Delete godoc
// @Summary      Delete a prompt version
// @Description  Soft-deletes versions still referenced by configurations or interviews.
// @Tags         prompts
// @Param        name     path      string  true  "Prompt name"
// @Param        version  path      int     true  "Version"
// @Success      200      {object}  response.Response
// @Router       /prompts/{name}/versions/{version} [delete]
// @Security     BearerAuth
func (h *PromptHandler) Delete(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.promptUC.Delete(c.Request.Context(), currentUserID(c), name, version); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Prompt deleted", nil)
}

// Restore godoc
// @Summary      Restore a soft-deleted prompt version
// @Tags         prompts
// @Produce      json
// @Param        name     path      string  true  "Prompt name"
// @Param        version  path      int     true  "Version"
// @Success      200      {object}  response.Response{data=domain.Prompt}
// @Router       /prompts/{name}/versions/{version}/restore [post]
// @Security     BearerAuth
func (h *PromptHandler) Restore(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	prompt, err := h.promptUC.Restore(c.Request.Context(), currentUserID(c), name, version)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Prompt restored", prompt)
}
