package v1

import (
	"net/http"

	"recruiter-platform/internal/delivery/http/middleware"
	"recruiter-platform/internal/delivery/http/response"
	"recruiter-platform/internal/domain"

	"github.com/gin-gonic/gin"
)

type JobPostHandler struct {
	jobPostUC domain.JobPostUsecase
}

func NewJobPostHandler(protected *gin.RouterGroup, jobPostUC domain.JobPostUsecase) {
	handler := &JobPostHandler{jobPostUC: jobPostUC}

	posts := protected.Group("/job-posts")
	{
		// Candidates only ever see published versions.
		posts.GET("/:name/versions/:version/published", handler.GetPublished)
	}

	manage := posts.Group("", middleware.RequireRole(domain.RoleRecruiter, domain.RoleAdmin))
	{
		manage.GET("", handler.List)
		manage.POST("", handler.Create)
		manage.GET("/:name/latest", handler.GetLatest)
		manage.GET("/:name/versions", handler.ListVersions)
		manage.GET("/:name/versions/:version", handler.Get)
		manage.PUT("/:name/versions/:version", handler.Update)
		manage.DELETE("/:name/versions/:version", handler.Delete)
		manage.POST("/:name/versions/:version/duplicate", handler.Duplicate)
		manage.POST("/:name/versions/:version/publish", handler.Publish)
		manage.POST("/:name/versions/:version/archive", handler.Archive)
	}
}

// Create godoc
// @Summary      Create a job post
// @Description  Creates version 1 of a new job post. Names are unique case-insensitively.
// @Tags         job-posts
// @Accept       json
// @Produce      json
// @Param        post  body      domain.JobPostInput  true  "Job post"
// @Success      201   {object}  response.Response{data=domain.JobPost}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /job-posts [post]
// @Security     BearerAuth
func (h *JobPostHandler) Create(c *gin.Context) {
	var input domain.JobPostInput
	if !bindJSON(c, &input) {
		return
	}
	post, err := h.jobPostUC.Create(c.Request.Context(), currentUserID(c), currentTenant(c), &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job post created", post)
}

// List godoc
// @Summary      List job posts
// @Description  Latest non-deleted version of every job post.
// @Tags         job-posts
// @Produce      json
// @Param        status     query     string  false  "Draft, Published or Archived"
// @Param        search     query     string  false  "Matches name or title"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size"
// @Success      200        {object}  response.Response{data=domain.PaginatedResult[domain.JobPost]}
// @Router       /job-posts [get]
// @Security     BearerAuth
func (h *JobPostHandler) List(c *gin.Context) {
	filter := domain.JobPostFilter{
		Status:     c.Query("status"),
		Search:     c.Query("search"),
		TenantID:   tenantScope(c),
		PageParams: pageParams(c),
	}
	result, err := h.jobPostUC.List(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job posts retrieved", result)
}

// Get godoc
// @Summary      Get a job post version
// @Tags         job-posts
// @Produce      json
// @Param        name     path      string  true  "Job post name"
// @Param        version  path      int     true  "Version"
// @Success      200      {object}  response.Response{data=domain.JobPost}
// @Failure      404      {object}  response.Response
// @Router       /job-posts/{name}/versions/{version} [get]
// @Security     BearerAuth
func (h *JobPostHandler) Get(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	post, err := h.jobPostUC.Get(c.Request.Context(), name, version)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job post retrieved", post)
}

// GetPublished godoc
// @Summary      Get a published job post
// @Tags         job-posts
// @Produce      json
// @Param        name     path      string  true  "Job post name"
// @Param        version  path      int     true  "Version"
// @Success      200      {object}  response.Response{data=domain.JobPost}
// @Failure      404      {object}  response.Response
// @Router       /job-posts/{name}/versions/{version}/published [get]
// @Security     BearerAuth
func (h *JobPostHandler) GetPublished(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	post, err := h.jobPostUC.GetPublished(c.Request.Context(), name, version)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job post retrieved", post)
}

// GetLatest godoc
// @Summary      Latest version of a job post
// @Tags         job-posts
// @Produce      json
// @Param        name  path      string  true  "Job post name"
// @Success      200   {object}  response.Response{data=domain.JobPost}
// @Failure      404   {object}  response.Response
// @Router       /job-posts/{name}/latest [get]
// @Security     BearerAuth
func (h *JobPostHandler) GetLatest(c *gin.Context) {
	post, err := h.jobPostUC.GetLatest(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job post retrieved", post)
}

// ListVersions godoc
// @Summary      All versions of a job post
// @Tags         job-posts
// @Produce      json
// @Param        name  path      string  true  "Job post name"
// @Success      200   {object}  response.Response{data=[]domain.JobPost}
// @Router       /job-posts/{name}/versions [get]
// @Security     BearerAuth
func (h *JobPostHandler) ListVersions(c *gin.Context) {
	posts, err := h.jobPostUC.ListVersions(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job post versions retrieved", posts)
}

// Update godoc
// @Summary      Update a job post
// @Description  Updates in place, or creates the next version when should_update_version is set. Posts with applications can only get a new version.
// @Tags         job-posts
// @Accept       json
// @Produce      json
// @Param        name     path      string                      true  "Job post name"
// @Param        version  path      int                         true  "Version"
// @Param        post     body      domain.UpdateJobPostInput   true  "Job post"
// @Success      200      {object}  response.Response{data=domain.JobPost}
// @Failure      409      {object}  response.Response
// @Router       /job-posts/{name}/versions/{version} [put]
// @Security     BearerAuth
func (h *JobPostHandler) Update(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	var input domain.UpdateJobPostInput
	if !bindJSON(c, &input) {
		return
	}
	post, err := h.jobPostUC.Update(c.Request.Context(), currentUserID(c), name, version, &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job post updated", post)
}

// Duplicate godoc
// @Summary      Duplicate a job post under a new name
// @Tags         job-posts
// @Accept       json
// @Produce      json
// @Param        name     path      string                         true  "Job post name"
// @Param        version  path      int                            true  "Version"
// @Param        input    body      domain.DuplicateJobPostInput   true  "New name and title"
// @Success      201      {object}  response.Response{data=domain.JobPost}
// @Failure      409      {object}  response.Response
// @Router       /job-posts/{name}/versions/{version}/duplicate [post]
// @Security     BearerAuth
func (h *JobPostHandler) Duplicate(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	var input domain.DuplicateJobPostInput
	if !bindJSON(c, &input) {
		return
	}
	post, err := h.jobPostUC.Duplicate(c.Request.Context(), currentUserID(c), name, version, &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job post duplicated", post)
}

// Delete godoc
// @Summary      Delete a job post version
// @Description  Soft-deletes versions that have applications, removes the rest.
// @Tags         job-posts
// @Param        name     path      string  true  "Job post name"
// @Param        version  path      int     true  "Version"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /job-posts/{name}/versions/{version} [delete]
// @Security     BearerAuth
func (h *JobPostHandler) Delete(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.jobPostUC.Delete(c.Request.Context(), currentUserID(c), name, version); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job post deleted", nil)
}

// Publish godoc
// @Summary      Publish a job post version
// @Tags         job-posts
// @Produce      json
// @Param        name     path      string  true  "Job post name"
// @Param        version  path      int     true  "Version"
// @Success      200      {object}  response.Response{data=domain.JobPost}
// @Router       /job-posts/{name}/versions/{version}/publish [post]
// @Security     BearerAuth
func (h *JobPostHandler) Publish(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	post, err := h.jobPostUC.Publish(c.Request.Context(), currentUserID(c), name, version)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job post published", post)
}

// Archive godoc
// @Summary      Archive a job post version
// @Tags         job-posts
// @Produce      json
// @Param        name     path      string  true  "Job post name"
// @Param        version  path      int     true  "Version"
// @Success      200      {object}  response.Response{data=domain.JobPost}
// @Router       /job-posts/{name}/versions/{version}/archive [post]
// @Security     BearerAuth
func (h *JobPostHandler) Archive(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	post, err := h.jobPostUC.Archive(c.Request.Context(), currentUserID(c), name, version)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job post archived", post)
}
