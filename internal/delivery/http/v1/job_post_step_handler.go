package v1

import (
	"net/http"
	"strconv"

	"recruiter-platform/internal/delivery/http/middleware"
	"recruiter-platform/internal/delivery/http/response"
	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type JobPostStepHandler struct {
	stepUC domain.JobPostStepUsecase
}

func NewJobPostStepHandler(protected *gin.RouterGroup, stepUC domain.JobPostStepUsecase) {
	handler := &JobPostStepHandler{stepUC: stepUC}
	recruiters := middleware.RequireRole(domain.RoleRecruiter, domain.RoleAdmin)

	steps := protected.Group("/job-post-steps", recruiters)
	{
		steps.GET("", handler.List)
		steps.POST("", handler.Create)
		steps.GET("/:name/latest", handler.GetLatest)
		steps.GET("/:name/versions", handler.ListVersions)
		steps.GET("/:name/versions/:version", handler.Get)
		steps.PUT("/:name/versions/:version", handler.Update)
		steps.DELETE("/:name/versions/:version", handler.Delete)
	}

	assignments := protected.Group("/job-posts/:name/versions/:version/steps")
	{
		assignments.GET("", handler.ListAssignments)
		assignments.PUT("", recruiters, handler.ReplaceAssignments)
		assignments.DELETE("/:stepNumber", recruiters, handler.RemoveAssignment)
	}
}

// Create godoc
// @Summary      Create a job post step
// @Tags         job-post-steps
// @Accept       json
// @Produce      json
// @Param        step  body      domain.JobPostStepInput  true  "Step"
// @Success      201   {object}  response.Response{data=domain.JobPostStep}
// @Failure      409   {object}  response.Response
// @Router       /job-post-steps [post]
// @Security     BearerAuth
func (h *JobPostStepHandler) Create(c *gin.Context) {
	var input domain.JobPostStepInput
	if !bindJSON(c, &input) {
		return
	}
	step, err := h.stepUC.Create(c.Request.Context(), currentUserID(c), currentTenant(c), &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job post step created", step)
}

// List godoc
// @Summary      List job post steps
// @Tags         job-post-steps
// @Produce      json
// @Param        search     query     string  false  "Matches name or display title"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size"
// @Success      200        {object}  response.Response{data=domain.PaginatedResult[domain.JobPostStep]}
// @Router       /job-post-steps [get]
// @Security     BearerAuth
func (h *JobPostStepHandler) List(c *gin.Context) {
	result, err := h.stepUC.List(c.Request.Context(), domain.JobPostStepFilter{
		Search:     c.Query("search"),
		TenantID:   tenantScope(c),
		PageParams: pageParams(c),
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job post steps retrieved", result)
}

// Get godoc
// @Summary      Get a job post step version
// @Tags         job-post-steps
// @Produce      json
// @Param        name     path      string  true  "Step name"
// @Param        version  path      int     true  "Version"
// @Success      200      {object}  response.Response{data=domain.JobPostStep}
// @Router       /job-post-steps/{name}/versions/{version} [get]
// @Security     BearerAuth
func (h *JobPostStepHandler) Get(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	step, err := h.stepUC.Get(c.Request.Context(), name, version)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job post step retrieved", step)
}

// GetLatest godoc
// @Summary      Latest version of a job post step
// @Tags         job-post-steps
// @Produce      json
// @Param        name  path      string  true  "Step name"
// @Success      200   {object}  response.Response{data=domain.JobPostStep}
// @Router       /job-post-steps/{name}/latest [get]
// @Security     BearerAuth
func (h *JobPostStepHandler) GetLatest(c *gin.Context) {
	step, err := h.stepUC.GetLatest(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job post step retrieved", step)
}

// ListVersions godoc
// @Summary      All versions of a job post step
// @Tags         job-post-steps
// @Produce      json
// @Param        name  path      string  true  "Step name"
// @Success      200   {object}  response.Response{data=[]domain.JobPostStep}
// @Router       /job-post-steps/{name}/versions [get]
// @Security     BearerAuth
func (h *JobPostStepHandler) ListVersions(c *gin.Context) {
	steps, err := h.stepUC.ListVersions(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job post step versions retrieved", steps)
}

// Update godoc
// @Summary      Update a job post step
// @Tags         job-post-steps
// @Accept       json
// @Produce      json
// @Param        name     path      string                          true  "Step name"
// @Param        version  path      int                             true  "Version"
// @Param        step     body      domain.UpdateJobPostStepInput   true  "Step"
// @Success      200      {object}  response.Response{data=domain.JobPostStep}
// @Router       /job-post-steps/{name}/versions/{version} [put]
// @Security     BearerAuth
func (h *JobPostStepHandler) Update(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	var input domain.UpdateJobPostStepInput
	if !bindJSON(c, &input) {
		return
	}
	step, err := h.stepUC.Update(c.Request.Context(), currentUserID(c), name, version, &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job post step updated", step)
}

// Delete godoc
// @Summary      Delete a job post step version
// @Description  Soft-deletes steps still assigned to a job post.
// @Tags         job-post-steps
// @Param        name     path      string  true  "Step name"
// @Param        version  path      int     true  "Version"
// @Success      200      {object}  response.Response
// @Router       /job-post-steps/{name}/versions/{version} [delete]
// @Security     BearerAuth
func (h *JobPostStepHandler) Delete(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.stepUC.Delete(c.Request.Context(), currentUserID(c), name, version); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job post step deleted", nil)
}

// ListAssignments godoc
// @Summary      Steps assigned to a job post
// @Tags         job-posts
// @Produce      json
// @Param        name     path      string  true  "Job post name"
// @Param        version  path      int     true  "Version"
// @Success      200      {object}  response.Response{data=[]domain.JobPostStepAssignment}
// @Router       /job-posts/{name}/versions/{version}/steps [get]
// @Security     BearerAuth
func (h *JobPostStepHandler) ListAssignments(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	items, err := h.stepUC.ListAssignments(c.Request.Context(), name, version)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Step assignments retrieved", items)
}

// ReplaceAssignments godoc
// @Summary      Replace the steps of a job post
// @Tags         job-posts
// @Accept       json
// @Produce      json
// @Param        name     path      string                        true  "Job post name"
// @Param        version  path      int                           true  "Version"
// @Param        steps    body      []domain.StepAssignmentInput  true  "Ordered steps"
// @Success      200      {object}  response.Response{data=[]domain.JobPostStepAssignment}
// @Router       /job-posts/{name}/versions/{version}/steps [put]
// @Security     BearerAuth
func (h *JobPostStepHandler) ReplaceAssignments(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	var items []domain.StepAssignmentInput
	if !bindJSON(c, &items) {
		return
	}
	out, err := h.stepUC.ReplaceAssignments(c.Request.Context(), currentUserID(c), name, version, items)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Step assignments replaced", out)
}

// RemoveAssignment godoc
// @Summary      Remove one step from a job post
// @Tags         job-posts
// @Param        name        path      string  true  "Job post name"
// @Param        version     path      int     true  "Version"
// @Param        stepNumber  path      int     true  "Step number"
// @Success      200         {object}  response.Response
// @Router       /job-posts/{name}/versions/{version}/steps/{stepNumber} [delete]
// @Security     BearerAuth
func (h *JobPostStepHandler) RemoveAssignment(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	stepNumber, err := strconv.Atoi(c.Param("stepNumber"))
	if err != nil || stepNumber < 1 {
		c.Error(apperror.BadRequest("Step number must be a positive integer"))
		return
	}
	if err := h.stepUC.RemoveAssignment(c.Request.Context(), name, version, stepNumber); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Step assignment removed", nil)
}
