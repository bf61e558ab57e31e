package v1

import (
	"fmt"
	"net/http"

	"recruiter-platform/internal/delivery/http/middleware"
	"recruiter-platform/internal/delivery/http/response"
	"recruiter-platform/internal/domain"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type JobApplicationHandler struct {
	applicationUC domain.JobApplicationUsecase
}

func NewJobApplicationHandler(protected *gin.RouterGroup, applicationUC domain.JobApplicationUsecase) {
	handler := &JobApplicationHandler{applicationUC: applicationUC}

	applications := protected.Group("/applications")
	{
		applications.POST("", handler.Apply)
		applications.GET("/mine", handler.ListMine)
		applications.GET("/:id", handler.Get)
	}

	staff := protected.Group("", middleware.RequireRole(domain.RoleRecruiter, domain.RoleAdmin))
	{
		staff.PUT("/applications/:id/status", handler.UpdateStatus)
		staff.POST("/applications/:id/advance", handler.Advance)
		staff.GET("/job-posts/:name/versions/:version/applications", handler.ListByJobPost)
		staff.GET("/job-posts/:name/versions/:version/applications/export", handler.Export)
	}
}

// Apply godoc
// @Summary      Apply to a published job post
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        application  body      domain.ApplyInput  true  "Job post reference"
// @Success      201          {object}  response.Response{data=domain.JobApplication}
// @Failure      404          {object}  response.Response
// @Failure      409          {object}  response.Response
// @Router       /applications [post]
// @Security     BearerAuth
func (h *JobApplicationHandler) Apply(c *gin.Context) {
	var input domain.ApplyInput
	if !bindJSON(c, &input) {
		return
	}
	app, err := h.applicationUC.Apply(c.Request.Context(), currentUserID(c), currentTenant(c), &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Application submitted", app)
}

// ListMine godoc
// @Summary      Caller's applications
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.JobApplication}
// @Router       /applications/mine [get]
// @Security     BearerAuth
func (h *JobApplicationHandler) ListMine(c *gin.Context) {
	apps, err := h.applicationUC.ListMine(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}

// Get godoc
// @Summary      Get an application with its steps
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.JobApplication}
// @Router       /applications/{id} [get]
// @Security     BearerAuth
func (h *JobApplicationHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	app, err := h.applicationUC.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	if currentRole(c) == domain.RoleCandidate && app.UserID != currentUserID(c) {
		c.Error(domain.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, "Application retrieved", app)
}

// UpdateStatus godoc
// @Summary      Change an application's status
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id      path      string                               true  "Application ID"
// @Param        status  body      domain.UpdateApplicationStatusInput  true  "Status"
// @Success      200     {object}  response.Response{data=domain.JobApplication}
// @Router       /applications/{id}/status [put]
// @Security     BearerAuth
func (h *JobApplicationHandler) UpdateStatus(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var input domain.UpdateApplicationStatusInput
	if !bindJSON(c, &input) {
		return
	}
	app, err := h.applicationUC.UpdateStatus(c.Request.Context(), currentUserID(c), id, &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application status updated", app)
}

// Advance godoc
// @Summary      Complete the current step of an application
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.JobApplication}
// @Router       /applications/{id}/advance [post]
// @Security     BearerAuth
func (h *JobApplicationHandler) Advance(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	app, err := h.applicationUC.AdvanceStep(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application advanced", app)
}

// ListByJobPost godoc
// @Summary      Applications of a job post version
// @Tags         applications
// @Produce      json
// @Param        name     path      string  true  "Job post name"
// @Param        version  path      int     true  "Version"
// @Success      200      {object}  response.Response{data=[]domain.JobApplication}
// @Router       /job-posts/{name}/versions/{version}/applications [get]
// @Security     BearerAuth
func (h *JobApplicationHandler) ListByJobPost(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	apps, err := h.applicationUC.ListByJobPost(c.Request.Context(), name, version)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}

// Export godoc
// @Summary      Export applications of a job post as xlsx
// @Tags         applications
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        name     path  string  true  "Job post name"
// @Param        version  path  int     true  "Version"
// @Success      200      {file}  file
// @Router       /job-posts/{name}/versions/{version}/applications/export [get]
// @Security     BearerAuth
func (h *JobApplicationHandler) Export(c *gin.Context) {
	name, version, err := nameVersion(c)
	if err != nil {
		c.Error(err)
		return
	}
	data, err := h.applicationUC.ExportByJobPost(c.Request.Context(), name, version)
	if err != nil {
		c.Error(err)
		return
	}
	response.Attachment(c, fmt.Sprintf("%s-v%d-applications.xlsx", name, version), xlsxContentType, data)
}
