package v1

import (
	"net/http"

	"recruiter-platform/internal/delivery/http/middleware"
	"recruiter-platform/internal/delivery/http/response"
	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InterviewHandler struct {
	interviewUC domain.InterviewUsecase
}

func NewInterviewHandler(protected *gin.RouterGroup, interviewUC domain.InterviewUsecase) {
	handler := &InterviewHandler{interviewUC: interviewUC}

	interviews := protected.Group("/interviews")
	{
		interviews.POST("", handler.Create)
		interviews.GET("", handler.ListByStep)
		interviews.GET("/:id", handler.Get)
		interviews.POST("/:id/complete", handler.Complete)
		interviews.GET("/:id/score", middleware.RequireRole(domain.RoleRecruiter, domain.RoleAdmin), handler.GetScore)
		interviews.POST("/score",
			middleware.RequireRole(domain.RoleRecruiter, domain.RoleAdmin),
			middleware.RateLimitMiddleware(middleware.ScoringRateLimitConfig()),
			handler.Score,
		)
	}
}

// Create godoc
// @Summary      Start an interview for an application step
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        interview  body      domain.CreateInterviewInput  true  "Interview"
// @Success      201        {object}  response.Response{data=domain.Interview}
// @Failure      404        {object}  response.Response
// @Router       /interviews [post]
// @Security     BearerAuth
func (h *InterviewHandler) Create(c *gin.Context) {
	var input domain.CreateInterviewInput
	if !bindJSON(c, &input) {
		return
	}
	interview, err := h.interviewUC.Create(c.Request.Context(), currentUserID(c), currentTenant(c), &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Interview created", interview)
}

// ListByStep godoc
// @Summary      Interviews of an application step
// @Tags         interviews
// @Produce      json
// @Param        job_application_step_id  query     string  true  "Application step ID"
// @Success      200                      {object}  response.Response{data=[]domain.Interview}
// @Router       /interviews [get]
// @Security     BearerAuth
func (h *InterviewHandler) ListByStep(c *gin.Context) {
	stepID, err := uuid.Parse(c.Query("job_application_step_id"))
	if err != nil {
		c.Error(apperror.BadRequest("job_application_step_id must be a UUID"))
		return
	}
	interviews, err := h.interviewUC.ListByApplicationStep(c.Request.Context(), stepID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interviews retrieved", interviews)
}

// Get godoc
// @Summary      Get an interview
// @Tags         interviews
// @Produce      json
// @Param        id   path      string  true  "Interview ID"
// @Success      200  {object}  response.Response{data=domain.Interview}
// @Router       /interviews/{id} [get]
// @Security     BearerAuth
func (h *InterviewHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	interview, err := h.interviewUC.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview retrieved", interview)
}

// Complete godoc
// @Summary      Mark an interview completed
// @Tags         interviews
// @Produce      json
// @Param        id   path      string  true  "Interview ID"
// @Success      200  {object}  response.Response{data=domain.Interview}
// @Router       /interviews/{id}/complete [post]
// @Security     BearerAuth
func (h *InterviewHandler) Complete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	interview, err := h.interviewUC.Complete(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview completed", interview)
}

// Score godoc
// @Summary      Score an interview transcript
// @Description  Scores the transcript with the configured LLM and stores one scoring per interview.
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        transcript  body      domain.ScoreTranscriptInput  true  "Transcript"
// @Success      200         {object}  response.Response{data=domain.Scoring}
// @Failure      404         {object}  response.Response
// @Failure      429         {object}  response.Response
// @Router       /interviews/score [post]
// @Security     BearerAuth
func (h *InterviewHandler) Score(c *gin.Context) {
	var input domain.ScoreTranscriptInput
	if !bindJSON(c, &input) {
		return
	}
	scoring, err := h.interviewUC.ScoreTranscript(c.Request.Context(), &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Transcript scored", scoring)
}

// GetScore godoc
// @Summary      Scoring of an interview
// @Tags         interviews
// @Produce      json
// @Param        id   path      string  true  "Interview ID"
// @Success      200  {object}  response.Response{data=domain.Scoring}
// @Router       /interviews/{id}/score [get]
// @Security     BearerAuth
func (h *InterviewHandler) GetScore(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	scoring, err := h.interviewUC.GetScore(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Scoring retrieved", scoring)
}
