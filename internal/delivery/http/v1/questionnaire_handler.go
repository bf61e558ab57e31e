package v1

import (
	"io"
	"net/http"

	"recruiter-platform/internal/delivery/http/middleware"
	"recruiter-platform/internal/delivery/http/response"
	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const maxWorkbookSize = 5 << 20

type QuestionnaireHandler struct {
	questionnaireUC domain.QuestionnaireUsecase
}

func NewQuestionnaireHandler(protected *gin.RouterGroup, questionnaireUC domain.QuestionnaireUsecase) {
	handler := &QuestionnaireHandler{questionnaireUC: questionnaireUC}

	questionnaires := protected.Group("/questionnaires", middleware.RequireRole(domain.RoleRecruiter, domain.RoleAdmin))
	{
		questionnaires.GET("", handler.List)
		questionnaires.POST("", handler.Create)
		questionnaires.POST("/import", handler.Import)
		questionnaires.GET("/:id", handler.Get)
		questionnaires.DELETE("/:id", handler.Delete)
	}
}

// Create godoc
// @Summary      Create a questionnaire template
// @Tags         questionnaires
// @Accept       json
// @Produce      json
// @Param        template  body      domain.QuestionnaireTemplateInput  true  "Template"
// @Success      201       {object}  response.Response{data=domain.QuestionnaireTemplate}
// @Failure      409       {object}  response.Response
// @Router       /questionnaires [post]
// @Security     BearerAuth
func (h *QuestionnaireHandler) Create(c *gin.Context) {
	var input domain.QuestionnaireTemplateInput
	if !bindJSON(c, &input) {
		return
	}
	tpl, err := h.questionnaireUC.Create(c.Request.Context(), currentUserID(c), currentTenant(c), &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Questionnaire created", tpl)
}

// List godoc
// @Summary      List questionnaire templates
// @Tags         questionnaires
// @Produce      json
// @Param        template_type  query     string  false  "Quiz, Personality or Form"
// @Param        search         query     string  false  "Matches name or title"
// @Param        page           query     int     false  "Page number"
// @Param        page_size      query     int     false  "Page size"
// @Success      200            {object}  response.Response{data=domain.PaginatedResult[domain.QuestionnaireTemplate]}
// @Router       /questionnaires [get]
// @Security     BearerAuth
func (h *QuestionnaireHandler) List(c *gin.Context) {
	result, err := h.questionnaireUC.List(c.Request.Context(), domain.QuestionnaireFilter{
		TemplateType: c.Query("template_type"),
		Search:       c.Query("search"),
		PageParams:   pageParams(c),
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Questionnaires retrieved", result)
}

// Get godoc
// @Summary      Get a questionnaire template
// @Tags         questionnaires
// @Produce      json
// @Param        id   path      string  true  "Template ID"
// @Success      200  {object}  response.Response{data=domain.QuestionnaireTemplate}
// @Router       /questionnaires/{id} [get]
// @Security     BearerAuth
func (h *QuestionnaireHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	tpl, err := h.questionnaireUC.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Questionnaire retrieved", tpl)
}

// Import godoc
// @Summary      Import questionnaires from an xlsx workbook
// @Description  All-or-nothing: when any row is invalid nothing is written and the row errors are returned with 422.
// @Tags         questionnaires
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Workbook"
// @Success      200   {object}  response.Response{data=domain.ImportResult}
// @Failure      422   {object}  response.Response{error=[]domain.ImportRowError}
// @Router       /questionnaires/import [post]
// @Security     BearerAuth
func (h *QuestionnaireHandler) Import(c *gin.Context) {
	data, err := readFormFile(c, "file", maxWorkbookSize)
	if err != nil {
		c.Error(err)
		return
	}
	result, err := h.questionnaireUC.Import(c.Request.Context(), currentUserID(c), currentTenant(c), data)
	if err != nil {
		c.Error(err)
		return
	}
	if len(result.Errors) > 0 {
		response.Error(c, http.StatusUnprocessableEntity, "Workbook has invalid rows", result.Errors)
		return
	}
	response.Success(c, http.StatusOK, "Questionnaires imported", result)
}

// Delete godoc
// @Summary      Delete a questionnaire template
// @Tags         questionnaires
// @Param        id   path      string  true  "Template ID"
// @Success      200  {object}  response.Response
// @Router       /questionnaires/{id} [delete]
// @Security     BearerAuth
func (h *QuestionnaireHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.questionnaireUC.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Questionnaire deleted", nil)
}

// readFormFile reads one multipart file, failing when it exceeds limit bytes.
func readFormFile(c *gin.Context, field string, limit int64) ([]byte, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, apperror.BadRequest("Multipart field '" + field + "' is required")
	}
	if header.Size > limit {
		return nil, apperror.BadRequest("File is too large")
	}
	f, err := header.Open()
	if err != nil {
		return nil, apperror.BadRequest("File could not be read")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, apperror.BadRequest("File could not be read")
	}
	if int64(len(data)) > limit {
		return nil, apperror.BadRequest("File is too large")
	}
	return data, nil
}
