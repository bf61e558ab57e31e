package v1

import (
	"net/http"

	"recruiter-platform/internal/delivery/http/response"
	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentUC domain.CommentUsecase
}

func NewCommentHandler(protected *gin.RouterGroup, commentUC domain.CommentUsecase) {
	handler := &CommentHandler{commentUC: commentUC}

	comments := protected.Group("/comments")
	{
		comments.POST("", handler.Create)
		comments.GET("", handler.ListByEntity)
		comments.GET("/thread", handler.Thread)
		comments.GET("/:id", handler.Get)
		comments.PUT("/:id", handler.Update)
		comments.DELETE("/:id", handler.Delete)
	}
}

func entityQuery(c *gin.Context) (string, string, bool) {
	entityType, entityID := c.Query("entity_type"), c.Query("entity_id")
	if entityType == "" || entityID == "" {
		c.Error(apperror.BadRequest("entity_type and entity_id are required"))
		return "", "", false
	}
	return entityType, entityID, true
}

// Create godoc
// @Summary      Comment on an entity
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        comment  body      domain.CreateCommentInput  true  "Comment"
// @Success      201      {object}  response.Response{data=domain.Comment}
// @Router       /comments [post]
// @Security     BearerAuth
func (h *CommentHandler) Create(c *gin.Context) {
	var input domain.CreateCommentInput
	if !bindJSON(c, &input) {
		return
	}
	comment, err := h.commentUC.Create(c.Request.Context(), currentUserID(c), currentTenant(c), &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Comment created", comment)
}

// ListByEntity godoc
// @Summary      Comments of an entity
// @Tags         comments
// @Produce      json
// @Param        entity_type  query     string  true  "Entity type"
// @Param        entity_id    query     string  true  "Entity ID"
// @Success      200          {object}  response.Response{data=[]domain.Comment}
// @Router       /comments [get]
// @Security     BearerAuth
func (h *CommentHandler) ListByEntity(c *gin.Context) {
	entityType, entityID, ok := entityQuery(c)
	if !ok {
		return
	}
	comments, err := h.commentUC.ListByEntity(c.Request.Context(), entityType, entityID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Comments retrieved", comments)
}

// Thread godoc
// @Summary      Root comment of an entity with its replies
// @Tags         comments
// @Produce      json
// @Param        entity_type  query     string  true  "Entity type"
// @Param        entity_id    query     string  true  "Entity ID"
// @Success      200          {object}  response.Response{data=domain.CommentThread}
// @Router       /comments/thread [get]
// @Security     BearerAuth
func (h *CommentHandler) Thread(c *gin.Context) {
	entityType, entityID, ok := entityQuery(c)
	if !ok {
		return
	}
	thread, err := h.commentUC.Thread(c.Request.Context(), entityType, entityID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Thread retrieved", thread)
}

// Get godoc
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Param        id   path      string  true  "Comment ID"
// @Success      200  {object}  response.Response{data=domain.Comment}
// @Router       /comments/{id} [get]
// @Security     BearerAuth
func (h *CommentHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	comment, err := h.commentUC.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Comment retrieved", comment)
}

// Update godoc
// @Summary      Edit a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Comment ID"
// @Param        comment  body      domain.UpdateCommentInput  true  "Content"
// @Success      200      {object}  response.Response{data=domain.Comment}
// @Router       /comments/{id} [put]
// @Security     BearerAuth
func (h *CommentHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var input domain.UpdateCommentInput
	if !bindJSON(c, &input) {
		return
	}
	comment, err := h.commentUC.Update(c.Request.Context(), currentUserID(c), id, &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Comment updated", comment)
}

// Delete godoc
// @Summary      Delete a comment
// @Tags         comments
// @Param        id   path      string  true  "Comment ID"
// @Success      200  {object}  response.Response
// @Router       /comments/{id} [delete]
// @Security     BearerAuth
func (h *CommentHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.commentUC.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Comment deleted", nil)
}
