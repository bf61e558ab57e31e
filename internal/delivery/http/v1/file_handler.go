package v1

import (
	"errors"
	"net/http"

	"recruiter-platform/internal/delivery/http/response"
	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/apperror"
	"recruiter-platform/pkg/security"

	"github.com/gin-gonic/gin"
)

// Slightly above the usecase limit so oversize uploads get its message.
const maxUploadFormSize = 11 << 20

type FileHandler struct {
	fileUC domain.FileUsecase
}

func NewFileHandler(protected *gin.RouterGroup, fileUC domain.FileUsecase) {
	handler := &FileHandler{fileUC: fileUC}

	files := protected.Group("/files")
	{
		files.POST("", handler.Upload)
		files.GET("/:id", handler.Get)
		files.GET("/:id/download", handler.Download)
		files.DELETE("/:id", handler.Delete)
	}
}

// Upload godoc
// @Summary      Upload a file
// @Description  Validates content type, scans for malware and compresses images before storing.
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "File"
// @Success      201   {object}  response.Response{data=domain.File}
// @Failure      400   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /files [post]
// @Security     BearerAuth
func (h *FileHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.BadRequest("Multipart field 'file' is required"))
		return
	}
	data, err := readFormFile(c, "file", maxUploadFormSize)
	if err != nil {
		c.Error(err)
		return
	}

	file, err := h.fileUC.Upload(c.Request.Context(), currentUserID(c), currentTenant(c), &domain.UploadFileInput{
		Filename: header.Filename,
		Data:     data,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusBadRequest {
			security.DefaultLogger().LogUploadRejected(c.Request.Context(), currentUserID(c), c.ClientIP(), header.Filename, appErr.Message)
		}
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "File uploaded", file)
}

// Get godoc
// @Summary      File metadata
// @Tags         files
// @Produce      json
// @Param        id   path      string  true  "File ID"
// @Success      200  {object}  response.Response{data=domain.File}
// @Router       /files/{id} [get]
// @Security     BearerAuth
func (h *FileHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	file, err := h.fileUC.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "File retrieved", file)
}

// Download godoc
// @Summary      Presigned download URL
// @Tags         files
// @Produce      json
// @Param        id   path      string  true  "File ID"
// @Success      200  {object}  response.Response{data=domain.FileDownload}
// @Failure      404  {object}  response.Response
// @Router       /files/{id}/download [get]
// @Security     BearerAuth
func (h *FileHandler) Download(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	download, err := h.fileUC.Download(c.Request.Context(), currentUserID(c), currentRole(c), currentTenant(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Download URL generated", download)
}

// Delete godoc
// @Summary      Delete a file
// @Description  Owners may delete their files; admins may delete any.
// @Tags         files
// @Param        id   path      string  true  "File ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /files/{id} [delete]
// @Security     BearerAuth
func (h *FileHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.fileUC.Delete(c.Request.Context(), currentUserID(c), currentRole(c), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "File deleted", nil)
}
