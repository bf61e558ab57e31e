package v1

import (
	"net/http"

	"recruiter-platform/internal/delivery/http/response"
	"recruiter-platform/internal/usecase"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthUC usecase.HealthUsecase
}

func NewHealthHandler(r gin.IRoutes, healthUC usecase.HealthUsecase) {
	handler := &HealthHandler{healthUC: healthUC}
	r.GET("/health", handler.Check)
}

// Check godoc
// @Summary      Liveness and dependency status
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Response{data=map[string]string}
// @Failure      503  {object}  response.Response{data=map[string]string}
// @Router       /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	status := h.healthUC.Check(c.Request.Context())
	if status["status"] != "ok" {
		c.JSON(http.StatusServiceUnavailable, response.Response{
			Success: false,
			Message: "Service degraded",
			Data:    status,
		})
		return
	}
	response.Success(c, http.StatusOK, "Service healthy", status)
}
