package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/utils"
)

type Handler interface {
	Health(c *gin.Context)
}

type handler struct {
	checker *utils.HealthChecker
}

func NewHandler(checker *utils.HealthChecker) Handler {
	return &handler{checker: checker}
}

// @Summary Service health
// @Tags Health
// @Produce json
// @Success 200 {object} utils.HealthStatus
// @Router /health [get]
func (h *handler) Health(c *gin.Context) {
	status := h.checker.Check(c.Request.Context())
	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
