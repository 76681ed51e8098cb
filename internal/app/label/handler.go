package label

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	GetAllLabels(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

// @Summary List label presets
// @Description Get the fixed catalog of label presets
// @Tags Label
// @Accept json
// @Produce json
// @Success 200 {object} LabelListResponse
// @Router /api/labels [get]
func (h *handler) GetAllLabels(c *gin.Context) {
	labels, err := h.service.GetAllLabels()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch labels"})
		return
	}
	c.JSON(http.StatusOK, LabelListResponse{Labels: labels})
}
