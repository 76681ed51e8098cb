package activity

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	GetCardActivity(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

// @Summary Card activity feed
// @Description Get the append-only activity feed of a card in feed order
// @Tags Activity
// @Accept json
// @Produce json
// @Param id path int true "Card ID"
// @Success 200 {object} FeedResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/cards/{id}/activity [get]
func (h *handler) GetCardActivity(c *gin.Context) {
	cardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid card id"})
		return
	}
	entries, err := h.service.Feed(cardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch activity"})
		return
	}
	c.JSON(http.StatusOK, FeedResponse{Entries: entries})
}
