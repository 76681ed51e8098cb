package timeentry

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskboard/internal/apperr"
	"taskboard/internal/middleware"
	"taskboard/internal/policy"
)

type Handler interface {
	LogTime(c *gin.Context)
	ListByCard(c *gin.Context)
	ListMine(c *gin.Context)
	UpdateEntry(c *gin.Context)
	DeleteEntry(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

func callerOf(c *gin.Context) (policy.Identity, bool) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}
	return identity, ok
}

func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}

// @Summary Log time
// @Tags TimeEntry
// @Accept json
// @Produce json
// @Param id path int true "Card ID"
// @Param request body CreateEntryRequest true "Entry"
// @Success 201 {object} Entry
// @Failure 422 {object} ErrorResponse
// @Router /api/cards/{id}/time-entries [post]
func (h *handler) LogTime(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	entry, err := h.service.LogTime(identity, cardID, req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// @Summary Card time summary
// @Tags TimeEntry
// @Produce json
// @Param id path int true "Card ID"
// @Success 200 {object} SummaryResponse
// @Router /api/cards/{id}/time-entries [get]
func (h *handler) ListByCard(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	summary, err := h.service.ListByCard(identity, cardID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary My time summary
// @Tags TimeEntry
// @Produce json
// @Param from query string false "Start day (YYYY-MM-DD)"
// @Param to query string false "End day (YYYY-MM-DD)"
// @Success 200 {object} UserSummaryResponse
// @Router /api/time-entries [get]
func (h *handler) ListMine(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	summary, err := h.service.ListMine(identity, c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Update time entry
// @Tags TimeEntry
// @Accept json
// @Produce json
// @Param id path int true "Entry ID"
// @Param request body UpdateEntryRequest true "Fields"
// @Success 200 {object} Entry
// @Router /api/time-entries/{id} [patch]
func (h *handler) UpdateEntry(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	entryID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	entry, err := h.service.UpdateEntry(identity, entryID, req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// @Summary Delete time entry
// @Tags TimeEntry
// @Produce json
// @Param id path int true "Entry ID"
// @Success 204
// @Router /api/time-entries/{id} [delete]
func (h *handler) DeleteEntry(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	entryID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteEntry(identity, entryID); err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
