package column

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskboard/internal/apperr"
	"taskboard/internal/middleware"
	"taskboard/internal/policy"
)

type Handler interface {
	ListColumns(c *gin.Context)
	CreateColumn(c *gin.Context)
	UpdateColumn(c *gin.Context)
	MoveColumn(c *gin.Context)
	DeleteColumn(c *gin.Context)
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

// @Summary List board columns
// @Tags Column
// @Produce json
// @Param id path int true "Board ID"
// @Success 200 {object} ColumnListResponse
// @Router /api/boards/{id}/columns [get]
func (h *handler) ListColumns(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	boardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	cols, err := h.service.ListColumns(identity, boardID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, ColumnListResponse{Columns: cols})
}

// @Summary Create column
// @Tags Column
// @Accept json
// @Produce json
// @Param id path int true "Board ID"
// @Param request body CreateColumnRequest true "Column"
// @Success 201 {object} Column
// @Failure 422 {object} ErrorResponse
// @Router /api/boards/{id}/columns [post]
func (h *handler) CreateColumn(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	boardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	col, err := h.service.CreateColumn(identity, boardID, req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, col)
}

// @Summary Rename column
// @Tags Column
// @Accept json
// @Produce json
// @Param id path int true "Column ID"
// @Param request body UpdateColumnRequest true "Fields"
// @Success 200 {object} Column
// @Router /api/columns/{id} [patch]
func (h *handler) UpdateColumn(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	columnID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	col, err := h.service.UpdateColumn(identity, columnID, req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, col)
}

// @Summary Move column
// @Description Relocates the column and renumbers the board's sequence
// @Tags Column
// @Accept json
// @Produce json
// @Param id path int true "Column ID"
// @Param request body MoveColumnRequest true "Target index"
// @Success 200 {object} ColumnListResponse
// @Router /api/columns/{id}/move [post]
func (h *handler) MoveColumn(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	columnID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req MoveColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	cols, err := h.service.MoveColumn(identity, columnID, req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, ColumnListResponse{Columns: cols})
}

// @Summary Delete column
// @Tags Column
// @Produce json
// @Param id path int true "Column ID"
// @Success 204
// @Failure 422 {object} ErrorResponse
// @Router /api/columns/{id} [delete]
func (h *handler) DeleteColumn(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	columnID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteColumn(identity, columnID); err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
