package planning

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskboard/internal/apperr"
	"taskboard/internal/middleware"
	"taskboard/internal/policy"
)

type Handler interface {
	CreateRecord(c *gin.Context)
	ListRecords(c *gin.Context)
	UpdateRecord(c *gin.Context)
	DeleteRecord(c *gin.Context)
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

// @Summary Create planning record
// @Tags Planning
// @Accept json
// @Produce json
// @Param id path int true "Board ID"
// @Param request body CreateRecordRequest true "Record"
// @Success 201 {object} Record
// @Failure 422 {object} ErrorResponse
// @Router /api/boards/{id}/planning [post]
func (h *handler) CreateRecord(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	boardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	rec, err := h.service.CreateRecord(identity, boardID, req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// @Summary List planning records
// @Tags Planning
// @Produce json
// @Param id path int true "Board ID"
// @Param kind query string false "Filter by kind"
// @Success 200 {object} RecordListResponse
// @Router /api/boards/{id}/planning [get]
func (h *handler) ListRecords(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	boardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	records, err := h.service.ListRecords(identity, boardID, c.Query("kind"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, RecordListResponse{Records: records})
}

// @Summary Update planning record
// @Tags Planning
// @Accept json
// @Produce json
// @Param id path int true "Record ID"
// @Param request body UpdateRecordRequest true "Fields"
// @Success 200 {object} Record
// @Router /api/planning/{id} [patch]
func (h *handler) UpdateRecord(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	recordID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	rec, err := h.service.UpdateRecord(identity, recordID, req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// @Summary Delete planning record
// @Tags Planning
// @Produce json
// @Param id path int true "Record ID"
// @Success 204
// @Router /api/planning/{id} [delete]
func (h *handler) DeleteRecord(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	recordID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteRecord(identity, recordID); err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
