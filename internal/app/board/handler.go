package board

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskboard/internal/apperr"
	"taskboard/internal/middleware"
	"taskboard/internal/policy"
)

type Handler interface {
	CreateBoard(c *gin.Context)
	GetBoard(c *gin.Context)
	ListBoards(c *gin.Context)
	UpdateBoard(c *gin.Context)
	DeleteBoard(c *gin.Context)
	AddMember(c *gin.Context)
	RemoveMember(c *gin.Context)
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

func boardIDOf(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid board id"})
		return 0, false
	}
	return id, true
}

// @Summary Create board
// @Tags Board
// @Accept json
// @Produce json
// @Param request body CreateBoardRequest true "Board"
// @Success 201 {object} Board
// @Failure 400 {object} ErrorResponse
// @Router /api/boards [post]
func (h *handler) CreateBoard(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	board, err := h.service.CreateBoard(identity, req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, board)
}

// @Summary Get board
// @Tags Board
// @Produce json
// @Param id path int true "Board ID"
// @Success 200 {object} Board
// @Failure 404 {object} ErrorResponse
// @Router /api/boards/{id} [get]
func (h *handler) GetBoard(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	boardID, ok := boardIDOf(c)
	if !ok {
		return
	}
	board, err := h.service.GetBoard(identity, boardID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, board)
}

// @Summary List boards for the caller
// @Tags Board
// @Produce json
// @Success 200 {object} BoardListResponse
// @Router /api/boards [get]
func (h *handler) ListBoards(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	boards, err := h.service.ListBoards(identity)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, BoardListResponse{Boards: boards})
}

// @Summary Update board
// @Tags Board
// @Accept json
// @Produce json
// @Param id path int true "Board ID"
// @Param request body UpdateBoardRequest true "Fields"
// @Success 200 {object} Board
// @Failure 404 {object} ErrorResponse
// @Router /api/boards/{id} [patch]
func (h *handler) UpdateBoard(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	boardID, ok := boardIDOf(c)
	if !ok {
		return
	}
	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	board, err := h.service.UpdateBoard(identity, boardID, req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, board)
}

// @Summary Delete board
// @Description Deletes the board, its columns, cards and card-owned children
// @Tags Board
// @Produce json
// @Param id path int true "Board ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/boards/{id} [delete]
func (h *handler) DeleteBoard(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	boardID, ok := boardIDOf(c)
	if !ok {
		return
	}
	if err := h.service.DeleteBoard(identity, boardID); err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Add board member
// @Tags Board
// @Accept json
// @Produce json
// @Param id path int true "Board ID"
// @Param request body MemberRequest true "Member"
// @Success 200 {object} Board
// @Failure 404 {object} ErrorResponse
// @Router /api/boards/{id}/members [post]
func (h *handler) AddMember(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	boardID, ok := boardIDOf(c)
	if !ok {
		return
	}
	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	board, err := h.service.AddMember(identity, boardID, req.UserID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, board)
}

// @Summary Remove board member
// @Tags Board
// @Produce json
// @Param id path int true "Board ID"
// @Param userId path int true "User ID"
// @Success 200 {object} Board
// @Failure 404 {object} ErrorResponse
// @Router /api/boards/{id}/members/{userId} [delete]
func (h *handler) RemoveMember(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	boardID, ok := boardIDOf(c)
	if !ok {
		return
	}
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}
	board, err := h.service.RemoveMember(identity, boardID, userID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, board)
}
