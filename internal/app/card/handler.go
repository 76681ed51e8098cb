package card

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskboard/internal/apperr"
	"taskboard/internal/middleware"
	"taskboard/internal/policy"
)

type Handler interface {
	ListBoardCards(c *gin.Context)
	GetCard(c *gin.Context)
	CreateCard(c *gin.Context)
	UpdateCard(c *gin.Context)
	MoveCard(c *gin.Context)
	CompleteCard(c *gin.Context)
	ReopenCard(c *gin.Context)
	DeleteCard(c *gin.Context)

	AddSubtask(c *gin.Context)
	UpdateSubtask(c *gin.Context)
	DeleteSubtask(c *gin.Context)

	AddComment(c *gin.Context)
	DeleteComment(c *gin.Context)

	AddLabel(c *gin.Context)
	RemoveLabel(c *gin.Context)
	AddMember(c *gin.Context)
	RemoveMember(c *gin.Context)

	UploadAttachment(c *gin.Context)
	DeleteAttachment(c *gin.Context)

	SetRecurrence(c *gin.Context)
	ClearRecurrence(c *gin.Context)
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

func fail(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
}

// @Summary List board cards
// @Tags Card
// @Produce json
// @Param id path int true "Board ID"
// @Success 200 {object} CardListResponse
// @Router /api/boards/{id}/cards [get]
func (h *handler) ListBoardCards(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	boardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	cards, err := h.service.ListBoardCards(identity, boardID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, CardListResponse{Cards: cards})
}

// @Summary Get card
// @Tags Card
// @Produce json
// @Param id path int true "Card ID"
// @Success 200 {object} Card
// @Failure 404 {object} ErrorResponse
// @Router /api/cards/{id} [get]
func (h *handler) GetCard(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	card, err := h.service.GetCard(identity, cardID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// @Summary Create card
// @Tags Card
// @Accept json
// @Produce json
// @Param id path int true "Column ID"
// @Param request body CreateCardRequest true "Card"
// @Success 201 {object} Card
// @Failure 422 {object} ErrorResponse
// @Router /api/columns/{id}/cards [post]
func (h *handler) CreateCard(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	columnID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	card, err := h.service.CreateCard(identity, columnID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

// @Summary Update card
// @Tags Card
// @Accept json
// @Produce json
// @Param id path int true "Card ID"
// @Param request body UpdateCardRequest true "Fields"
// @Success 200 {object} Card
// @Router /api/cards/{id} [patch]
func (h *handler) UpdateCard(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	card, err := h.service.UpdateCard(identity, cardID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// @Summary Move card
// @Description Relocates the card, renumbering source and target columns
// @Tags Card
// @Accept json
// @Produce json
// @Param id path int true "Card ID"
// @Param request body MoveCardRequest true "Target"
// @Success 200 {object} Card
// @Router /api/cards/{id}/move [post]
func (h *handler) MoveCard(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	card, err := h.service.MoveCard(identity, cardID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// @Summary Complete card
// @Tags Card
// @Produce json
// @Param id path int true "Card ID"
// @Success 200 {object} Card
// @Router /api/cards/{id}/complete [post]
func (h *handler) CompleteCard(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	card, err := h.service.CompleteCard(identity, cardID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// @Summary Reopen card
// @Tags Card
// @Produce json
// @Param id path int true "Card ID"
// @Success 200 {object} Card
// @Router /api/cards/{id}/reopen [post]
func (h *handler) ReopenCard(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	card, err := h.service.ReopenCard(identity, cardID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// @Summary Delete card
// @Tags Card
// @Produce json
// @Param id path int true "Card ID"
// @Success 204
// @Router /api/cards/{id} [delete]
func (h *handler) DeleteCard(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteCard(identity, cardID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Add subtask
// @Tags Card
// @Accept json
// @Produce json
// @Param id path int true "Card ID"
// @Param request body SubtaskRequest true "Subtask"
// @Success 201 {object} Subtask
// @Router /api/cards/{id}/subtasks [post]
func (h *handler) AddSubtask(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req SubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	st, err := h.service.AddSubtask(identity, cardID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

// @Summary Update subtask
// @Tags Card
// @Accept json
// @Produce json
// @Param id path int true "Subtask ID"
// @Param request body UpdateSubtaskRequest true "Fields"
// @Success 200 {object} Subtask
// @Router /api/subtasks/{id} [patch]
func (h *handler) UpdateSubtask(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	subtaskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	st, err := h.service.UpdateSubtask(identity, subtaskID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary Delete subtask
// @Tags Card
// @Produce json
// @Param id path int true "Subtask ID"
// @Success 204
// @Router /api/subtasks/{id} [delete]
func (h *handler) DeleteSubtask(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	subtaskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteSubtask(identity, subtaskID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Add comment
// @Tags Card
// @Accept json
// @Produce json
// @Param id path int true "Card ID"
// @Param request body CommentRequest true "Comment"
// @Success 201 {object} Comment
// @Router /api/cards/{id}/comments [post]
func (h *handler) AddComment(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	cm, err := h.service.AddComment(identity, cardID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cm)
}

// @Summary Delete comment
// @Tags Card
// @Produce json
// @Param id path int true "Comment ID"
// @Success 204
// @Router /api/comments/{id} [delete]
func (h *handler) DeleteComment(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	commentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteComment(identity, commentID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Attach label
// @Tags Card
// @Accept json
// @Produce json
// @Param id path int true "Card ID"
// @Param request body LabelRequest true "Label"
// @Success 204
// @Router /api/cards/{id}/labels [post]
func (h *handler) AddLabel(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := h.service.AddLabel(identity, cardID, req.LabelID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Detach label
// @Tags Card
// @Produce json
// @Param id path int true "Card ID"
// @Param labelId path int true "Label ID"
// @Success 204
// @Router /api/cards/{id}/labels/{labelId} [delete]
func (h *handler) RemoveLabel(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	labelID, ok := paramID(c, "labelId")
	if !ok {
		return
	}
	if err := h.service.RemoveLabel(identity, cardID, labelID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Assign member
// @Tags Card
// @Accept json
// @Produce json
// @Param id path int true "Card ID"
// @Param request body MemberRequest true "Member"
// @Success 204
// @Failure 422 {object} ErrorResponse
// @Router /api/cards/{id}/members [post]
func (h *handler) AddMember(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := h.service.AddMember(identity, cardID, req.UserID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Unassign member
// @Tags Card
// @Produce json
// @Param id path int true "Card ID"
// @Param userId path int true "User ID"
// @Success 204
// @Router /api/cards/{id}/members/{userId} [delete]
func (h *handler) RemoveMember(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	if err := h.service.RemoveMember(identity, cardID, userID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Upload attachment
// @Tags Card
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Card ID"
// @Param file formData file true "File"
// @Success 201 {object} Attachment
// @Failure 502 {object} ErrorResponse
// @Router /api/cards/{id}/attachments [post]
func (h *handler) UploadAttachment(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file is required"})
		return
	}
	at, err := h.service.UploadAttachment(c.Request.Context(), identity, cardID, file)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, at)
}

// @Summary Delete attachment
// @Tags Card
// @Produce json
// @Param id path int true "Attachment ID"
// @Success 204
// @Router /api/attachments/{id} [delete]
func (h *handler) DeleteAttachment(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	attachmentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteAttachment(c.Request.Context(), identity, attachmentID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Set recurrence
// @Tags Card
// @Accept json
// @Produce json
// @Param id path int true "Card ID"
// @Param request body RecurrenceRequest true "Pattern"
// @Success 200 {object} Card
// @Failure 422 {object} ErrorResponse
// @Router /api/cards/{id}/recurrence [put]
func (h *handler) SetRecurrence(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req RecurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	card, err := h.service.SetRecurrence(identity, cardID, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// @Summary Clear recurrence
// @Tags Card
// @Produce json
// @Param id path int true "Card ID"
// @Success 200 {object} Card
// @Router /api/cards/{id}/recurrence [delete]
func (h *handler) ClearRecurrence(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	card, err := h.service.ClearRecurrence(identity, cardID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}
