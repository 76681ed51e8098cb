package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskboard/internal/apperr"
	"taskboard/internal/middleware"
	"taskboard/internal/policy"
)

type Handler interface {
	ListNotifications(c *gin.Context)
	UnreadCount(c *gin.Context)
	MarkRead(c *gin.Context)
	MarkAllRead(c *gin.Context)
	Clear(c *gin.Context)
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

// @Summary List notifications
// @Tags Notification
// @Produce json
// @Success 200 {object} ListResponse
// @Router /api/notifications [get]
func (h *handler) ListNotifications(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	resp, err := h.service.ListNotifications(identity)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Unread count
// @Tags Notification
// @Produce json
// @Success 200 {object} UnreadCountResponse
// @Router /api/notifications/unread-count [get]
func (h *handler) UnreadCount(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	count, err := h.service.UnreadCount(identity)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, UnreadCountResponse{UnreadCount: count})
}

// @Summary Mark notification read
// @Tags Notification
// @Produce json
// @Param id path int true "Notification ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/notifications/{id}/read [post]
func (h *handler) MarkRead(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	notificationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}
	if err := h.service.MarkRead(identity, notificationID); err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Mark all notifications read
// @Tags Notification
// @Produce json
// @Success 204
// @Router /api/notifications/read-all [post]
func (h *handler) MarkAllRead(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	if err := h.service.MarkAllRead(identity); err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Clear notifications
// @Tags Notification
// @Produce json
// @Success 204
// @Router /api/notifications [delete]
func (h *handler) Clear(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	if err := h.service.Clear(identity); err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
