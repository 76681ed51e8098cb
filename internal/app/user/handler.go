package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/apperr"
	"taskboard/internal/middleware"
)

type Handler interface {
	GetMe(c *gin.Context)
	UpdateMe(c *gin.Context)
	SearchUsers(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

// @Summary Current user profile
// @Tags User
// @Accept json
// @Produce json
// @Success 200 {object} User
// @Failure 404 {object} ErrorResponse
// @Router /api/users/me [get]
func (h *handler) GetMe(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
		return
	}
	user, err := h.service.GetUserByID(identity.UserID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary Update current user profile
// @Tags User
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} User
// @Failure 400 {object} ErrorResponse
// @Router /api/users/me [patch]
func (h *handler) UpdateMe(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	user, err := h.service.UpdateProfile(identity.UserID, req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary Search users
// @Tags User
// @Accept json
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} UserListResponse
// @Router /api/users [get]
func (h *handler) SearchUsers(c *gin.Context) {
	query := c.Query("q")
	users, err := h.service.SearchUsers(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to search users"})
		return
	}
	c.JSON(http.StatusOK, UserListResponse{Users: users})
}
