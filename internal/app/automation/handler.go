package automation

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskboard/internal/apperr"
	"taskboard/internal/middleware"
	"taskboard/internal/policy"
)

type Handler interface {
	CreateRule(c *gin.Context)
	ListRules(c *gin.Context)
	GetRule(c *gin.Context)
	UpdateRule(c *gin.Context)
	DeleteRule(c *gin.Context)
	ListExecutions(c *gin.Context)
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

// @Summary Create automation rule
// @Tags Automation
// @Accept json
// @Produce json
// @Param id path int true "Board ID"
// @Param request body CreateRuleRequest true "Rule"
// @Success 201 {object} Rule
// @Failure 422 {object} ErrorResponse
// @Router /api/boards/{id}/automation-rules [post]
func (h *handler) CreateRule(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	boardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	rule, err := h.service.CreateRule(identity, boardID, req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// @Summary List board rules
// @Tags Automation
// @Produce json
// @Param id path int true "Board ID"
// @Success 200 {object} RuleListResponse
// @Router /api/boards/{id}/automation-rules [get]
func (h *handler) ListRules(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	boardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	rules, err := h.service.ListRules(identity, boardID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, RuleListResponse{Rules: rules})
}

// @Summary Get rule
// @Tags Automation
// @Produce json
// @Param id path int true "Rule ID"
// @Success 200 {object} Rule
// @Failure 404 {object} ErrorResponse
// @Router /api/automation-rules/{id} [get]
func (h *handler) GetRule(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	ruleID, ok := paramID(c, "id")
	if !ok {
		return
	}
	rule, err := h.service.GetRule(identity, ruleID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, rule)
}

// @Summary Update rule
// @Tags Automation
// @Accept json
// @Produce json
// @Param id path int true "Rule ID"
// @Param request body UpdateRuleRequest true "Fields"
// @Success 200 {object} Rule
// @Router /api/automation-rules/{id} [patch]
func (h *handler) UpdateRule(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	ruleID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	rule, err := h.service.UpdateRule(identity, ruleID, req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, rule)
}

// @Summary Delete rule
// @Tags Automation
// @Produce json
// @Param id path int true "Rule ID"
// @Success 204
// @Router /api/automation-rules/{id} [delete]
func (h *handler) DeleteRule(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	ruleID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteRule(identity, ruleID); err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List rule executions
// @Tags Automation
// @Produce json
// @Param id path int true "Rule ID"
// @Success 200 {object} ExecutionListResponse
// @Router /api/automation-rules/{id}/executions [get]
func (h *handler) ListExecutions(c *gin.Context) {
	identity, ok := callerOf(c)
	if !ok {
		return
	}
	ruleID, ok := paramID(c, "id")
	if !ok {
		return
	}
	execs, err := h.service.ListExecutions(identity, ruleID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, ExecutionListResponse{Executions: execs})
}
