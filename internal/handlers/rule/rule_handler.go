// internal/handlers/rule/rule_handler.go
package rule

import (
	"errors"
	"net/http"

	domain "offers-service/internal/domain/rule"
	"offers-service/internal/middleware"
	xerrors "offers-service/internal/pkg/errors"
	"offers-service/internal/pkg/response"
	service "offers-service/internal/service/rule"

	"github.com/gin-gonic/gin"
)

type RuleHandler struct {
	ruleService *service.RuleService
}

func NewRuleHandler(ruleService *service.RuleService) *RuleHandler {
	return &RuleHandler{
		ruleService: ruleService,
	}
}

// CreateRule creates a new offer rule
func (h *RuleHandler) CreateRule(c *gin.Context) {
	businessID := middleware.MustGetBusinessID(c)

	var req domain.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.ruleService.CreateRule(c.Request.Context(), businessID, &req)
	if err != nil {
		response.Error(c, statusFor(err), "failed to create rule", err)
		return
	}

	response.Success(c, http.StatusCreated, "rule created successfully", result)
}

// GetRule retrieves a rule by ID
func (h *RuleHandler) GetRule(c *gin.Context) {
	businessID := middleware.MustGetBusinessID(c)

	result, err := h.ruleService.GetRule(c.Request.Context(), businessID, c.Param("id"))
	if err != nil {
		response.Error(c, statusFor(err), "rule not found", err)
		return
	}

	response.Success(c, http.StatusOK, "rule retrieved", result)
}

// ListRules retrieves rules with filters
func (h *RuleHandler) ListRules(c *gin.Context) {
	businessID := middleware.MustGetBusinessID(c)

	var filters domain.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid filters", err)
		return
	}

	result, err := h.ruleService.ListRules(c.Request.Context(), businessID, &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list rules", err)
		return
	}

	response.Success(c, http.StatusOK, "rules retrieved", result)
}

// UpdateRule applies an owner edit
func (h *RuleHandler) UpdateRule(c *gin.Context) {
	businessID := middleware.MustGetBusinessID(c)

	var req domain.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.ruleService.UpdateRule(c.Request.Context(), businessID, c.Param("id"), &req)
	if err != nil {
		response.Error(c, statusFor(err), "failed to update rule", err)
		return
	}

	response.Success(c, http.StatusOK, "rule updated", result)
}

// PauseRule suspends an active rule
func (h *RuleHandler) PauseRule(c *gin.Context) {
	businessID := middleware.MustGetBusinessID(c)

	result, err := h.ruleService.PauseRule(c.Request.Context(), businessID, c.Param("id"))
	if err != nil {
		response.Error(c, statusFor(err), "failed to pause rule", err)
		return
	}

	response.Success(c, http.StatusOK, "rule paused", result)
}

// ResumeRule reactivates a paused rule
func (h *RuleHandler) ResumeRule(c *gin.Context) {
	businessID := middleware.MustGetBusinessID(c)

	result, err := h.ruleService.ResumeRule(c.Request.Context(), businessID, c.Param("id"))
	if err != nil {
		response.Error(c, statusFor(err), "failed to resume rule", err)
		return
	}

	response.Success(c, http.StatusOK, "rule resumed", result)
}

// StopRule force-stops a rule immediately
func (h *RuleHandler) StopRule(c *gin.Context) {
	businessID := middleware.MustGetBusinessID(c)

	if err := h.ruleService.StopRule(c.Request.Context(), businessID, c.Param("id")); err != nil {
		response.Error(c, statusFor(err), "failed to stop rule", err)
		return
	}

	response.Success(c, http.StatusOK, "rule stopped", nil)
}

// DeleteRule removes a rule
func (h *RuleHandler) DeleteRule(c *gin.Context) {
	businessID := middleware.MustGetBusinessID(c)

	if err := h.ruleService.DeleteRule(c.Request.Context(), businessID, c.Param("id")); err != nil {
		response.Error(c, statusFor(err), "failed to delete rule", err)
		return
	}

	response.Success(c, http.StatusOK, "rule deleted", nil)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, xerrors.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, xerrors.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
