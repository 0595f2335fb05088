package handler

import (
	"github.com/gin-gonic/gin"

	"workly/backend/internal/dto"
	"workly/backend/internal/service"
	"workly/backend/pkg/response"
)

// QueryHandler serves the read-side presidio endpoints.
type QueryHandler struct {
	querySvc service.QueryService
}

func NewQueryHandler(querySvc service.QueryService) *QueryHandler {
	return &QueryHandler{querySvc: querySvc}
}

// Slots lists the active slots of a date or weekday.
// GET /api/v1/presidio/coverages?date=2025-03-03
// GET /api/v1/presidio/coverages?day_of_week=0
func (h *QueryHandler) Slots(c *gin.Context) {
	var req dto.CoverageListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 20001, "parametri non validi")
		return
	}

	slots, err := h.querySvc.Slots(c.Request.Context(), &req)
	if err != nil {
		handlePresidioError(c, err)
		return
	}

	response.OK(c, gin.H{"list": slots})
}

// RequiredRoles answers which roles must be on duty at an instant.
// GET /api/v1/presidio/required-roles?date=2025-03-03&time=10:00
func (h *QueryHandler) RequiredRoles(c *gin.Context) {
	var req dto.RequiredRolesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 20001, "parametri non validi")
		return
	}

	roles, err := h.querySvc.RequiredRolesAt(c.Request.Context(), &req)
	if err != nil {
		handlePresidioError(c, err)
		return
	}

	response.OK(c, roles)
}
