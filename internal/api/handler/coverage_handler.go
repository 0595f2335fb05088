package handler

import (
	"github.com/gin-gonic/gin"

	"workly/backend/internal/dto"
	"workly/backend/internal/service"
	"workly/backend/pkg/response"
)

// CoverageHandler serves the coverage-slot endpoints.
type CoverageHandler struct {
	coverageSvc service.CoverageService
}

func NewCoverageHandler(coverageSvc service.CoverageService) *CoverageHandler {
	return &CoverageHandler{coverageSvc: coverageSvc}
}

// slotPayload wraps the slot plus any soft warnings (overlap) raised at
// write time: the write succeeded, the client decides what to surface.
type slotPayload struct {
	Slot     interface{} `json:"slot"`
	Warnings interface{} `json:"warnings,omitempty"`
}

// Add adds a slot to a template.
// POST /api/v1/presidio/templates/:id/coverages
func (h *CoverageHandler) Add(c *gin.Context) {
	templateID := c.Param("id")
	if templateID == "" {
		response.BadRequest(c, 20001, "id non può essere vuoto")
		return
	}

	var req dto.CoverageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "parametri non validi")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	slot, warnings, err := h.coverageSvc.Add(c.Request.Context(), templateID, &req, callerID)
	if err != nil {
		handlePresidioError(c, err)
		return
	}

	resp := slotPayload{Slot: slot}
	if len(warnings) > 0 {
		resp.Warnings = warnings
	}
	response.Created(c, resp)
}

// Update replaces a slot.
// PUT /api/v1/presidio/coverages/:id
func (h *CoverageHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 20001, "id non può essere vuoto")
		return
	}

	var req dto.CoverageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "parametri non validi")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	slot, warnings, err := h.coverageSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		handlePresidioError(c, err)
		return
	}

	resp := slotPayload{Slot: slot}
	if len(warnings) > 0 {
		resp.Warnings = warnings
	}
	response.OK(c, resp)
}

// Delete removes a slot.
// DELETE /api/v1/presidio/coverages/:id
func (h *CoverageHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 20001, "id non può essere vuoto")
		return
	}

	if err := h.coverageSvc.Delete(c.Request.Context(), id); err != nil {
		handlePresidioError(c, err)
		return
	}

	response.OK(c, nil)
}
