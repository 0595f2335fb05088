package handler

import (
	"github.com/gin-gonic/gin"

	"workly/backend/internal/dto"
	"workly/backend/internal/service"
	"workly/backend/pkg/response"
)

// TemplateHandler serves the coverage-template endpoints.
type TemplateHandler struct {
	templateSvc service.TemplateService
}

func NewTemplateHandler(templateSvc service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateSvc: templateSvc}
}

// Create creates a template.
// POST /api/v1/presidio/templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var req dto.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "parametri non validi")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	tmpl, err := h.templateSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handlePresidioError(c, err)
		return
	}

	response.Created(c, tmpl)
}

// List lists active templates, optionally filtered by an as_of date.
// GET /api/v1/presidio/templates
func (h *TemplateHandler) List(c *gin.Context) {
	var req dto.TemplateListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 20001, "parametri non validi")
		return
	}

	templates, err := h.templateSvc.ListActive(c.Request.Context(), &req)
	if err != nil {
		handlePresidioError(c, err)
		return
	}

	response.OK(c, gin.H{"list": templates})
}

// Get returns one template with its slots.
// GET /api/v1/presidio/templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 20001, "id non può essere vuoto")
		return
	}

	tmpl, err := h.templateSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handlePresidioError(c, err)
		return
	}

	response.OK(c, tmpl)
}

// Update replaces the template document.
// PUT /api/v1/presidio/templates/:id
func (h *TemplateHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 20001, "id non può essere vuoto")
		return
	}

	var req dto.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 20001, "parametri non validi")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	tmpl, err := h.templateSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		handlePresidioError(c, err)
		return
	}

	response.OK(c, tmpl)
}

// SetActive activates or deactivates a template.
// PUT /api/v1/presidio/templates/:id/activate
// PUT /api/v1/presidio/templates/:id/deactivate
func (h *TemplateHandler) SetActive(active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			response.BadRequest(c, 20001, "id non può essere vuoto")
			return
		}

		callerID, ok := MustGetUserID(c)
		if !ok {
			return
		}

		tmpl, err := h.templateSvc.SetActive(c.Request.Context(), id, active, callerID)
		if err != nil {
			handlePresidioError(c, err)
			return
		}

		response.OK(c, tmpl)
	}
}

// Delete removes a template and its slots.
// DELETE /api/v1/presidio/templates/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 20001, "id non può essere vuoto")
		return
	}

	if err := h.templateSvc.Delete(c.Request.Context(), id); err != nil {
		handlePresidioError(c, err)
		return
	}

	response.OK(c, nil)
}

// Summary returns the derived weekly aggregates.
// GET /api/v1/presidio/templates/:id/summary
func (h *TemplateHandler) Summary(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 20001, "id non può essere vuoto")
		return
	}

	summary, err := h.templateSvc.Summary(c.Request.Context(), id)
	if err != nil {
		handlePresidioError(c, err)
		return
	}

	response.OK(c, summary)
}
