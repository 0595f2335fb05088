package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"workly/backend/internal/service"
	"workly/backend/internal/validation"
	pkgerrors "workly/backend/pkg/errors"
	"workly/backend/pkg/response"
)

// MustGetUserID extracts the caller id injected by the JWT middleware.
// On a missing or malformed value it writes a 401 and returns ok=false;
// the caller should return immediately.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "non autenticato")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "non autenticato")
		return "", false
	}
	return s, true
}

// handlePresidioError maps the service-layer failures shared by every
// presidio endpoint onto HTTP responses. A validation report becomes a
// 422 carrying the per-field triples; the optimistic-lock sentinel
// becomes a 409 telling the client to reload and retry.
func handlePresidioError(c *gin.Context, err error) {
	var report *validation.Report
	switch {
	case errors.As(err, &report):
		response.ErrorWithData(c, http.StatusUnprocessableEntity, 20002, "validazione fallita", report)
	case errors.Is(err, service.ErrTemplateNotFound):
		response.NotFound(c, 20101, "modello di presidio non trovato")
	case errors.Is(err, service.ErrCoverageNotFound):
		response.NotFound(c, 20102, "copertura non trovata")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 20103, "il modello è stato modificato da un'altra operazione, ricaricare e riprovare")
	default:
		response.InternalError(c)
	}
}
