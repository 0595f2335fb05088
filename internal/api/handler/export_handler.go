package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"workly/backend/internal/dto"
	"workly/backend/internal/service"
	"workly/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves the file-producing endpoints: the Excel workbook
// and the ICS calendar feed.
type ExportHandler struct {
	exportSvc   service.ExportService
	calendarSvc service.CalendarService
}

func NewExportHandler(exportSvc service.ExportService, calendarSvc service.CalendarService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, calendarSvc: calendarSvc}
}

// Export downloads a template as an Excel workbook.
// GET /api/v1/presidio/templates/:id/export
func (h *ExportHandler) Export(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 20001, "id non può essere vuoto")
		return
	}

	buf, filename, err := h.exportSvc.ExportTemplate(c.Request.Context(), id)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", xlsxContentType)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Calendar serves the template as an ICS feed.
// GET /api/v1/presidio/templates/:id/calendar.ics?from=...&to=...
func (h *ExportHandler) Calendar(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 20001, "id non può essere vuoto")
		return
	}

	var req dto.CalendarRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 20001, "parametri non validi")
		return
	}

	feed, err := h.calendarSvc.Feed(c.Request.Context(), id, &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=presidio.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoCoverages):
		response.BadRequest(c, 20201, "il modello non contiene coperture attive")
	case errors.Is(err, service.ErrCalendarWindowInvalid):
		response.BadRequest(c, 20202, "finestra del calendario non valida")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		handlePresidioError(c, err)
	}
}
