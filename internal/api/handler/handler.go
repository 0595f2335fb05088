package handler

import "workly/backend/internal/service"

// Handler aggregates the HTTP handlers of the API.
type Handler struct {
	Template *TemplateHandler
	Coverage *CoverageHandler
	Query    *QueryHandler
	Export   *ExportHandler
}

// NewHandler builds the aggregate over the service layer.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Template: NewTemplateHandler(svc.Template),
		Coverage: NewCoverageHandler(svc.Coverage),
		Query:    NewQueryHandler(svc.Query),
		Export:   NewExportHandler(svc.Export, svc.Calendar),
	}
}
