package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"workly/backend/internal/dto"
	"workly/backend/internal/model"
	"workly/backend/internal/repository"
	"workly/backend/internal/validation"
	"workly/backend/pkg/timeutil"
)

var (
	ErrTemplateNotFound = errors.New("modello di presidio non trovato")
	ErrCoverageNotFound = errors.New("copertura non trovata")
)

// TemplateService manages the lifecycle of coverage templates.
type TemplateService interface {
	Create(ctx context.Context, req *dto.TemplateRequest, callerID string) (*dto.TemplateResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TemplateResponse, error)
	ListActive(ctx context.Context, req *dto.TemplateListRequest) ([]dto.TemplateResponse, error)
	Update(ctx context.Context, id string, req *dto.TemplateRequest, callerID string) (*dto.TemplateResponse, error)
	SetActive(ctx context.Context, id string, active bool, callerID string) (*dto.TemplateResponse, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, id string) (*dto.TemplateSummaryResponse, error)
}

type templateService struct {
	repo     *repository.Repository
	registry *model.RoleRegistry
	inv      *cacheInvalidator
	loc      *time.Location
	logger   *zap.Logger
}

func NewTemplateService(repo *repository.Repository, registry *model.RoleRegistry, inv *cacheInvalidator, loc *time.Location, logger *zap.Logger) TemplateService {
	return &templateService{repo: repo, registry: registry, inv: inv, loc: loc, logger: logger}
}

func (s *templateService) Create(ctx context.Context, req *dto.TemplateRequest, callerID string) (*dto.TemplateResponse, error) {
	fields, report := validation.ValidateTemplate(req, timeutil.TodayIn(s.loc), true)
	if report.Failed() {
		return nil, report
	}

	tmpl := &model.CoverageTemplate{
		Name:        fields.Name,
		StartDate:   fields.StartDate,
		EndDate:     fields.EndDate,
		Description: fields.Description,
		IsActive:    true,
		CreatedBy:   callerID,
	}
	if err := s.repo.Template.Create(ctx, tmpl); err != nil {
		return nil, err
	}
	s.inv.Invalidate(ctx)
	s.logger.Info("coverage template created",
		zap.String("template_id", tmpl.TemplateID),
		zap.String("name", tmpl.Name),
		zap.String("created_by", callerID))
	return toTemplateResponse(tmpl, true), nil
}

func (s *templateService) GetByID(ctx context.Context, id string) (*dto.TemplateResponse, error) {
	tmpl, err := s.getTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTemplateResponse(tmpl, true), nil
}

func (s *templateService) ListActive(ctx context.Context, req *dto.TemplateListRequest) ([]dto.TemplateResponse, error) {
	var asOf *time.Time
	if req.AsOf != "" {
		d, err := timeutil.ParseDate(req.AsOf)
		if err != nil {
			return nil, validation.SingleError("as_of", validation.CodeDateFormatInvalid, "formato data non valido, usare YYYY-MM-DD")
		}
		asOf = &d
	}

	templates, err := s.repo.Template.ListActive(ctx, asOf)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TemplateResponse, 0, len(templates))
	for i := range templates {
		out = append(out, *toTemplateResponse(&templates[i], false))
	}
	return out, nil
}

// Update replaces the template document. Slots are untouched: they
// have their own endpoints and their own validation context.
func (s *templateService) Update(ctx context.Context, id string, req *dto.TemplateRequest, callerID string) (*dto.TemplateResponse, error) {
	tmpl, err := s.getTemplate(ctx, id)
	if err != nil {
		return nil, err
	}

	fields, report := validation.ValidateTemplate(req, timeutil.TodayIn(s.loc), false)
	if report.Failed() {
		return nil, report
	}

	tmpl.Name = fields.Name
	tmpl.StartDate = fields.StartDate
	tmpl.EndDate = fields.EndDate
	tmpl.Description = fields.Description
	tmpl.UpdatedBy = &callerID
	if err := s.repo.Template.Update(ctx, tmpl); err != nil {
		return nil, err
	}
	s.inv.Invalidate(ctx)
	return toTemplateResponse(tmpl, true), nil
}

func (s *templateService) SetActive(ctx context.Context, id string, active bool, callerID string) (*dto.TemplateResponse, error) {
	tmpl, err := s.getTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if tmpl.IsActive == active {
		return toTemplateResponse(tmpl, true), nil
	}

	if active {
		tmpl.Activate()
	} else {
		tmpl.Deactivate()
	}
	tmpl.UpdatedBy = &callerID
	if err := s.repo.Template.Update(ctx, tmpl); err != nil {
		return nil, err
	}
	s.inv.Invalidate(ctx)
	s.logger.Info("coverage template state changed",
		zap.String("template_id", tmpl.TemplateID),
		zap.Bool("is_active", active))
	return toTemplateResponse(tmpl, true), nil
}

func (s *templateService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Template.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}
	s.inv.Invalidate(ctx)
	s.logger.Info("coverage template deleted", zap.String("template_id", id))
	return nil
}

func (s *templateService) Summary(ctx context.Context, id string) (*dto.TemplateSummaryResponse, error) {
	tmpl, err := s.getTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.TemplateSummaryResponse{
		ID:                  tmpl.TemplateID,
		Name:                tmpl.Name,
		Period:              tmpl.PeriodDisplay(),
		WeeklyHours:         tmpl.WeeklyHours(),
		CoveredWeekdays:     tmpl.CoveredWeekdays(),
		InvolvedRoles:       tmpl.InvolvedRoles(),
		CoveredMinutesByDay: tmpl.CoveredMinutesByDay(),
	}, nil
}

func (s *templateService) getTemplate(ctx context.Context, id string) (*model.CoverageTemplate, error) {
	tmpl, err := s.repo.Template.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return tmpl, nil
}
