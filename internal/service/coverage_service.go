package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"workly/backend/internal/dto"
	"workly/backend/internal/model"
	"workly/backend/internal/repository"
	"workly/backend/internal/validation"
)

// CoverageService manages the slots inside a template. Every mutation
// bumps the owning template's version inside the repository
// transaction, so two administrators editing the same slot set race on
// the version guard and the loser sees ErrOptimisticLock.
type CoverageService interface {
	Add(ctx context.Context, templateID string, req *dto.CoverageRequest, callerID string) (*dto.CoverageResponse, []validation.FieldError, error)
	Update(ctx context.Context, id string, req *dto.CoverageRequest, callerID string) (*dto.CoverageResponse, []validation.FieldError, error)
	Delete(ctx context.Context, id string) error
}

type coverageService struct {
	repo     *repository.Repository
	registry *model.RoleRegistry
	inv      *cacheInvalidator
	logger   *zap.Logger
}

func NewCoverageService(repo *repository.Repository, registry *model.RoleRegistry, inv *cacheInvalidator, logger *zap.Logger) CoverageService {
	return &coverageService{repo: repo, registry: registry, inv: inv, logger: logger}
}

func (s *coverageService) Add(ctx context.Context, templateID string, req *dto.CoverageRequest, callerID string) (*dto.CoverageResponse, []validation.FieldError, error) {
	tmpl, err := s.repo.Template.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTemplateNotFound
		}
		return nil, nil, err
	}

	fields, report := validation.ValidateCoverage(req, s.registry, tmpl.Coverages)
	if report.Failed() {
		return nil, nil, report
	}

	cov := &model.Coverage{TemplateID: tmpl.TemplateID}
	applyCoverageFields(cov, fields)
	if err := s.repo.Coverage.Create(ctx, cov, tmpl.Version); err != nil {
		return nil, nil, err
	}
	s.inv.Invalidate(ctx)
	s.logger.Info("coverage slot added",
		zap.String("template_id", tmpl.TemplateID),
		zap.String("coverage_id", cov.CoverageID),
		zap.Int("day_of_week", cov.DayOfWeek),
		zap.String("time_range", cov.TimeRange()))
	return toCoverageResponse(cov), report.Warnings, nil
}

func (s *coverageService) Update(ctx context.Context, id string, req *dto.CoverageRequest, callerID string) (*dto.CoverageResponse, []validation.FieldError, error) {
	cov, err := s.getCoverage(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	siblings, err := s.repo.Coverage.ListByTemplate(ctx, cov.TemplateID)
	if err != nil {
		return nil, nil, err
	}
	others := make([]model.Coverage, 0, len(siblings))
	for _, sib := range siblings {
		if sib.CoverageID != cov.CoverageID {
			others = append(others, sib)
		}
	}

	fields, report := validation.ValidateCoverage(req, s.registry, others)
	if report.Failed() {
		return nil, nil, report
	}

	applyCoverageFields(cov, fields)
	cov.UpdatedBy = &callerID
	templateVersion := 0
	if cov.Template != nil {
		templateVersion = cov.Template.Version
	}
	if err := s.repo.Coverage.Update(ctx, cov, templateVersion); err != nil {
		return nil, nil, err
	}
	s.inv.Invalidate(ctx)
	return toCoverageResponse(cov), report.Warnings, nil
}

func (s *coverageService) Delete(ctx context.Context, id string) error {
	cov, err := s.getCoverage(ctx, id)
	if err != nil {
		return err
	}
	templateVersion := 0
	if cov.Template != nil {
		templateVersion = cov.Template.Version
	}
	if err := s.repo.Coverage.Delete(ctx, cov, templateVersion); err != nil {
		return err
	}
	s.inv.Invalidate(ctx)
	s.logger.Info("coverage slot deleted",
		zap.String("template_id", cov.TemplateID),
		zap.String("coverage_id", cov.CoverageID))
	return nil
}

func (s *coverageService) getCoverage(ctx context.Context, id string) (*model.Coverage, error) {
	cov, err := s.repo.Coverage.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCoverageNotFound
		}
		return nil, err
	}
	return cov, nil
}

func applyCoverageFields(cov *model.Coverage, fields *validation.CoverageFields) {
	cov.DayOfWeek = fields.DayOfWeek
	cov.StartTime = fields.StartTime
	cov.EndTime = fields.EndTime
	cov.BreakStart = fields.BreakStart
	cov.BreakEnd = fields.BreakEnd
	cov.RequiredRoles = fields.RequiredRoles
	cov.RoleCount = fields.RoleCount
	cov.Description = fields.Description
	cov.IsActive = fields.IsActive
}
