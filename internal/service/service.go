package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"workly/backend/config"
	"workly/backend/internal/dto"
	"workly/backend/internal/model"
	"workly/backend/internal/repository"
	"workly/backend/pkg/redis"
	"workly/backend/pkg/timeutil"
)

// Service aggregates the business services of the coverage engine.
type Service struct {
	Template TemplateService
	Coverage CoverageService
	Query    QueryService
	Export   ExportService
	Calendar CalendarService
}

// NewService wires the services. cache may be nil: the engine then
// runs without the read-side cache, nothing else changes.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	registry *model.RoleRegistry,
	cache *redis.Client,
	loc *time.Location,
	logger *zap.Logger,
) *Service {
	inv := &cacheInvalidator{cache: cache, logger: logger}
	return &Service{
		Template: NewTemplateService(repo, registry, inv, loc, logger),
		Coverage: NewCoverageService(repo, registry, inv, logger),
		Query:    NewQueryService(repo, cache, cfg.Presidio.CacheTTL, logger),
		Export:   NewExportService(repo, logger),
		Calendar: NewCalendarService(repo, loc, logger),
	}
}

// cacheInvalidator bumps the query-cache generation after writes.
// With no cache configured it is a no-op.
type cacheInvalidator struct {
	cache  *redis.Client
	logger *zap.Logger
}

func (i *cacheInvalidator) Invalidate(ctx context.Context) {
	if i.cache == nil {
		return
	}
	if err := i.cache.BumpCacheGeneration(ctx); err != nil {
		i.logger.Warn("query cache invalidation failed", zap.Error(err))
	}
}

// ── Response conversions ──

const timestampLayout = "2006-01-02T15:04:05Z"

func toCoverageResponse(c *model.Coverage) *dto.CoverageResponse {
	resp := &dto.CoverageResponse{
		ID:             c.CoverageID,
		TemplateID:     c.TemplateID,
		DayOfWeek:      c.DayOfWeek,
		DayName:        c.DayName(),
		StartTime:      timeutil.FormatClock(c.StartMinutes()),
		EndTime:        timeutil.FormatClock(c.EndMinutes()),
		TimeRange:      c.TimeRange(),
		RequiredRoles:  c.RequiredRoles.Clone(),
		RolesDisplay:   c.RolesDisplay(),
		RoleCount:      c.RoleCount,
		Description:    c.Description,
		IsActive:       c.IsActive,
		DurationHours:  c.DurationHours(),
		EffectiveHours: c.EffectiveHours(),
		CreatedAt:      c.CreatedAt.Format(timestampLayout),
	}
	if c.BreakStart != nil && c.BreakEnd != nil {
		bs := timeutil.FormatClock(clockMinutesOrZero(*c.BreakStart))
		be := timeutil.FormatClock(clockMinutesOrZero(*c.BreakEnd))
		resp.BreakStart = &bs
		resp.BreakEnd = &be
	}
	return resp
}

func toTemplateResponse(t *model.CoverageTemplate, withCoverages bool) *dto.TemplateResponse {
	resp := &dto.TemplateResponse{
		ID:          t.TemplateID,
		Name:        t.Name,
		StartDate:   timeutil.FormatDate(t.StartDate),
		EndDate:     timeutil.FormatDate(t.EndDate),
		Period:      t.PeriodDisplay(),
		Description: t.Description,
		IsActive:    t.IsActive,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt.Format(timestampLayout),
	}
	if withCoverages {
		resp.Coverages = make([]dto.CoverageResponse, 0, len(t.Coverages))
		for i := range t.Coverages {
			resp.Coverages = append(resp.Coverages, *toCoverageResponse(&t.Coverages[i]))
		}
	}
	return resp
}

func clockMinutesOrZero(s string) int {
	m, err := timeutil.ParseClock(s)
	if err != nil {
		return 0
	}
	return m
}
