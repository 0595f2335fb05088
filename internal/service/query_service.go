package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"workly/backend/internal/dto"
	"workly/backend/internal/repository"
	"workly/backend/internal/validation"
	"workly/backend/pkg/redis"
	"workly/backend/pkg/timeutil"
)

// QueryService answers the read-side questions: which slots apply on a
// date or weekday, and which roles must be present at an instant.
type QueryService interface {
	Slots(ctx context.Context, req *dto.CoverageListRequest) ([]dto.CoverageResponse, error)
	RequiredRolesAt(ctx context.Context, req *dto.RequiredRolesRequest) (*dto.RequiredRolesResponse, error)
}

type queryService struct {
	repo     *repository.Repository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewQueryService(repo *repository.Repository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) QueryService {
	return &queryService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func (s *queryService) Slots(ctx context.Context, req *dto.CoverageListRequest) ([]dto.CoverageResponse, error) {
	var (
		dayOfWeek int
		asOf      *time.Time
	)
	switch {
	case req.Date != "":
		d, err := timeutil.ParseDate(req.Date)
		if err != nil {
			return nil, validation.SingleError("date", validation.CodeDateFormatInvalid, "formato data non valido, usare YYYY-MM-DD")
		}
		dayOfWeek = timeutil.DayOfWeek(d)
		asOf = &d
	case req.DayOfWeek != nil:
		if *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
			return nil, validation.SingleError("day_of_week", validation.CodeDayOutOfRange, "il giorno della settimana deve essere compreso tra 0 e 6")
		}
		dayOfWeek = *req.DayOfWeek
	default:
		return nil, validation.SingleError("date", validation.CodeDateFormatInvalid, "indicare una data o un giorno della settimana")
	}

	covs, err := s.repo.Coverage.ListForWeekday(ctx, dayOfWeek, asOf)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CoverageResponse, 0, len(covs))
	for i := range covs {
		out = append(out, *toCoverageResponse(&covs[i]))
	}
	return out, nil
}

// RequiredRolesAt sums the role requirements of every active slot of
// the date's weekday that contains the instant. Overlapping slots
// accumulate their counts. A night slot belongs to the weekday it
// starts on: its morning segment answers queries on that same weekday,
// never on the following one.
func (s *queryService) RequiredRolesAt(ctx context.Context, req *dto.RequiredRolesRequest) (*dto.RequiredRolesResponse, error) {
	date, err := timeutil.ParseDate(req.Date)
	if err != nil {
		return nil, validation.SingleError("date", validation.CodeDateFormatInvalid, "formato data non valido, usare YYYY-MM-DD")
	}
	minute, err := timeutil.ParseClock(req.Time)
	if err != nil || !timeutil.ValidClock(req.Time) {
		return nil, validation.SingleError("time", validation.CodeTimeFormatInvalid, "formato orario non valido, usare HH:MM")
	}

	if cached, ok := s.getCachedRoles(ctx, req.Date, req.Time); ok {
		return cached, nil
	}

	dayOfWeek := timeutil.DayOfWeek(date)
	required := map[string]int{}

	slots, err := s.repo.Coverage.ListForWeekday(ctx, dayOfWeek, &date)
	if err != nil {
		return nil, err
	}
	for i := range slots {
		if slots[i].ContainsInstant(minute) {
			for role, n := range slots[i].RequiredRoles {
				required[role] += n
			}
		}
	}

	total := 0
	for _, n := range required {
		total += n
	}
	resp := &dto.RequiredRolesResponse{
		Date:          req.Date,
		Time:          req.Time,
		DayOfWeek:     dayOfWeek,
		RequiredRoles: required,
		TotalRequired: total,
	}
	s.setCachedRoles(ctx, req.Date, req.Time, resp)
	return resp, nil
}

func (s *queryService) getCachedRoles(ctx context.Context, date, clock string) (*dto.RequiredRolesResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	key, err := s.rolesCacheKey(ctx, date, clock)
	if err != nil {
		return nil, false
	}
	raw, ok := s.cache.GetCached(ctx, key)
	if !ok {
		return nil, false
	}
	var resp dto.RequiredRolesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		s.logger.Warn("stale cache entry dropped", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &resp, true
}

func (s *queryService) setCachedRoles(ctx context.Context, date, clock string, resp *dto.RequiredRolesResponse) {
	if s.cache == nil {
		return
	}
	key, err := s.rolesCacheKey(ctx, date, clock)
	if err != nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	s.cache.SetCached(ctx, key, raw, s.cacheTTL)
}

// rolesCacheKey embeds the cache generation so every write-side
// Invalidate orphans all previous entries at once.
func (s *queryService) rolesCacheKey(ctx context.Context, date, clock string) (string, error) {
	gen, err := s.cache.CacheGeneration(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("presidio:roles_at:g%d:%s:%s", gen, date, clock), nil
}
