package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"workly/backend/internal/dto"
	"workly/backend/internal/repository"
	"workly/backend/internal/validation"
	"workly/backend/pkg/timeutil"
)

// maxCalendarDays caps the materialized window so a careless request
// cannot expand a multi-year template into an unbounded feed.
const maxCalendarDays = 366

var ErrCalendarWindowInvalid = errors.New("finestra del calendario non valida")

// CalendarService materializes the weekly recurrence rules of a
// template into concrete VEVENTs over a bounded date window.
type CalendarService interface {
	Feed(ctx context.Context, templateID string, req *dto.CalendarRequest) (string, error)
}

type calendarService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

func NewCalendarService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, loc: loc, logger: logger}
}

// Feed returns the serialized ICS text. The window defaults to the
// template validity period and is always clipped to it.
func (s *calendarService) Feed(ctx context.Context, templateID string, req *dto.CalendarRequest) (string, error) {
	tmpl, err := s.repo.Template.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrTemplateNotFound
		}
		return "", err
	}

	from, to := tmpl.StartDate, tmpl.EndDate
	if req.From != "" {
		if from, err = timeutil.ParseDate(req.From); err != nil {
			return "", validation.SingleError("from", validation.CodeDateFormatInvalid, "formato data non valido, usare YYYY-MM-DD")
		}
	}
	if req.To != "" {
		if to, err = timeutil.ParseDate(req.To); err != nil {
			return "", validation.SingleError("to", validation.CodeDateFormatInvalid, "formato data non valido, usare YYYY-MM-DD")
		}
	}

	// Clip to the validity period.
	if from.Before(tmpl.StartDate) {
		from = tmpl.StartDate
	}
	if to.After(tmpl.EndDate) {
		to = tmpl.EndDate
	}
	if to.Before(from) {
		return "", ErrCalendarWindowInvalid
	}
	if to.Sub(from) > maxCalendarDays*24*time.Hour {
		to = from.AddDate(0, 0, maxCalendarDays)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Workly//Presidio//IT")
	cal.SetXWRCalName(fmt.Sprintf("Presidio — %s", tmpl.Name))

	events := 0
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		dow := timeutil.DayOfWeek(date)
		for i := range tmpl.Coverages {
			cov := &tmpl.Coverages[i]
			if !cov.IsActive || !tmpl.IsActive || cov.DayOfWeek != dow {
				continue
			}

			start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.loc).
				Add(time.Duration(cov.StartMinutes()) * time.Minute)
			end := start.Add(time.Duration(cov.DurationMinutes()) * time.Minute)

			uid := fmt.Sprintf("%s-%s@workly", cov.CoverageID, date.Format("20060102"))
			evt := cal.AddEvent(uid)
			evt.SetDtStampTime(time.Now().UTC())
			evt.SetStartAt(start)
			evt.SetEndAt(end)
			evt.SetSummary(fmt.Sprintf("Presidio: %s", cov.RolesDisplay()))
			if cov.Description != "" {
				evt.SetDescription(cov.Description)
			}
			events++
		}
	}

	s.logger.Debug("calendar feed generated",
		zap.String("template_id", tmpl.TemplateID),
		zap.Int("events", events))
	return cal.Serialize(), nil
}
