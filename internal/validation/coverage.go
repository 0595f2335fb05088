package validation

import (
	"fmt"

	"workly/backend/internal/dto"
	"workly/backend/internal/model"
	"workly/backend/pkg/timeutil"
)

const (
	// Longest admissible slot, night-spanning rule applied.
	maxSlotMinutes = 16 * 60
	// Longest admissible unpaid break.
	maxBreakMinutes = 2 * 60

	minRoleCount = 1
	maxRoleCount = 10
)

// CoverageFields is the coerced, validated slot payload.
type CoverageFields struct {
	DayOfWeek     int
	StartTime     string
	EndTime       string
	BreakStart    *string
	BreakEnd      *string
	RequiredRoles model.RoleRequirement
	RoleCount     int
	Description   string
	IsActive      bool
}

// ValidateCoverage checks a slot payload against the role registry and
// the sibling active slots of the same template (for the overlap
// warning). Rules run in a fixed order; all independent failures are
// collected so the caller sees the whole picture at once.
func ValidateCoverage(req *dto.CoverageRequest, registry *model.RoleRegistry, siblings []model.Coverage) (*CoverageFields, *Report) {
	report := &Report{}

	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		report.addError("day_of_week", CodeDayOutOfRange, "Giorno della settimana non valido")
	}

	start, end := -1, -1
	if !timeutil.ValidClock(req.StartTime) {
		report.addError("start_time", CodeTimeFormatInvalid, "Formato ora non valido. Usa HH:MM")
	} else {
		start, _ = timeutil.ParseClock(req.StartTime)
	}
	if !timeutil.ValidClock(req.EndTime) {
		report.addError("end_time", CodeTimeFormatInvalid, "Formato ora non valido. Usa HH:MM")
	} else {
		end, _ = timeutil.ParseClock(req.EndTime)
	}

	if start >= 0 && end >= 0 {
		if end == start {
			report.addError("end_time", CodeDurationInvalid,
				"L'ora di fine deve essere diversa dall'ora di inizio")
		} else if timeutil.IntervalMinutes(start, end) > maxSlotMinutes {
			report.addError("end_time", CodeDurationInvalid,
				"La copertura non può durare più di 16 ore consecutive")
		}
	}

	if len(req.RequiredRoles) == 0 {
		report.addError("required_roles", CodeNoRolesRequired, "Seleziona almeno un ruolo richiesto")
	}
	for _, role := range sortedRoles(req.RequiredRoles) {
		if !registry.IsValid(role) {
			report.addError("required_roles", CodeUnknownRole,
				fmt.Sprintf("Ruolo non valido: %s", role))
			continue
		}
		if count := req.RequiredRoles[role]; count < minRoleCount || count > maxRoleCount {
			report.addError("required_roles", CodeCountOutOfRange,
				fmt.Sprintf("Il numero di persone per %s deve essere tra 1 e 10", role))
		}
	}

	roleCount := 1
	if req.RoleCount != nil {
		roleCount = *req.RoleCount
		if roleCount < minRoleCount || roleCount > maxRoleCount {
			report.addError("role_count", CodeCountOutOfRange, "Il numero deve essere tra 1 e 10")
		}
	}

	validateBreak(report, req, start, end)

	if len(req.Description) > maxDescriptionLength {
		report.addError("description", CodeDescriptionInvalid, "La descrizione non può superare 200 caratteri")
	}

	if report.Failed() {
		return nil, report
	}

	fields := &CoverageFields{
		DayOfWeek:     req.DayOfWeek,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		BreakStart:    emptyToNil(req.BreakStart),
		BreakEnd:      emptyToNil(req.BreakEnd),
		RequiredRoles: model.RoleRequirement(req.RequiredRoles).Clone(),
		RoleCount:     roleCount,
		Description:   req.Description,
		IsActive:      true,
	}
	if req.IsActive != nil {
		fields.IsActive = *req.IsActive
	}

	// Overlap against sibling active slots on the same weekday is a
	// soft warning: an administrator may overlap on purpose.
	candidate := &model.Coverage{
		DayOfWeek: fields.DayOfWeek,
		StartTime: fields.StartTime,
		EndTime:   fields.EndTime,
	}
	for i := range siblings {
		if !siblings[i].IsActive {
			continue
		}
		if candidate.Overlaps(&siblings[i]) {
			report.addWarning("start_time", CodeSlotOverlap,
				fmt.Sprintf("La copertura si sovrappone a un'altra copertura di %s (%s)",
					siblings[i].DayName(), siblings[i].TimeRange()))
		}
	}

	return fields, report
}

// validateBreak checks the break pair: both endpoints or neither, valid
// clock format, ordered, contained in the slot interval, at most two
// hours. For a night-spanning slot the break must fall entirely inside
// one linear segment (the evening run to midnight or the morning run
// from it).
func validateBreak(report *Report, req *dto.CoverageRequest, start, end int) {
	bs := emptyToNil(req.BreakStart)
	be := emptyToNil(req.BreakEnd)

	if bs == nil && be == nil {
		return
	}
	if bs == nil {
		report.addError("break_start", CodeBreakPairMismatch,
			"Se inserisci l'ora di fine pausa, devi inserire anche l'ora di inizio")
		return
	}
	if be == nil {
		report.addError("break_end", CodeBreakPairMismatch,
			"Se inserisci l'ora di inizio pausa, devi inserire anche l'ora di fine")
		return
	}

	if !timeutil.ValidClock(*bs) {
		report.addError("break_start", CodeTimeFormatInvalid, "Formato ora non valido. Usa HH:MM")
		return
	}
	if !timeutil.ValidClock(*be) {
		report.addError("break_end", CodeTimeFormatInvalid, "Formato ora non valido. Usa HH:MM")
		return
	}

	breakStart, _ := timeutil.ParseClock(*bs)
	breakEnd, _ := timeutil.ParseClock(*be)

	if breakEnd <= breakStart {
		report.addError("break_end", CodeBreakOrderInvalid,
			"L'ora di fine pausa deve essere successiva all'ora di inizio pausa")
		return
	}

	// Containment needs a valid slot interval to check against.
	if start < 0 || end < 0 || end == start {
		return
	}

	var contained bool
	if end > start {
		contained = breakStart >= start && breakEnd <= end
	} else {
		// Night-spanning: evening segment [start, 24:00) or morning
		// segment [00:00, end].
		contained = breakStart >= start || breakEnd <= end
	}
	if !contained {
		report.addError("break_start", CodeBreakOutOfRange,
			"La pausa deve essere compresa nell'orario di copertura")
		return
	}

	if breakEnd-breakStart > maxBreakMinutes {
		report.addError("break_end", CodeBreakTooLong, "La pausa non può durare più di 2 ore")
	}
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func sortedRoles(m map[string]int) []string {
	return model.RoleRequirement(m).Roles()
}
