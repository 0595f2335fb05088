package validation

import (
	"strings"
	"time"

	"workly/backend/internal/dto"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 200

	// A new template may start at most this many days in the past.
	maxStartDateAgeDays = 30
)

// TemplateFields is the coerced, validated template payload.
type TemplateFields struct {
	Name        string
	StartDate   time.Time
	EndDate     time.Time
	Description string
}

// ValidateTemplate checks a template payload. The date-recency rules
// apply on creation only: editing a historical template must stay
// possible. today is the current civil date of the tenant.
func ValidateTemplate(req *dto.TemplateRequest, today time.Time, creating bool) (*TemplateFields, *Report) {
	report := &Report{}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		report.addError("name", CodeNameInvalid, "Il nome del template è obbligatorio")
	} else if len(name) > maxNameLength {
		report.addError("name", CodeNameInvalid, "Il nome non può superare 100 caratteri")
	}

	if len(req.Description) > maxDescriptionLength {
		report.addError("description", CodeDescriptionInvalid, "La descrizione non può superare 200 caratteri")
	}

	startDate, startErr := time.Parse("2006-01-02", req.StartDate)
	if startErr != nil {
		report.addError("start_date", CodeDateFormatInvalid, "Formato data non valido. Usa AAAA-MM-GG")
	}
	endDate, endErr := time.Parse("2006-01-02", req.EndDate)
	if endErr != nil {
		report.addError("end_date", CodeDateFormatInvalid, "Formato data non valido. Usa AAAA-MM-GG")
	}

	if startErr == nil && endErr == nil && endDate.Before(startDate) {
		report.addError("end_date", CodeDateOrderInvalid,
			"La data di fine validità deve essere successiva alla data di inizio")
	}

	if creating {
		if startErr == nil && startDate.Before(today.AddDate(0, 0, -maxStartDateAgeDays)) {
			report.addError("start_date", CodeStartTooOld,
				"La data di inizio non può essere più di 30 giorni nel passato")
		}
		if endErr == nil && endDate.Before(today) {
			report.addError("end_date", CodeEndInPast,
				"La data di fine validità non può essere nel passato")
		}
	}

	if report.Failed() {
		return nil, report
	}

	return &TemplateFields{
		Name:        name,
		StartDate:   startDate,
		EndDate:     endDate,
		Description: req.Description,
	}, report
}
