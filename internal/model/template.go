package model

import (
	"fmt"
	"sort"
	"time"

	"workly/backend/pkg/timeutil"
)

// CoverageTemplate is a named, date-bounded set of weekly coverage
// slots. The template exclusively owns its slots: deleting it cascades.
// Expiration is expressed by end_date alone; is_active is an explicit
// administrative switch and never flips on its own.
type CoverageTemplate struct {
	TemplateID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"template_id"`
	Name        string    `gorm:"type:varchar(100);not null"                     json:"name"`
	StartDate   time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate     time.Time `gorm:"type:date;not null"                             json:"end_date"`
	Description string    `gorm:"type:varchar(200)"                              json:"description,omitempty"`
	IsActive    bool      `gorm:"not null;default:true"                          json:"is_active"`
	CreatedBy   string    `gorm:"type:uuid;not null"                             json:"created_by"`
	VersionedModel

	Coverages []Coverage `gorm:"foreignKey:TemplateID;references:TemplateID;constraint:OnDelete:CASCADE" json:"coverages,omitempty"`
}

// TableName maps the struct to its table.
func (CoverageTemplate) TableName() string { return "presidio_coverage_templates" }

// activeCoverages iterates the active slots only.
func (t *CoverageTemplate) activeCoverages() []*Coverage {
	out := make([]*Coverage, 0, len(t.Coverages))
	for i := range t.Coverages {
		if t.Coverages[i].IsActive {
			out = append(out, &t.Coverages[i])
		}
	}
	return out
}

// WeeklyHours sums the duration of all active slots over one week.
// Breaks do not subtract: presence is still required during a break.
func (t *CoverageTemplate) WeeklyHours() float64 {
	total := 0.0
	for _, c := range t.activeCoverages() {
		total += c.DurationHours()
	}
	return total
}

// CoveredWeekdays returns the distinct weekdays with at least one
// active slot, ascending.
func (t *CoverageTemplate) CoveredWeekdays() []int {
	seen := make(map[int]struct{})
	for _, c := range t.activeCoverages() {
		seen[c.DayOfWeek] = struct{}{}
	}
	days := make([]int, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// InvolvedRoles returns the union of role identifiers across active
// slots, in lexical order.
func (t *CoverageTemplate) InvolvedRoles() []string {
	seen := make(map[string]struct{})
	for _, c := range t.activeCoverages() {
		for role := range c.RequiredRoles {
			seen[role] = struct{}{}
		}
	}
	roles := make([]string, 0, len(seen))
	for role := range seen {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// CoveredMinutesByDay sums the slot durations of active slots per
// weekday. Breaks count as coverage here; EffectiveHours serves the
// payroll-adjacent aggregates instead.
func (t *CoverageTemplate) CoveredMinutesByDay() map[int]int {
	out := make(map[int]int)
	for _, c := range t.activeCoverages() {
		out[c.DayOfWeek] += c.DurationMinutes()
	}
	return out
}

// ContainsDate reports whether the validity period contains date.
func (t *CoverageTemplate) ContainsDate(date time.Time) bool {
	return !date.Before(t.StartDate) && !date.After(t.EndDate)
}

// PeriodDisplay renders the validity period as "dd/mm/yyyy - dd/mm/yyyy".
func (t *CoverageTemplate) PeriodDisplay() string {
	return fmt.Sprintf("%s - %s",
		timeutil.FormatDateIT(t.StartDate),
		timeutil.FormatDateIT(t.EndDate))
}

// Activate turns the template on. Slots are untouched.
func (t *CoverageTemplate) Activate() { t.IsActive = true }

// Deactivate turns the template off. Slots are untouched.
func (t *CoverageTemplate) Deactivate() { t.IsActive = false }
