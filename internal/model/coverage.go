package model

import (
	"fmt"
	"strings"
	"time"

	"workly/backend/pkg/timeutil"
)

// dayNames are the Italian weekday names, Monday first, matching the
// persisted day_of_week numbering.
var dayNames = []string{"Lunedì", "Martedì", "Mercoledì", "Giovedì", "Venerdì", "Sabato", "Domenica"}

// Coverage is one weekly recurrence rule of a template: on day_of_week,
// between start_time and end_time, the roles in required_roles must be
// present. end_time <= start_time means the interval crosses midnight.
type Coverage struct {
	CoverageID    string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"coverage_id"`
	TemplateID    string          `gorm:"type:uuid;not null"                             json:"template_id"`
	DayOfWeek     int             `gorm:"type:smallint;not null"                         json:"day_of_week"` // 0=Lunedì .. 6=Domenica
	StartTime     string          `gorm:"type:time;not null"                             json:"start_time"`
	EndTime       string          `gorm:"type:time;not null"                             json:"end_time"`
	BreakStart    *string         `gorm:"type:time"                                      json:"break_start,omitempty"`
	BreakEnd      *string         `gorm:"type:time"                                      json:"break_end,omitempty"`
	RequiredRoles RoleRequirement `gorm:"type:text;not null"                             json:"required_roles"`
	RoleCount     int             `gorm:"not null;default:1"                             json:"role_count"` // legacy scalar, superseded by RequiredRoles counts
	Description   string          `gorm:"type:varchar(200)"                              json:"description,omitempty"`
	IsActive      bool            `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	Template *CoverageTemplate `gorm:"foreignKey:TemplateID;references:TemplateID" json:"template,omitempty"`
}

// TableName maps the struct to its table.
func (Coverage) TableName() string { return "presidio_coverages" }

// clockMinutes converts a stored clock value to minutes from midnight.
// Stored values already passed validation, so a parse failure can only
// come from manual tampering; it degrades to midnight.
func clockMinutes(s string) int {
	m, err := timeutil.ParseClock(s)
	if err != nil {
		return 0
	}
	return m
}

// StartMinutes is start_time as minutes from midnight.
func (c *Coverage) StartMinutes() int { return clockMinutes(c.StartTime) }

// EndMinutes is end_time as minutes from midnight.
func (c *Coverage) EndMinutes() int { return clockMinutes(c.EndTime) }

// DurationMinutes is the slot length, night-spanning rule applied.
func (c *Coverage) DurationMinutes() int {
	return timeutil.IntervalMinutes(c.StartMinutes(), c.EndMinutes())
}

// DurationHours is the slot length in hours.
func (c *Coverage) DurationHours() float64 {
	return float64(c.DurationMinutes()) / 60
}

// BreakMinutes is the unpaid break length, zero when no break is set.
func (c *Coverage) BreakMinutes() int {
	if c.BreakStart == nil || c.BreakEnd == nil {
		return 0
	}
	return clockMinutes(*c.BreakEnd) - clockMinutes(*c.BreakStart)
}

// EffectiveHours is the worked time net of the break, never negative.
func (c *Coverage) EffectiveHours() float64 {
	hours := c.DurationHours() - float64(c.BreakMinutes())/60
	if hours < 0 {
		return 0
	}
	return hours
}

// Overlaps reports whether two slots on the same weekday share any
// instant. Intervals are half-open, so end == other.start only touches.
func (c *Coverage) Overlaps(other *Coverage) bool {
	if other == nil || c.DayOfWeek != other.DayOfWeek {
		return false
	}
	return c.StartMinutes() < other.EndMinutes() && other.StartMinutes() < c.EndMinutes()
}

// AppliesOn reports whether this slot is in force on date: the slot and
// its template are active, the template period contains the date, and
// the weekday matches.
func (c *Coverage) AppliesOn(date time.Time) bool {
	if !c.IsActive || c.Template == nil || !c.Template.IsActive {
		return false
	}
	if date.Before(c.Template.StartDate) || date.After(c.Template.EndDate) {
		return false
	}
	return timeutil.DayOfWeek(date) == c.DayOfWeek
}

// ContainsInstant reports whether the given minute of day falls inside
// the slot. Intervals are half-open: the end instant is excluded. A
// night-spanning slot contains an instant when it falls in either the
// evening segment [start, 24:00) or the morning segment [00:00, end).
func (c *Coverage) ContainsInstant(minuteOfDay int) bool {
	start, end := c.StartMinutes(), c.EndMinutes()
	if end <= start {
		return minuteOfDay >= start || minuteOfDay < end
	}
	return minuteOfDay >= start && minuteOfDay < end
}

// ── Display helpers (presentation only, no business contract) ──

// DayName returns the Italian weekday name.
func (c *Coverage) DayName() string {
	if c.DayOfWeek < 0 || c.DayOfWeek >= len(dayNames) {
		return "Sconosciuto"
	}
	return dayNames[c.DayOfWeek]
}

// TimeRange renders the slot interval as "HH:MM - HH:MM".
func (c *Coverage) TimeRange() string {
	return fmt.Sprintf("%s - %s",
		timeutil.FormatClock(c.StartMinutes()),
		timeutil.FormatClock(c.EndMinutes()))
}

// BreakRange renders the break interval, or "" when no break is set.
func (c *Coverage) BreakRange() string {
	if c.BreakStart == nil || c.BreakEnd == nil {
		return ""
	}
	return fmt.Sprintf("%s - %s",
		timeutil.FormatClock(clockMinutes(*c.BreakStart)),
		timeutil.FormatClock(clockMinutes(*c.BreakEnd)))
}

// RolesDisplay renders the requirement as "Ruolo x2, Altro".
func (c *Coverage) RolesDisplay() string {
	if len(c.RequiredRoles) == 0 {
		return "Nessun ruolo"
	}
	parts := make([]string, 0, len(c.RequiredRoles))
	for _, role := range c.RequiredRoles.Roles() {
		if count := c.RequiredRoles[role]; count > 1 {
			parts = append(parts, fmt.Sprintf("%s x%d", role, count))
		} else {
			parts = append(parts, role)
		}
	}
	return strings.Join(parts, ", ")
}
