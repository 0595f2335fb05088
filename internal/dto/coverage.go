package dto

// ── Coverage slot requests ──

// CoverageRequest is the payload to create or update a coverage slot.
// Time strings are strict 24-hour "HH:MM". An end time before or equal
// to the start time means the slot crosses midnight.
type CoverageRequest struct {
	DayOfWeek     int            `json:"day_of_week"` // 0=Lunedì .. 6=Domenica
	StartTime     string         `json:"start_time"  binding:"required"`
	EndTime       string         `json:"end_time"    binding:"required"`
	BreakStart    *string        `json:"break_start"`
	BreakEnd      *string        `json:"break_end"`
	RequiredRoles map[string]int `json:"required_roles"`
	RoleCount     *int           `json:"role_count"`
	Description   string         `json:"description"`
	IsActive      *bool          `json:"is_active"`
}

// CoverageListRequest filters the slot listing. Either a concrete date
// or a bare weekday may be given; the date additionally restricts the
// result to templates whose validity period contains it.
type CoverageListRequest struct {
	Date      string `form:"date"`        // "YYYY-MM-DD", optional
	DayOfWeek *int   `form:"day_of_week"` // 0..6, optional
}

// RequiredRolesRequest asks which roles must be present at an instant.
type RequiredRolesRequest struct {
	Date string `form:"date" binding:"required"` // "YYYY-MM-DD"
	Time string `form:"time" binding:"required"` // "HH:MM"
}

// CalendarRequest bounds the ICS export window.
type CalendarRequest struct {
	From string `form:"from"` // "YYYY-MM-DD", defaults to the template start
	To   string `form:"to"`   // "YYYY-MM-DD", defaults to the template end
}

// ── Coverage slot responses ──

// CoverageResponse is the slot representation returned by the API.
type CoverageResponse struct {
	ID             string         `json:"id"`
	TemplateID     string         `json:"template_id"`
	DayOfWeek      int            `json:"day_of_week"`
	DayName        string         `json:"day_name"`
	StartTime      string         `json:"start_time"`
	EndTime        string         `json:"end_time"`
	TimeRange      string         `json:"time_range"`
	BreakStart     *string        `json:"break_start,omitempty"`
	BreakEnd       *string        `json:"break_end,omitempty"`
	RequiredRoles  map[string]int `json:"required_roles"`
	RolesDisplay   string         `json:"roles_display"`
	RoleCount      int            `json:"role_count"`
	Description    string         `json:"description,omitempty"`
	IsActive       bool           `json:"is_active"`
	DurationHours  float64        `json:"duration_hours"`
	EffectiveHours float64        `json:"effective_hours"`
	CreatedAt      string         `json:"created_at"`
}

// RequiredRolesResponse answers "who must be on duty at date D, time T".
// Counts accumulate across overlapping slots: a role required by two
// slots at the same instant is required twice.
type RequiredRolesResponse struct {
	Date          string         `json:"date"`
	Time          string         `json:"time"`
	DayOfWeek     int            `json:"day_of_week"`
	RequiredRoles map[string]int `json:"required_roles"`
	TotalRequired int            `json:"total_required"`
}
