package dto

// ── Template requests ──

// TemplateRequest is the payload to create or update a coverage
// template. Updates replace the whole document: piecemeal updates are
// rejected at the API boundary so validation always sees a full state.
type TemplateRequest struct {
	Name        string `json:"name"        binding:"required"`
	StartDate   string `json:"start_date"  binding:"required"` // "YYYY-MM-DD"
	EndDate     string `json:"end_date"    binding:"required"` // "YYYY-MM-DD"
	Description string `json:"description"`
}

// TemplateListRequest filters the active-template listing.
type TemplateListRequest struct {
	AsOf string `form:"as_of"` // "YYYY-MM-DD", optional
}

// ── Template responses ──

// TemplateResponse is the template representation returned by the API.
type TemplateResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	StartDate   string             `json:"start_date"`
	EndDate     string             `json:"end_date"`
	Period      string             `json:"period"` // "dd/mm/yyyy - dd/mm/yyyy"
	Description string             `json:"description,omitempty"`
	IsActive    bool               `json:"is_active"`
	CreatedBy   string             `json:"created_by"`
	CreatedAt   string             `json:"created_at"`
	Coverages   []CoverageResponse `json:"coverages,omitempty"`
}

// TemplateSummaryResponse carries the derived weekly aggregates.
type TemplateSummaryResponse struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Period              string      `json:"period"`
	WeeklyHours         float64     `json:"weekly_hours"`
	CoveredWeekdays     []int       `json:"covered_weekdays"`
	InvolvedRoles       []string    `json:"involved_roles"`
	CoveredMinutesByDay map[int]int `json:"covered_minutes_by_day"`
}
