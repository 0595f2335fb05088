package model

import (
	"testing"
	"time"

	"workly/backend/pkg/timeutil"
)

func strPtr(s string) *string { return &s }

func date(s string) time.Time {
	d, err := timeutil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func minute(s string) int {
	m, err := timeutil.ParseClock(s)
	if err != nil {
		panic(err)
	}
	return m
}

func TestCoverage_DurationHours(t *testing.T) {
	day := &Coverage{StartTime: "09:00", EndTime: "13:00"}
	if got := day.DurationHours(); got != 4 {
		t.Errorf("09:00-13:00 = %v hours, want 4", got)
	}

	night := &Coverage{StartTime: "22:00", EndTime: "06:00"}
	if got := night.DurationHours(); got != 8 {
		t.Errorf("22:00-06:00 = %v hours, want 8", got)
	}

	// 08:00-00:00 is exactly the 16 hour cap.
	long := &Coverage{StartTime: "08:00", EndTime: "00:00"}
	if got := long.DurationHours(); got != 16 {
		t.Errorf("08:00-00:00 = %v hours, want 16", got)
	}
}

func TestCoverage_EffectiveHours(t *testing.T) {
	c := &Coverage{
		StartTime:  "09:00",
		EndTime:    "13:00",
		BreakStart: strPtr("11:00"),
		BreakEnd:   strPtr("11:30"),
	}
	if got := c.EffectiveHours(); got != 3.5 {
		t.Errorf("EffectiveHours = %v, want 3.5", got)
	}

	noBreak := &Coverage{StartTime: "09:00", EndTime: "13:00"}
	if got := noBreak.EffectiveHours(); got != 4 {
		t.Errorf("EffectiveHours without break = %v, want 4", got)
	}
}

func TestCoverage_ContainsInstant_HalfOpen(t *testing.T) {
	c := &Coverage{StartTime: "09:00", EndTime: "13:00"}

	if !c.ContainsInstant(minute("09:00")) {
		t.Error("start instant must be contained")
	}
	if !c.ContainsInstant(minute("12:59")) {
		t.Error("12:59 must be contained")
	}
	if c.ContainsInstant(minute("13:00")) {
		t.Error("end instant must be excluded")
	}
	if c.ContainsInstant(minute("08:59")) {
		t.Error("instant before start must be excluded")
	}
}

func TestCoverage_ContainsInstant_NightSpanning(t *testing.T) {
	c := &Coverage{StartTime: "22:00", EndTime: "06:00"}

	if !c.ContainsInstant(minute("23:30")) {
		t.Error("23:30 belongs to the evening segment")
	}
	if !c.ContainsInstant(minute("02:00")) {
		t.Error("02:00 belongs to the morning segment")
	}
	if c.ContainsInstant(minute("06:00")) {
		t.Error("end instant must be excluded")
	}
	if c.ContainsInstant(minute("12:00")) {
		t.Error("midday is outside the slot")
	}
}

func TestCoverage_Overlaps(t *testing.T) {
	a := &Coverage{DayOfWeek: 0, StartTime: "09:00", EndTime: "13:00"}
	b := &Coverage{DayOfWeek: 0, StartTime: "12:00", EndTime: "14:00"}
	c := &Coverage{DayOfWeek: 0, StartTime: "13:00", EndTime: "15:00"}
	d := &Coverage{DayOfWeek: 1, StartTime: "09:00", EndTime: "13:00"}

	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Error("09-13 and 12-14 on the same day must overlap")
	}
	if a.Overlaps(c) {
		t.Error("boundary touch (end == next start) must not overlap")
	}
	if a.Overlaps(d) {
		t.Error("different weekdays never overlap")
	}
	if a.Overlaps(nil) {
		t.Error("nil other must not overlap")
	}
}

func TestCoverage_AppliesOn(t *testing.T) {
	tmpl := &CoverageTemplate{
		StartDate: date("2025-01-01"),
		EndDate:   date("2025-12-31"),
		IsActive:  true,
	}
	c := &Coverage{
		DayOfWeek: 4, // venerdì
		StartTime: "22:00",
		EndTime:   "06:00",
		IsActive:  true,
		Template:  tmpl,
	}

	if !c.AppliesOn(date("2025-03-07")) { // Friday
		t.Error("slot must apply on a Friday inside the period")
	}
	// The night slot belongs to Friday; Saturday is another weekday.
	if c.AppliesOn(date("2025-03-08")) {
		t.Error("slot must not apply on Saturday")
	}
	if c.AppliesOn(date("2024-12-27")) {
		t.Error("slot must not apply before the template period")
	}

	tmpl.IsActive = false
	if c.AppliesOn(date("2025-03-07")) {
		t.Error("slot must not apply when the template is inactive")
	}
	tmpl.IsActive = true

	c.IsActive = false
	if c.AppliesOn(date("2025-03-07")) {
		t.Error("inactive slot must not apply")
	}
}

func TestCoverage_DisplayHelpers(t *testing.T) {
	c := &Coverage{
		DayOfWeek:     0,
		StartTime:     "09:00",
		EndTime:       "13:00",
		BreakStart:    strPtr("11:00"),
		BreakEnd:      strPtr("11:30"),
		RequiredRoles: RoleRequirement{"Operatore": 2, "Redattore": 1},
	}

	if got := c.DayName(); got != "Lunedì" {
		t.Errorf("DayName = %s", got)
	}
	if got := c.TimeRange(); got != "09:00 - 13:00" {
		t.Errorf("TimeRange = %s", got)
	}
	if got := c.BreakRange(); got != "11:00 - 11:30" {
		t.Errorf("BreakRange = %s", got)
	}
	if got := c.RolesDisplay(); got != "Operatore x2, Redattore" {
		t.Errorf("RolesDisplay = %s", got)
	}

	empty := &Coverage{DayOfWeek: 9}
	if got := empty.DayName(); got != "Sconosciuto" {
		t.Errorf("DayName out of range = %s", got)
	}
	if got := empty.RolesDisplay(); got != "Nessun ruolo" {
		t.Errorf("RolesDisplay empty = %s", got)
	}
}
