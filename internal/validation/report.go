package validation

import "fmt"

// Code names a validation failure. Codes are stable API identifiers;
// the human message next to them is Italian and presentational only.
type Code string

const (
	CodeNameInvalid        Code = "NameInvalid"
	CodeDescriptionInvalid Code = "DescriptionInvalid"
	CodeDateFormatInvalid  Code = "DateFormatInvalid"
	CodeDateOrderInvalid   Code = "DateOrderInvalid"
	CodeStartTooOld        Code = "StartTooOld"
	CodeEndInPast          Code = "EndInPast"

	CodeDayOutOfRange     Code = "DayOutOfRange"
	CodeTimeFormatInvalid Code = "TimeFormatInvalid"
	CodeDurationInvalid   Code = "DurationInvalid"
	CodeNoRolesRequired   Code = "NoRolesRequired"
	CodeUnknownRole       Code = "UnknownRole"
	CodeCountOutOfRange   Code = "CountOutOfRange"
	CodeBreakPairMismatch Code = "BreakPairMismatch"
	CodeBreakOrderInvalid Code = "BreakOrderInvalid"
	CodeBreakOutOfRange   Code = "BreakOutOfRange"
	CodeBreakTooLong      Code = "BreakTooLong"

	// CodeSlotOverlap is a warning, never a hard failure: administrators
	// may overlap slots on purpose, the report just surfaces the intent.
	CodeSlotOverlap Code = "SlotOverlap"
)

// FieldError is one (field, code, message) validation triple.
type FieldError struct {
	Field   string `json:"field"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Report collects validation failures and warnings. It implements
// error so services can return it through a plain error value; the
// handler unwraps it with errors.As and renders the triples.
type Report struct {
	Errors   []FieldError `json:"errors"`
	Warnings []FieldError `json:"warnings,omitempty"`
}

// Failed reports whether any hard failure was recorded. Warnings alone
// never fail a report.
func (r *Report) Failed() bool { return len(r.Errors) > 0 }

// Error implements the error interface.
func (r *Report) Error() string {
	return fmt.Sprintf("validazione fallita: %d errori", len(r.Errors))
}

// SingleError builds a one-failure report, used for malformed query
// parameters that never reach the full rule evaluation.
func SingleError(field string, code Code, message string) *Report {
	r := &Report{}
	r.addError(field, code, message)
	return r
}

func (r *Report) addError(field string, code Code, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Code: code, Message: message})
}

func (r *Report) addWarning(field string, code Code, message string) {
	r.Warnings = append(r.Warnings, FieldError{Field: field, Code: code, Message: message})
}
