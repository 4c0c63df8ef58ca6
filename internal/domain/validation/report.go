// internal/domain/validation/report.go
package validation

import "regexp"

// Severity classifies a single report entry.
type Severity string

const (
	SeverityError          Severity = "ERROR"
	SeverityWarning        Severity = "WARNING"
	SeverityRecommendation Severity = "RECOMMENDATION"
)

// Entry is one finding produced by a validator run. Code is a stable,
// machine-matchable identifier; Message is the human explanation.
type Entry struct {
	Code    string
	Message string
}

// Report collects the findings of one validation run. A report is produced
// fresh per run and must not be mutated after it is returned to the caller.
// Only errors gate anything: warnings and recommendations are informational.
type Report struct {
	Errors          []Entry
	Warnings        []Entry
	Recommendations []Entry
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{}
}

// AddError appends an error entry.
func (r *Report) AddError(code, message string) {
	r.Errors = append(r.Errors, Entry{Code: code, Message: message})
}

// AddWarning appends a warning entry.
func (r *Report) AddWarning(code, message string) {
	r.Warnings = append(r.Warnings, Entry{Code: code, Message: message})
}

// AddRecommendation appends a recommendation entry.
func (r *Report) AddRecommendation(code, message string) {
	r.Recommendations = append(r.Recommendations, Entry{Code: code, Message: message})
}

// Passed reports whether the run found zero errors. Warnings and
// recommendations never affect the outcome.
func (r *Report) Passed() bool {
	return len(r.Errors) == 0
}

// snowflakePattern matches Discord snowflake ids: 17 to 19 decimal digits.
var snowflakePattern = regexp.MustCompile(`^[0-9]{17,19}$`)

// IsSnowflake reports whether s looks like a Discord id (channel, role,
// user). Both validators share this rule.
func IsSnowflake(s string) bool {
	return snowflakePattern.MatchString(s)
}
