// Package schedule holds the pure time/cron evaluation helpers used by the
// DSU scheduler and the configuration validator.
package schedule

import "strings"

// cronBounds lists the allowed numeric range per field position:
// minute, hour, day-of-month, month, day-of-week. Day-of-week accepts 0-7
// with 7 as an alias for Sunday (0).
var cronBounds = [5]struct{ min, max int }{
	{0, 59},
	{0, 23},
	{1, 31},
	{1, 12},
	{0, 7},
}

// IsValidCron reports whether expr is a syntactically valid 5-field cron
// expression. Each field accepts "*", plain numbers, ranges "a-b", lists
// "a,b", steps "*/n" and range steps "a-b/n", all bounds-checked per field.
// Anything else, including the empty string or a wrong field count, is
// invalid. The function never panics regardless of input.
func IsValidCron(expr string) bool {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return false
	}
	for i, field := range fields {
		if !validCronField(field, cronBounds[i].min, cronBounds[i].max) {
			return false
		}
	}
	return true
}

func validCronField(field string, min, max int) bool {
	for _, item := range strings.Split(field, ",") {
		if !validCronItem(item, min, max) {
			return false
		}
	}
	return true
}

func validCronItem(item string, min, max int) bool {
	base := item
	if idx := strings.IndexByte(item, '/'); idx >= 0 {
		base = item[:idx]
		step, ok := cronNumber(item[idx+1:])
		if !ok || step < 1 || step > max {
			return false
		}
		// Steps only attach to "*" or a range; "5/2" is not in the grammar.
		if base != "*" && !strings.ContainsRune(base, '-') {
			return false
		}
	}
	if base == "*" {
		return true
	}
	if lo, hi, isRange := strings.Cut(base, "-"); isRange {
		a, okA := cronNumber(lo)
		b, okB := cronNumber(hi)
		return okA && okB && a >= min && b <= max && a <= b
	}
	v, ok := cronNumber(base)
	return ok && v >= min && v <= max
}

// cronNumber parses a plain unsigned decimal token. Signs, spaces and names
// ("mon", "jan") all fail, which keeps the grammar strictly numeric.
func cronNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
		if n > 9999 {
			return 0, false
		}
	}
	return n, true
}
