// internal/domain/schedule/describe.go
package schedule

import (
	"fmt"
	"strings"
)

var dowNames = map[int]string{
	0: "Sun", 1: "Mon", 2: "Tue", 3: "Wed", 4: "Thu", 5: "Fri", 6: "Sat",
	7: "Sun",
}

// DescribeCron renders a cron expression as a human-readable schedule such
// as "9:00 AM (Mon-Fri)". It only understands expressions with a literal
// minute and hour; anything it cannot read comes back unchanged so callers
// can always print the result.
func DescribeCron(expr string) string {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return expr
	}
	minute, okMin := cronNumber(fields[0])
	hour, okHour := cronNumber(fields[1])
	if !okMin || !okHour || minute > 59 || hour > 23 {
		return expr
	}
	return fmt.Sprintf("%s (%s)", clockTime(hour, minute), describeDOW(fields[4]))
}

func clockTime(hour, minute int) string {
	suffix := "AM"
	h := hour
	switch {
	case hour == 0:
		h = 12
	case hour == 12:
		suffix = "PM"
	case hour > 12:
		h = hour - 12
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", h, minute, suffix)
}

// describeDOW names the common day-of-week patterns and falls back to a
// generic "DOW: <raw>" tag for the rest.
func describeDOW(raw string) string {
	switch raw {
	case "*", "0-6", "0-7":
		return "Every day"
	}
	if v, ok := cronNumber(raw); ok && v <= 7 {
		return dowNames[v]
	}
	if lo, hi, isRange := strings.Cut(raw, "-"); isRange {
		a, okA := cronNumber(lo)
		b, okB := cronNumber(hi)
		if okA && okB && a <= 7 && b <= 7 {
			return dowNames[a] + "-" + dowNames[b]
		}
	}
	if strings.ContainsRune(raw, ',') {
		parts := strings.Split(raw, ",")
		names := make([]string, 0, len(parts))
		for _, p := range parts {
			v, ok := cronNumber(p)
			if !ok || v > 7 {
				return "DOW: " + raw
			}
			names = append(names, dowNames[v])
		}
		return strings.Join(names, ", ")
	}
	return "DOW: " + raw
}
