// internal/domain/schedule/weekday.go
package schedule

import "time"

// IsWeekday reports whether t falls on Monday through Friday in the wall
// clock of loc. The check goes through the timezone database rather than a
// fixed offset, so DST transitions resolve correctly. A nil loc falls back
// to UTC.
func IsWeekday(t time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	wd := t.In(loc).Weekday()
	return wd >= time.Monday && wd <= time.Friday
}
