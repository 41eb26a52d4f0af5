// Package schedule resolves recurring time rules into concrete future
// occurrences and selects which catalog events the alert pipeline watches.
//
// All arithmetic is UTC wall-clock. The feed is the DST-free variant, so no
// zone conversion is ever applied.
package schedule

import (
	"regexp"
	"strconv"
	"time"

	"github.com/kikibot/aa-alert/internal/catalog"
)

var clockRe = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})$`)

var weekdayNames = map[string]time.Weekday{
	"SUNDAY":    time.Sunday,
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
}

// maxDayAdvance bounds weekday advancement: one full week plus one day, so a
// disqualified starting day still reaches every possible weekday.
const maxDayAdvance = 8

// parseClock parses HH:MM:SS into seconds since midnight. Anything not
// matching the strict two-digit form is rejected.
func parseClock(s string) (int, bool) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	return h*3600 + min*60 + sec, true
}

// daySet resolves weekday names to a set. Unknown names are silently
// dropped; ok reports whether the resolved set is usable (nil input means
// "every day" and is usable, a non-nil input that resolved to nothing is a
// configuration error).
func daySet(names []string) (set map[time.Weekday]bool, ok bool) {
	if names == nil {
		return nil, true
	}
	set = make(map[time.Weekday]bool, len(names))
	for _, n := range names {
		if wd, known := weekdayNames[normalizeDay(n)]; known {
			set[wd] = true
		}
	}
	if len(set) == 0 {
		return nil, false
	}
	return set, true
}

func normalizeDay(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

// ResolveNext computes the next instant strictly after now that satisfies
// the rule. It returns ok=false when the rule can never fire: malformed
// clock time, or a weekday list whose entries all failed to resolve.
func ResolveNext(rule catalog.TimeRule, now time.Time) (time.Time, bool) {
	secs, ok := parseClock(rule.Time)
	if !ok {
		return time.Time{}, false
	}
	allowed, ok := daySet(rule.Days)
	if !ok {
		return time.Time{}, false
	}

	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	candidate := midnight.Add(time.Duration(secs) * time.Second)

	candidate = advanceToAllowed(candidate, allowed)
	if !candidate.After(now) {
		candidate = advanceToAllowed(candidate.AddDate(0, 0, 1), allowed)
	}
	return candidate, true
}

func advanceToAllowed(t time.Time, allowed map[time.Weekday]bool) time.Time {
	if allowed == nil {
		return t
	}
	for i := 0; i < maxDayAdvance; i++ {
		if allowed[t.Weekday()] {
			return t
		}
		t = t.AddDate(0, 0, 1)
	}
	return t
}
