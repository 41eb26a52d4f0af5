package schedule

import (
	"log/slog"
	"strings"
	"time"

	"github.com/kikibot/aa-alert/internal/catalog"
)

// Projection pairs a monitored event with its single next occurrence.
type Projection struct {
	Event catalog.Entry
	Next  time.Time // UTC, strictly after the projection's reference time
}

// Project filters the catalog to monitored events and resolves each one to
// its earliest next occurrence.
//
// Matching is case-insensitive substring containment against the monitored
// keys, so "crimson rift" matches both "Crimson Rift" and "Crimson Rift
// (Auroria)". Rule selection prefers rules tagged with exactly the target
// region; region-less rules are used only when no exact match exists. Events
// whose selected rules all fail to resolve are skipped for this tick.
func Project(entries []catalog.Entry, targets []string, region string, now time.Time, logger *slog.Logger) []Projection {
	if logger == nil {
		logger = slog.Default()
	}

	var out []Projection
	for _, ev := range entries {
		if ev.Disabled {
			continue
		}

		nameLower := strings.ToLower(ev.Name)
		if !matchesAny(nameLower, targets) {
			continue
		}

		rules := selectRules(ev.Times, region)
		if len(rules) == 0 {
			continue
		}

		var best time.Time
		resolved := false
		for _, rule := range rules {
			next, ok := ResolveNext(rule, now)
			if !ok {
				logger.Warn("unresolvable time rule",
					"event", ev.Name, "time", rule.Time, "days", rule.Days)
				continue
			}
			if !resolved || next.Before(best) {
				best = next
				resolved = true
			}
		}
		if !resolved {
			continue
		}

		out = append(out, Projection{Event: ev, Next: best})
	}
	return out
}

func matchesAny(nameLower string, targets []string) bool {
	for _, t := range targets {
		if strings.Contains(nameLower, t) {
			return true
		}
	}
	return false
}

// selectRules returns the exact-region subset when present, otherwise the
// region-less fallback subset.
func selectRules(rules []catalog.TimeRule, region string) []catalog.TimeRule {
	var exact, fallback []catalog.TimeRule
	for _, r := range rules {
		switch {
		case r.Region != nil && *r.Region == region:
			exact = append(exact, r)
		case r.Region == nil:
			fallback = append(fallback, r)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return fallback
}
