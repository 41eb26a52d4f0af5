// Package alert decides which lead-time warnings are due on a tick and
// guarantees each one is emitted at most once.
//
// Pipeline per tick: fetch catalog → project next occurrences → evaluate
// lead times against the tolerance window → dispatch firings.
package alert

import (
	"fmt"
	"time"

	"github.com/kikibot/aa-alert/internal/schedule"
)

// Firing is a decision to send one warning: event, occurrence, lead time.
type Firing struct {
	EventID     string
	EventName   string
	Occurrence  time.Time
	LeadMinutes int
}

// Key derives the dedup key for a warning. The alert instant is bucketed to
// whole minutes so repeated ticks inside one tolerance window produce the
// same key, while a later minute is a genuinely new warning.
func Key(eventID string, occurrence time.Time, leadMinutes int, alertAt time.Time) string {
	minuteBucket := alertAt.Unix() / 60
	return fmt.Sprintf("%s-%d-%d-%d", eventID, occurrence.Unix(), leadMinutes, minuteBucket)
}

// Evaluate walks every projection × lead-time pair and returns the firings
// whose alert instant falls within tolerance of now. A firing's key is
// committed to the store before it is returned, so a slow or failing send
// cannot produce a duplicate decision on the next tick.
func Evaluate(projections []schedule.Projection, now time.Time, leadMinutes []int, tolerance time.Duration, store Store) []Firing {
	var firings []Firing
	for _, p := range projections {
		for _, lead := range leadMinutes {
			alertAt := p.Next.Add(-time.Duration(lead) * time.Minute)

			diff := now.Sub(alertAt)
			if diff < 0 {
				diff = -diff
			}
			if diff > tolerance {
				continue
			}

			key := Key(p.Event.ID.String(), p.Next, lead, alertAt)
			if !store.Add(key) {
				continue // already decided, not an error
			}

			firings = append(firings, Firing{
				EventID:     p.Event.ID.String(),
				EventName:   p.Event.Name,
				Occurrence:  p.Next,
				LeadMinutes: lead,
			})
		}
	}
	return firings
}
