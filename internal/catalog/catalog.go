// Package catalog models the remote world-event schedule and provides the
// HTTP client that fetches it.
//
// The feed is a single JSON document: an ordered list of events, each with a
// set of time rules. Rules carry a UTC wall-clock time, an optional weekday
// list, and an optional region tag.
package catalog

import "encoding/json"

// TimeRule is one recurring-time record of an event.
type TimeRule struct {
	// Time is a 24-hour HH:MM:SS wall-clock time interpreted in UTC.
	Time string `json:"time"`
	// Days restricts the rule to the named weekdays (e.g. "MONDAY").
	// Nil means every day.
	Days []string `json:"days"`
	// Region tags the rule for one game region. Nil means the rule is a
	// fallback for regions without an exact match.
	Region *string `json:"region"`
}

// Entry is a single event in the fetched catalog.
type Entry struct {
	// ID is an opaque identifier; it namespaces alert dedup keys.
	ID       json.Number `json:"id"`
	Name     string      `json:"name"`
	Disabled bool        `json:"disabled"`
	Times    []TimeRule  `json:"times"`
}
