package models

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist. Distinct from
// transport errors so callers can render "not found" and "service error"
// separately.
var ErrNotFound = errors.New("not found")

// Event is a scheduled circle activity. Events are created and edited by staff
// directly in the platform; this service only reads them. The slug is the
// externally addressable key for detail and registration pages, the numeric id
// is the internal key used for count lookups and the registration routine.
type Event struct {
	ID            int64      `json:"id"`
	Slug          string     `json:"slug"`
	TitleEN       *string    `json:"title_en,omitempty"`
	TitleJA       *string    `json:"title_ja,omitempty"`
	DescriptionEN *string    `json:"description_en,omitempty"`
	DescriptionJA *string    `json:"description_ja,omitempty"`
	StartsAt      time.Time  `json:"starts_at"`
	Location      string     `json:"location"`
	CoverPath     *string    `json:"cover_path,omitempty"`
	CoverURL      string     `json:"cover_url,omitempty"`
	Capacity      *int32     `json:"capacity"` // nil = unlimited
}

// Title returns the localized title, falling back to the other language.
// At least one of the two is always present.
func (e *Event) Title(preferJA bool) string {
	if preferJA {
		if e.TitleJA != nil && *e.TitleJA != "" {
			return *e.TitleJA
		}
		if e.TitleEN != nil {
			return *e.TitleEN
		}
		return ""
	}
	if e.TitleEN != nil && *e.TitleEN != "" {
		return *e.TitleEN
	}
	if e.TitleJA != nil {
		return *e.TitleJA
	}
	return ""
}

// Ended reports whether the event's start time is in the past.
func (e *Event) Ended(now time.Time) bool {
	return e.StartsAt.Before(now)
}
