// Package filter is the in-memory browse predicate applied to a fetched profile list.
package filter

import (
	"strings"

	"profile-listing-go/internal/models"
)

const (
	DefaultAgeMin = 18
	DefaultAgeMax = 45
)

// Criteria is the browse filter state. Empty strings match everything.
type Criteria struct {
	Location   string
	AgeMin     int
	AgeMax     int
	Complexion string
	Name       string
}

func DefaultCriteria() Criteria {
	return Criteria{AgeMin: DefaultAgeMin, AgeMax: DefaultAgeMax}
}

// Match reports whether p satisfies every criterion. Location and complexion
// are exact; name is a case-insensitive substring; the age range is inclusive.
func (c Criteria) Match(p models.Profile) bool {
	if c.Location != "" && p.Location != c.Location {
		return false
	}
	if p.Age < c.AgeMin || p.Age > c.AgeMax {
		return false
	}
	if c.Complexion != "" && string(p.Complexion) != c.Complexion {
		return false
	}
	if c.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(c.Name)) {
		return false
	}
	return true
}

// Apply returns the matching profiles in their original order.
func (c Criteria) Apply(profiles []models.Profile) []models.Profile {
	out := make([]models.Profile, 0, len(profiles))
	for _, p := range profiles {
		if c.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
