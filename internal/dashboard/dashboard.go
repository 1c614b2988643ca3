// Package dashboard aggregates a profile list into admin overview figures.
package dashboard

import (
	"sort"

	"profile-listing-go/internal/models"
)

type Stats struct {
	TotalProfiles      int            `json:"totalProfiles"`
	FeaturedCount      int            `json:"featuredCount"`
	TotalContactClicks int            `json:"totalContactClicks"`
	LocationCounts     map[string]int `json:"locationCounts"`
}

type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

func Summarize(profiles []models.Profile) Stats {
	s := Stats{TotalProfiles: len(profiles), LocationCounts: map[string]int{}}
	for _, p := range profiles {
		if p.IsFeatured {
			s.FeaturedCount++
		}
		s.TotalContactClicks += p.ContactClicks
		s.LocationCounts[p.Location]++
	}
	return s
}

// TopLocations orders locations by descending count, then by name. n <= 0 returns all.
func (s Stats) TopLocations(n int) []LocationCount {
	out := make([]LocationCount, 0, len(s.LocationCounts))
	for loc, count := range s.LocationCounts {
		out = append(out, LocationCount{Location: loc, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Location < out[j].Location
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// TopClicked returns up to n profiles with the most contact clicks.
func TopClicked(profiles []models.Profile, n int) []models.Profile {
	out := append([]models.Profile(nil), profiles...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ContactClicks > out[j].ContactClicks })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
