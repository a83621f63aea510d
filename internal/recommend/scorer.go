// Package recommend ranks catalog venues against a user's stated
// preferences. Deliberately a plain filter-and-sort over the fixed attribute
// set: no learned weights, no geo distance.
package recommend

import (
	"sort"
	"strings"

	"nightowl/internal/domain/venues"
)

type Preferences struct {
	Vibe          string   `json:"vibe,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	AgeGroup      string   `json:"age_group,omitempty"`
	Neighbourhood string   `json:"neighbourhood,omitempty"`
	MaxWait       string   `json:"max_wait,omitempty"`   // none|short|moderate|long
	MaxCover      *int     `json:"max_cover,omitempty"`  // dollars; 0 means free only
	WantsPatio    bool     `json:"wants_patio"`
	WantsRooftop  bool     `json:"wants_rooftop"`
	WantsDancing  bool     `json:"wants_dancing"`
	WantsKaraoke  bool     `json:"wants_karaoke"`
	WantsLive     bool     `json:"wants_live_music"`
}

type Result struct {
	Venue venues.Venue `json:"venue"`
	Score int          `json:"score"`
}

// Attribute weights. Vibe dominates, then location and age group, then the
// nice-to-haves.
const (
	vibeWeight      = 30
	hoodWeight      = 20
	ageWeight       = 15
	genreWeight     = 10
	waitWeight      = 10
	amenityWeight   = 5
	maxResultsLimit = 20
)

var waitRank = map[string]int{"none": 0, "short": 1, "moderate": 2, "long": 3}

// Score rates one venue against the preferences. Negative means the venue is
// excluded outright (wait or cover beyond the stated tolerance).
func Score(p Preferences, v venues.Venue) int {
	if p.MaxWait != "" {
		if waitRank[v.TypicalWait] > waitRank[p.MaxWait] {
			return -1
		}
	}
	if p.MaxCover != nil && v.CoverFrequency != "never" && v.CoverAmount > *p.MaxCover {
		return -1
	}

	score := 0
	if p.Vibe != "" && strings.EqualFold(p.Vibe, v.Vibe) {
		score += vibeWeight
	}
	if p.Neighbourhood != "" && strings.EqualFold(p.Neighbourhood, v.Neighbourhood) {
		score += hoodWeight
	}
	if p.AgeGroup != "" && strings.EqualFold(p.AgeGroup, v.AgeGroup) {
		score += ageWeight
	}
	for _, want := range p.Genres {
		for _, have := range v.MusicGenres {
			if strings.EqualFold(want, have) {
				score += genreWeight
				break
			}
		}
	}
	if p.MaxWait != "" && waitRank[v.TypicalWait] <= waitRank[p.MaxWait] {
		score += waitWeight
	}
	if p.WantsPatio && v.HasPatio {
		score += amenityWeight
	}
	if p.WantsRooftop && v.HasRooftop {
		score += amenityWeight
	}
	if p.WantsDancing && v.HasDanceFloor {
		score += amenityWeight
	}
	if p.WantsKaraoke && len(v.KaraokeDays) > 0 {
		score += amenityWeight
	}
	if p.WantsLive && len(v.LiveMusicDays) > 0 {
		score += amenityWeight
	}
	return score
}

// Recommend filters and ranks candidates: hard mismatches drop out, the rest
// sort by score descending with name as the tiebreak.
func Recommend(p Preferences, candidates []venues.Venue) []Result {
	var out []Result
	for _, v := range candidates {
		s := Score(p, v)
		if s < 0 {
			continue
		}
		out = append(out, Result{Venue: v, Score: s})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Venue.Name < out[j].Venue.Name
	})

	if len(out) > maxResultsLimit {
		out = out[:maxResultsLimit]
	}
	return out
}
