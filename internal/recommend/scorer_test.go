package recommend

import (
	"testing"

	"nightowl/internal/domain/venues"
)

func venue(name, vibe, hood, wait string, cover int, coverFreq string) venues.Venue {
	return venues.Venue{
		Name:           name,
		Vibe:           vibe,
		Neighbourhood:  hood,
		TypicalWait:    wait,
		CoverAmount:    cover,
		CoverFrequency: coverFreq,
	}
}

func TestScoreVibeAndNeighbourhood(t *testing.T) {
	p := Preferences{Vibe: "divey", Neighbourhood: "Kensington Market"}
	v := venue("Ronnie's", "divey", "Kensington Market", "short", 0, "never")

	if got := Score(p, v); got != vibeWeight+hoodWeight {
		t.Fatalf("expected %d, got %d", vibeWeight+hoodWeight, got)
	}
}

func TestScoreExcludesBeyondWaitTolerance(t *testing.T) {
	p := Preferences{MaxWait: "short"}
	v := venue("Queue Palace", "club", "King West", "long", 20, "always")

	if got := Score(p, v); got >= 0 {
		t.Fatalf("expected exclusion for long wait, got score %d", got)
	}
}

func TestScoreExcludesOverCoverBudget(t *testing.T) {
	budget := 10
	p := Preferences{MaxCover: &budget}

	over := venue("Pricey", "club", "King West", "short", 25, "always")
	if got := Score(p, over); got >= 0 {
		t.Fatalf("expected exclusion over cover budget, got %d", got)
	}

	// A venue that never charges is fine whatever its listed amount.
	free := venue("Freebie", "chill", "Annex", "short", 25, "never")
	if got := Score(p, free); got < 0 {
		t.Fatalf("cover-free venue must not be excluded, got %d", got)
	}
}

func TestScoreGenreOverlapCountsOncePerWantedGenre(t *testing.T) {
	p := Preferences{Genres: []string{"house", "disco"}}
	v := venues.Venue{Name: "Spin", MusicGenres: []string{"house", "techno"}}

	if got := Score(p, v); got != genreWeight {
		t.Fatalf("expected %d for one overlapping genre, got %d", genreWeight, got)
	}
}

func TestRecommendSortsByScoreThenName(t *testing.T) {
	p := Preferences{Vibe: "divey"}
	candidates := []venues.Venue{
		venue("Bovine", "divey", "Queen West", "short", 0, "never"),
		venue("Apt 200", "club", "King West", "short", 0, "never"),
		venue("Ace Dive", "divey", "Parkdale", "short", 0, "never"),
	}

	got := Recommend(p, candidates)
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	// Two divey matches tie; alphabetical name breaks it.
	if got[0].Venue.Name != "Ace Dive" || got[1].Venue.Name != "Bovine" || got[2].Venue.Name != "Apt 200" {
		t.Fatalf("unexpected order: %s, %s, %s", got[0].Venue.Name, got[1].Venue.Name, got[2].Venue.Name)
	}
}

func TestRecommendDropsExcluded(t *testing.T) {
	p := Preferences{MaxWait: "none"}
	candidates := []venues.Venue{
		venue("Walk In", "chill", "Annex", "none", 0, "never"),
		venue("Line Up", "club", "King West", "long", 0, "never"),
	}

	got := Recommend(p, candidates)
	if len(got) != 1 || got[0].Venue.Name != "Walk In" {
		t.Fatalf("expected only the no-wait venue, got %+v", got)
	}
}
