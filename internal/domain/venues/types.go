package venues

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("venue not found")
	QueryTimeoutDuration = time.Second * 5
)

// Venue is a published catalog entry. Rows are created only by promoting an
// approved submission, never directly from user input.
type Venue struct {
	ID                 int64   `json:"id"`
	SourceSubmissionID *int64  `json:"source_submission_id,omitempty"`
	Name               string  `json:"name"`
	Slug               string  `json:"slug"`
	Neighbourhood      string  `json:"neighbourhood"`
	Address            string  `json:"address"`
	Description        *string `json:"description,omitempty"`

	TypicalWait    string   `json:"typical_wait"`
	CoverFrequency string   `json:"cover_frequency"`
	CoverAmount    int      `json:"cover_amount"`
	Vibe           string   `json:"vibe"`
	AgeGroup       string   `json:"age_group"`
	MusicGenres    []string `json:"music_genres,omitempty"`
	LiveMusicDays  []string `json:"live_music_days,omitempty"`
	KaraokeDays    []string `json:"karaoke_days,omitempty"`
	HasPatio       bool     `json:"has_patio"`
	HasRooftop     bool     `json:"has_rooftop"`
	HasDanceFloor  bool     `json:"has_dance_floor"`
	HasPoolTable   bool     `json:"has_pool_table"`
	CapacitySize   string   `json:"capacity_size"`

	ImageURLs []string `json:"image_urls"`

	// ShareCode is derived from the id at response time, never stored.
	ShareCode string `json:"share_code,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Filter struct {
	Neighbourhood string
	Vibe          string
	Genre         string
	AgeGroup      string
	MaxWait       string
	NoCover       bool
	WantsPatio    bool
	WantsKaraoke  bool
	Page          int
	Limit         int
}
