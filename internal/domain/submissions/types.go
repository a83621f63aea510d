package submissions

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("submission not found")
	QueryTimeoutDuration = time.Second * 5
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Submission is a community-proposed venue (NOT part of the public catalog
// until reviewers approve it).
type Submission struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"user_id"`
	Name          string  `json:"name"`
	Slug          string  `json:"slug"`
	Neighbourhood string  `json:"neighbourhood"`
	Address       string  `json:"address"`
	Description   *string `json:"description,omitempty"`

	TypicalWait    string   `json:"typical_wait"`    // none|short|moderate|long
	CoverFrequency string   `json:"cover_frequency"` // never|weekends|always
	CoverAmount    int      `json:"cover_amount"`
	Vibe           string   `json:"vibe"`      // chill|divey|upscale|club|live
	AgeGroup       string   `json:"age_group"` // early_20s|mid_20s|late_20s_30s|30s_plus|mixed
	MusicGenres    []string `json:"music_genres,omitempty"`
	LiveMusicDays  []string `json:"live_music_days,omitempty"`
	KaraokeDays    []string `json:"karaoke_days,omitempty"`
	HasPatio       bool     `json:"has_patio"`
	HasRooftop     bool     `json:"has_rooftop"`
	HasDanceFloor  bool     `json:"has_dance_floor"`
	HasPoolTable   bool     `json:"has_pool_table"`
	CapacitySize   string   `json:"capacity_size"` // small|medium|large

	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
}

type ListFilter struct {
	Page  int
	Limit int
}
