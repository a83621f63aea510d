package badges

import "time"

type Type string

const (
	TypeFirstReview       Type = "first_review"
	TypeHelpfulReviewer   Type = "helpful_reviewer"
	TypeDedicatedReviewer Type = "dedicated_reviewer"
	TypeSuperReviewer     Type = "super_reviewer"
)

type Badge struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Type        Type      `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AwardedAt   time.Time `json:"awarded_at"`
}

// Definition is the fixed copy attached to a badge type.
type Definition struct {
	Type        Type
	Name        string
	Description string
}

var thresholds = map[int]Definition{
	1:   {TypeFirstReview, "First Review", "Completed your first community review."},
	10:  {TypeHelpfulReviewer, "Helpful Reviewer", "Completed 10 community reviews."},
	50:  {TypeDedicatedReviewer, "Dedicated Reviewer", "Completed 50 community reviews."},
	100: {TypeSuperReviewer, "Super Reviewer", "Completed 100 community reviews."},
}

// ForCount returns the badge earned by reaching exactly count completed
// reviews. Counts only ever move by +1, so each threshold fires once.
func ForCount(count int) (Definition, bool) {
	def, ok := thresholds[count]
	return def, ok
}
