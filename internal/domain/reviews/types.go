package reviews

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("review not found")
	ErrAlreadyReviewed   = errors.New("submission already reviewed by this user")
	QueryTimeoutDuration = time.Second * 5
)

type Decision string

const (
	DecisionApprove      Decision = "approve"
	DecisionReject       Decision = "reject"
	DecisionNeedsChanges Decision = "needs_changes"
)

// Review is one reviewer's judgment on a submission. Rows are written once
// and never mutated; the unique index on (submission_id, reviewer_id) is the
// real duplicate guard.
type Review struct {
	ID           int64    `json:"id"`
	SubmissionID int64    `json:"submission_id"`
	ReviewerID   int64    `json:"reviewer_id"`
	Decision     Decision `json:"decision"`

	NameAccurate     bool `json:"name_accurate"`
	LocationAccurate bool `json:"location_accurate"`
	DetailsAccurate  bool `json:"details_accurate"`
	FeaturesAccurate bool `json:"features_accurate"`

	Notes           string `json:"notes,omitempty"`
	ConfidenceLevel int    `json:"confidence_level"` // 1-5

	CreatedAt time.Time `json:"created_at"`
}
