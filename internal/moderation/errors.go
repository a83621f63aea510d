package moderation

import (
	"errors"

	"nightowl/internal/domain/reviews"
	"nightowl/internal/domain/submissions"
)

var (
	// ErrNotReviewer covers both a missing user record and a user whose
	// reviewer application was never approved (fail closed).
	ErrNotReviewer = errors.New("reviewer access required")

	ErrNotReviewable = errors.New("submission is not reviewable")
	ErrSelfReview    = errors.New("cannot review own submission")

	ErrAlreadyReviewed    = reviews.ErrAlreadyReviewed
	ErrSubmissionNotFound = submissions.ErrNotFound
)

// ValidationError reports malformed review input; the caller can fix the
// payload and resubmit.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }
