// Package moderation implements the community review workflow: approved
// reviewers vote on venue submissions, a quorum/majority rule resolves each
// submission, reviewers earn points and badges, and submitters are notified
// of the outcome.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"nightowl/internal/domain/badges"
	"nightowl/internal/domain/notifications"
	"nightowl/internal/domain/reviews"
	"nightowl/internal/domain/submissions"
	"nightowl/internal/domain/users"
	"nightowl/internal/domain/venues"
)

// PointsPerReview is the flat loyalty reward for a completed review.
const PointsPerReview = 10

// OutcomeNotifier fans a resolved submission out to delivery channels
// (push, email). The in-app notification row is written by the service
// itself; this is best-effort extra delivery.
type OutcomeNotifier interface {
	SubmissionResolved(ctx context.Context, sub *submissions.Submission, outcome submissions.Status)
}

type Service struct {
	submissions   submissions.Store
	reviews       reviews.Store
	users         users.Store
	badges        badges.Store
	notifications notifications.Store
	venues        venues.Store
	notifier      OutcomeNotifier
	logger        *zap.SugaredLogger
}

func NewService(
	subs submissions.Store,
	revs reviews.Store,
	usrs users.Store,
	bdgs badges.Store,
	notifs notifications.Store,
	vens venues.Store,
	notifier OutcomeNotifier,
	logger *zap.SugaredLogger,
) *Service {
	return &Service{
		submissions:   subs,
		reviews:       revs,
		users:         usrs,
		badges:        bdgs,
		notifications: notifs,
		venues:        vens,
		notifier:      notifier,
		logger:        logger,
	}
}

type SubmitReviewInput struct {
	SubmissionID int64
	ReviewerID   int64
	Decision     reviews.Decision

	NameAccurate     bool
	LocationAccurate bool
	DetailsAccurate  bool
	FeaturesAccurate bool

	Notes           string
	ConfidenceLevel int
}

func (in SubmitReviewInput) validate() error {
	switch in.Decision {
	case reviews.DecisionApprove, reviews.DecisionReject, reviews.DecisionNeedsChanges:
	default:
		return ValidationError("decision must be approve, reject or needs_changes")
	}
	if in.ConfidenceLevel < 1 || in.ConfidenceLevel > 5 {
		return ValidationError("confidence_level must be between 1 and 5")
	}
	return nil
}

// SubmitReview runs the full review workflow. Preconditions are checked in a
// fixed order and no store is mutated until every one of them passes:
//
//  1. input shape (ValidationError)
//  2. reviewer authorization (ErrNotReviewer)
//  3. duplicate review (ErrAlreadyReviewed)
//  4. submission exists and is pending (ErrSubmissionNotFound / ErrNotReviewable)
//  5. no self-review (ErrSelfReview)
//
// After the review row is inserted the remaining steps (stats, badge,
// aggregation) are best-effort: a failure there is logged and the review
// stands. Each store write commits independently, so there is nothing to
// roll back.
func (s *Service) SubmitReview(ctx context.Context, in SubmitReviewInput) (*reviews.Review, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	status, err := s.users.GetReviewerStatus(ctx, in.ReviewerID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrNotReviewer
		}
		return nil, fmt.Errorf("reviewer lookup: %w", err)
	}
	if status != users.ReviewerApproved {
		return nil, ErrNotReviewer
	}

	// Friendly duplicate check; the unique index behind Insert is the real
	// guard under concurrency.
	if _, err := s.reviews.GetByReviewer(ctx, in.SubmissionID, in.ReviewerID); err == nil {
		return nil, ErrAlreadyReviewed
	} else if !errors.Is(err, reviews.ErrNotFound) {
		return nil, fmt.Errorf("duplicate review check: %w", err)
	}

	sub, err := s.submissions.GetByID(ctx, in.SubmissionID)
	if err != nil {
		return nil, err
	}
	if sub.Status != submissions.StatusPending {
		return nil, ErrNotReviewable
	}
	if sub.UserID == in.ReviewerID {
		return nil, ErrSelfReview
	}

	review := &reviews.Review{
		SubmissionID:     in.SubmissionID,
		ReviewerID:       in.ReviewerID,
		Decision:         in.Decision,
		NameAccurate:     in.NameAccurate,
		LocationAccurate: in.LocationAccurate,
		DetailsAccurate:  in.DetailsAccurate,
		FeaturesAccurate: in.FeaturesAccurate,
		Notes:            in.Notes,
		ConfidenceLevel:  in.ConfidenceLevel,
	}
	if err := s.reviews.Insert(ctx, review); err != nil {
		return nil, err
	}

	newCount, err := s.users.IncrementReviewerStats(ctx, in.ReviewerID, 1, PointsPerReview)
	if err != nil {
		s.logger.Errorw("reviewer stats update failed after review insert",
			"reviewer_id", in.ReviewerID, "review_id", review.ID, "error", err)
	} else if def, ok := badges.ForCount(newCount); ok {
		if err := s.badges.Insert(ctx, in.ReviewerID, def); err != nil {
			s.logger.Errorw("badge award failed",
				"reviewer_id", in.ReviewerID, "badge", def.Type, "error", err)
		}
	}

	if err := s.Aggregate(ctx, in.SubmissionID); err != nil {
		s.logger.Errorw("aggregation failed after review insert",
			"submission_id", in.SubmissionID, "error", err)
	}

	return review, nil
}

// Aggregate recomputes a submission's outcome from its full review set.
// Safe to call redundantly: the conditional status update means only one
// concurrent run transitions the submission, and only that run emits the
// notification.
func (s *Service) Aggregate(ctx context.Context, submissionID int64) error {
	revs, err := s.reviews.ListBySubmission(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("load reviews: %w", err)
	}

	target, resolve := Decide(revs)
	if !resolve {
		return nil
	}

	applied, err := s.submissions.UpdateStatusIfPending(ctx, submissionID, target, time.Now())
	if err != nil {
		return fmt.Errorf("transition submission: %w", err)
	}
	if !applied {
		// Already resolved by an earlier (or concurrent) run.
		return nil
	}

	sub, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("reload submission: %w", err)
	}

	s.notifyOutcome(ctx, sub, target)

	if target == submissions.StatusApproved {
		if _, err := s.venues.CreateFromSubmission(ctx, sub); err != nil {
			s.logger.Errorw("venue promotion failed",
				"submission_id", sub.ID, "error", err)
		}
	}

	return nil
}

func (s *Service) notifyOutcome(ctx context.Context, sub *submissions.Submission, outcome submissions.Status) {
	kind := notifications.KindSubmissionApproved
	if outcome == submissions.StatusRejected {
		kind = notifications.KindSubmissionRejected
	}

	n := &notifications.Notification{
		UserID:       sub.UserID,
		SubmissionID: sub.ID,
		Kind:         kind,
		Message:      fmt.Sprintf("Your submission %q has been %s by the community.", sub.Name, outcome),
	}
	if err := s.notifications.Insert(ctx, n); err != nil {
		s.logger.Errorw("outcome notification insert failed",
			"submission_id", sub.ID, "user_id", sub.UserID, "error", err)
		return
	}

	if s.notifier != nil {
		s.notifier.SubmissionResolved(ctx, sub, outcome)
	}
}
