package moderation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"nightowl/internal/domain/badges"
	"nightowl/internal/domain/notifications"
	"nightowl/internal/domain/reviews"
	"nightowl/internal/domain/submissions"
	"nightowl/internal/domain/users"
)

func TestSubmitReviewHappyPath(t *testing.T) {
	svc, st, _ := newServiceHarness(t)
	st.addUser(1, users.ReviewerApproved, 3)
	st.addUser(2, users.ReviewerApproved, 0)
	st.addSubmission(10, 2, submissions.StatusPending, "Sneaky Dee's")

	review, err := svc.SubmitReview(context.Background(), validInput(10, 1, reviews.DecisionApprove))
	if err != nil {
		t.Fatalf("submit review: %v", err)
	}
	if review.ID == 0 {
		t.Fatalf("expected persisted review id")
	}
	if len(st.reviews) != 1 {
		t.Fatalf("expected 1 review row, got %d", len(st.reviews))
	}
	if got := st.reviews[0]; got.Decision != reviews.DecisionApprove || got.ConfidenceLevel != 4 {
		t.Fatalf("unexpected persisted review: %+v", got)
	}
	if st.users[1].ReviewsCompleted != 4 {
		t.Fatalf("expected review count 4, got %d", st.users[1].ReviewsCompleted)
	}
	if st.users[1].Points != PointsPerReview {
		t.Fatalf("expected %d points, got %d", PointsPerReview, st.users[1].Points)
	}
}

func TestSubmitReviewValidation(t *testing.T) {
	svc, st, _ := newServiceHarness(t)
	st.addUser(1, users.ReviewerApproved, 0)
	st.addUser(2, users.ReviewerApproved, 0)
	st.addSubmission(10, 2, submissions.StatusPending, "Bar Neon")

	bad := validInput(10, 1, "maybe")
	if _, err := svc.SubmitReview(context.Background(), bad); err == nil {
		t.Fatalf("expected validation error for bad decision")
	} else {
		var verr ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	}

	bad = validInput(10, 1, reviews.DecisionApprove)
	bad.ConfidenceLevel = 6
	if _, err := svc.SubmitReview(context.Background(), bad); err == nil {
		t.Fatalf("expected validation error for out-of-range confidence")
	}

	if len(st.reviews) != 0 || st.users[1].Points != 0 {
		t.Fatalf("validation failure must leave no side effects")
	}
}

func TestSubmitReviewRequiresApprovedReviewer(t *testing.T) {
	svc, st, _ := newServiceHarness(t)
	st.addUser(1, users.ReviewerPending, 0)
	st.addUser(2, users.ReviewerApproved, 0)
	st.addSubmission(10, 2, submissions.StatusPending, "The Cave")

	if _, err := svc.SubmitReview(context.Background(), validInput(10, 1, reviews.DecisionApprove)); !errors.Is(err, ErrNotReviewer) {
		t.Fatalf("pending reviewer: expected ErrNotReviewer, got %v", err)
	}

	// Unknown actor fails closed with the same error.
	if _, err := svc.SubmitReview(context.Background(), validInput(10, 99, reviews.DecisionApprove)); !errors.Is(err, ErrNotReviewer) {
		t.Fatalf("unknown reviewer: expected ErrNotReviewer, got %v", err)
	}

	if len(st.reviews) != 0 {
		t.Fatalf("unauthorized attempt must not create a review")
	}
}

func TestSubmitReviewDuplicate(t *testing.T) {
	svc, st, _ := newServiceHarness(t)
	st.addUser(1, users.ReviewerApproved, 0)
	st.addUser(2, users.ReviewerApproved, 0)
	st.addSubmission(10, 2, submissions.StatusPending, "Round Two")

	if _, err := svc.SubmitReview(context.Background(), validInput(10, 1, reviews.DecisionReject)); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if _, err := svc.SubmitReview(context.Background(), validInput(10, 1, reviews.DecisionApprove)); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}
	if len(st.reviews) != 1 {
		t.Fatalf("expected 1 review, got %d", len(st.reviews))
	}
	if st.users[1].ReviewsCompleted != 1 {
		t.Fatalf("duplicate attempt must not bump stats, count=%d", st.users[1].ReviewsCompleted)
	}
}

// When the pre-check misses (the check-then-act race), the unique index in
// the store still rejects the second insert with the same error.
func TestSubmitReviewDuplicateRace(t *testing.T) {
	svc, st, _ := newServiceHarness(t)
	st.addUser(1, users.ReviewerApproved, 0)
	st.addUser(2, users.ReviewerApproved, 0)
	st.addSubmission(10, 2, submissions.StatusPending, "Race Condition")
	st.addReview(10, 1, reviews.DecisionApprove)
	st.hideExistingReview = true

	if _, err := svc.SubmitReview(context.Background(), validInput(10, 1, reviews.DecisionApprove)); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed from insert path, got %v", err)
	}
	if st.users[1].ReviewsCompleted != 0 {
		t.Fatalf("race loser must not earn stats")
	}
}

func TestSubmitReviewSelfReview(t *testing.T) {
	svc, st, _ := newServiceHarness(t)
	st.addUser(1, users.ReviewerApproved, 0)
	st.addSubmission(10, 1, submissions.StatusPending, "My Own Bar")

	if _, err := svc.SubmitReview(context.Background(), validInput(10, 1, reviews.DecisionApprove)); !errors.Is(err, ErrSelfReview) {
		t.Fatalf("expected ErrSelfReview, got %v", err)
	}
	if len(st.reviews) != 0 {
		t.Fatalf("self-review must not create a review row")
	}
}

func TestSubmitReviewMissingSubmission(t *testing.T) {
	svc, st, _ := newServiceHarness(t)
	st.addUser(1, users.ReviewerApproved, 0)

	if _, err := svc.SubmitReview(context.Background(), validInput(404, 1, reviews.DecisionApprove)); !errors.Is(err, ErrSubmissionNotFound) {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}
}

func TestSubmitReviewResolvedSubmission(t *testing.T) {
	svc, st, _ := newServiceHarness(t)
	st.addUser(1, users.ReviewerApproved, 0)
	st.addUser(2, users.ReviewerApproved, 0)
	st.addSubmission(10, 2, submissions.StatusRejected, "Closed Already")

	if _, err := svc.SubmitReview(context.Background(), validInput(10, 1, reviews.DecisionApprove)); !errors.Is(err, ErrNotReviewable) {
		t.Fatalf("expected ErrNotReviewable, got %v", err)
	}
}

func TestSubmitReviewQuorumResolvesApproved(t *testing.T) {
	svc, st, notifier := newServiceHarness(t)
	st.addUser(1, users.ReviewerApproved, 0)
	st.addUser(2, users.ReviewerApproved, 0) // submitter
	st.addSubmission(10, 2, submissions.StatusPending, "Velvet Room")

	// 3 approve, 1 reject already on file; the fifth review is a reject but
	// approvals still carry the quorum.
	st.addReview(10, 101, reviews.DecisionApprove)
	st.addReview(10, 102, reviews.DecisionApprove)
	st.addReview(10, 103, reviews.DecisionApprove)
	st.addReview(10, 104, reviews.DecisionReject)

	if _, err := svc.SubmitReview(context.Background(), validInput(10, 1, reviews.DecisionReject)); err != nil {
		t.Fatalf("fifth review: %v", err)
	}

	sub := st.subs[10]
	if sub.Status != submissions.StatusApproved {
		t.Fatalf("expected approved, got %s", sub.Status)
	}
	if sub.ReviewedAt == nil {
		t.Fatalf("expected reviewed_at to be set on transition")
	}
	if len(st.notifs) != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", len(st.notifs))
	}
	n := st.notifs[0]
	if n.Kind != notifications.KindSubmissionApproved || n.UserID != 2 || n.SubmissionID != 10 {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if !strings.Contains(n.Message, `"Velvet Room"`) || !strings.Contains(n.Message, "approved") {
		t.Fatalf("unexpected notification message: %q", n.Message)
	}
	if len(st.promoted) != 1 || st.promoted[0] != 10 {
		t.Fatalf("expected approved submission to be promoted, got %v", st.promoted)
	}
	if len(notifier.calls) != 1 || notifier.calls[0] != submissions.StatusApproved {
		t.Fatalf("expected one notifier fanout, got %v", notifier.calls)
	}
}

func TestSubmitReviewQuorumResolvesRejected(t *testing.T) {
	svc, st, _ := newServiceHarness(t)
	st.addUser(1, users.ReviewerApproved, 0)
	st.addUser(2, users.ReviewerApproved, 0)
	st.addSubmission(10, 2, submissions.StatusPending, "Sticky Floors")

	st.addReview(10, 101, reviews.DecisionReject)
	st.addReview(10, 102, reviews.DecisionReject)
	st.addReview(10, 103, reviews.DecisionApprove)
	st.addReview(10, 104, reviews.DecisionApprove)

	if _, err := svc.SubmitReview(context.Background(), validInput(10, 1, reviews.DecisionReject)); err != nil {
		t.Fatalf("fifth review: %v", err)
	}

	if st.subs[10].Status != submissions.StatusRejected {
		t.Fatalf("expected rejected, got %s", st.subs[10].Status)
	}
	if len(st.notifs) != 1 || st.notifs[0].Kind != notifications.KindSubmissionRejected {
		t.Fatalf("expected one rejection notification, got %+v", st.notifs)
	}
	if len(st.promoted) != 0 {
		t.Fatalf("rejected submission must not be promoted")
	}
}

func TestSubmitReviewAmbiguousQuorumStaysPending(t *testing.T) {
	svc, st, _ := newServiceHarness(t)
	st.addUser(1, users.ReviewerApproved, 0)
	st.addUser(2, users.ReviewerApproved, 0)
	st.addSubmission(10, 2, submissions.StatusPending, "Jury Out")

	st.addReview(10, 101, reviews.DecisionApprove)
	st.addReview(10, 102, reviews.DecisionApprove)
	st.addReview(10, 103, reviews.DecisionNeedsChanges)
	st.addReview(10, 104, reviews.DecisionNeedsChanges)

	if _, err := svc.SubmitReview(context.Background(), validInput(10, 1, reviews.DecisionReject)); err != nil {
		t.Fatalf("fifth review: %v", err)
	}

	if st.subs[10].Status != submissions.StatusPending {
		t.Fatalf("expected pending with no majority, got %s", st.subs[10].Status)
	}
	if len(st.notifs) != 0 {
		t.Fatalf("no notification below a majority, got %d", len(st.notifs))
	}
}

func TestAggregateNoOpOnResolvedSubmission(t *testing.T) {
	svc, st, notifier := newServiceHarness(t)
	st.addUser(2, users.ReviewerApproved, 0)
	st.addSubmission(10, 2, submissions.StatusApproved, "Done Deal")
	for i := 0; i < 5; i++ {
		st.addReview(10, int64(101+i), reviews.DecisionApprove)
	}

	if err := svc.Aggregate(context.Background(), 10); err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(st.notifs) != 0 {
		t.Fatalf("aggregate on resolved submission must emit nothing, got %d notifications", len(st.notifs))
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("no fanout expected, got %v", notifier.calls)
	}
}

func TestAggregateNotificationExactlyOnce(t *testing.T) {
	svc, st, _ := newServiceHarness(t)
	st.addUser(2, users.ReviewerApproved, 0)
	st.addSubmission(10, 2, submissions.StatusPending, "One Ping Only")
	for i := 0; i < 5; i++ {
		st.addReview(10, int64(101+i), reviews.DecisionApprove)
	}

	if err := svc.Aggregate(context.Background(), 10); err != nil {
		t.Fatalf("first aggregate: %v", err)
	}
	if err := svc.Aggregate(context.Background(), 10); err != nil {
		t.Fatalf("second aggregate: %v", err)
	}
	if len(st.notifs) != 1 {
		t.Fatalf("expected exactly 1 notification across redundant runs, got %d", len(st.notifs))
	}
}

func TestBadgeAwardedAtThreshold(t *testing.T) {
	svc, st, _ := newServiceHarness(t)
	st.addUser(1, users.ReviewerApproved, 9) // next review is the 10th
	st.addUser(2, users.ReviewerApproved, 0)
	st.addSubmission(10, 2, submissions.StatusPending, "Tenth Time")

	before := st.users[1].Points
	if _, err := svc.SubmitReview(context.Background(), validInput(10, 1, reviews.DecisionApprove)); err != nil {
		t.Fatalf("submit review: %v", err)
	}

	if st.users[1].Points != before+PointsPerReview {
		t.Fatalf("expected points +%d, got %d", PointsPerReview, st.users[1].Points-before)
	}
	if len(st.badges) != 1 || st.badges[0].Type != badges.TypeHelpfulReviewer {
		t.Fatalf("expected one helpful_reviewer badge, got %+v", st.badges)
	}

	// Replaying the award at the same threshold never duplicates the badge.
	def, ok := badges.ForCount(10)
	if !ok {
		t.Fatalf("expected a badge definition at 10")
	}
	fb := &fakeBadges{st}
	if err := fb.Insert(context.Background(), 1, def); err != nil {
		t.Fatalf("replay insert: %v", err)
	}
	if len(st.badges) != 1 {
		t.Fatalf("badge replay must be idempotent, got %d badges", len(st.badges))
	}
}

func TestNoBadgeBetweenThresholds(t *testing.T) {
	svc, st, _ := newServiceHarness(t)
	st.addUser(1, users.ReviewerApproved, 4)
	st.addUser(2, users.ReviewerApproved, 0)
	st.addSubmission(10, 2, submissions.StatusPending, "Fifth Review")

	if _, err := svc.SubmitReview(context.Background(), validInput(10, 1, reviews.DecisionApprove)); err != nil {
		t.Fatalf("submit review: %v", err)
	}
	if len(st.badges) != 0 {
		t.Fatalf("count 5 is not a threshold, got %+v", st.badges)
	}
}

// Failures after the review insert are absorbed: the review stands even when
// the stats update or aggregation breaks mid-sequence.
func TestSubmitReviewTrailingFailures(t *testing.T) {
	svc, st, _ := newServiceHarness(t)
	st.addUser(1, users.ReviewerApproved, 9)
	st.addUser(2, users.ReviewerApproved, 0)
	st.addSubmission(10, 2, submissions.StatusPending, "Flaky Backend")
	st.failStats = true
	st.failListReviews = true

	review, err := svc.SubmitReview(context.Background(), validInput(10, 1, reviews.DecisionApprove))
	if err != nil {
		t.Fatalf("trailing failures must not fail the request: %v", err)
	}
	if review == nil || len(st.reviews) != 1 {
		t.Fatalf("review must be persisted despite trailing failures")
	}
	if st.users[1].ReviewsCompleted != 9 {
		t.Fatalf("stats unchanged when the increment fails")
	}
	if len(st.badges) != 0 {
		t.Fatalf("no badge when the new count is unknown")
	}
}
