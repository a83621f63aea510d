package moderation

import (
	"testing"

	"nightowl/internal/domain/reviews"
	"nightowl/internal/domain/submissions"
)

func reviewSet(decisions ...reviews.Decision) []reviews.Review {
	out := make([]reviews.Review, len(decisions))
	for i, d := range decisions {
		out[i] = reviews.Review{ID: int64(i + 1), SubmissionID: 1, ReviewerID: int64(100 + i), Decision: d}
	}
	return out
}

func TestDecideBelowQuorum(t *testing.T) {
	cases := [][]reviews.Review{
		nil,
		reviewSet(reviews.DecisionApprove),
		reviewSet(reviews.DecisionApprove, reviews.DecisionApprove, reviews.DecisionApprove),
		reviewSet(reviews.DecisionReject, reviews.DecisionReject, reviews.DecisionReject, reviews.DecisionReject),
	}
	for _, revs := range cases {
		status, resolve := Decide(revs)
		if resolve {
			t.Fatalf("expected no resolution with %d reviews, got %s", len(revs), status)
		}
		if status != submissions.StatusPending {
			t.Fatalf("expected pending with %d reviews, got %s", len(revs), status)
		}
	}
}

func TestDecideAtQuorum(t *testing.T) {
	a := reviews.DecisionApprove
	r := reviews.DecisionReject
	nc := reviews.DecisionNeedsChanges

	cases := []struct {
		name        string
		decisions   []reviews.Decision
		wantStatus  submissions.Status
		wantResolve bool
	}{
		{"three approvals win", []reviews.Decision{a, a, a, r, r}, submissions.StatusApproved, true},
		{"three rejections win", []reviews.Decision{r, r, r, a, a}, submissions.StatusRejected, true},
		{"needs_changes fills quorum for approval", []reviews.Decision{a, a, a, nc, nc}, submissions.StatusApproved, true},
		{"needs_changes fills quorum for rejection", []reviews.Decision{r, r, r, nc, nc}, submissions.StatusRejected, true},
		{"split with filler stays pending", []reviews.Decision{a, a, r, r, nc}, submissions.StatusPending, false},
		{"all needs_changes stays pending", []reviews.Decision{nc, nc, nc, nc, nc}, submissions.StatusPending, false},
		{"past quorum still counts", []reviews.Decision{a, r, a, r, nc, a}, submissions.StatusApproved, true},
	}

	for _, tc := range cases {
		status, resolve := Decide(reviewSet(tc.decisions...))
		if resolve != tc.wantResolve || status != tc.wantStatus {
			t.Fatalf("%s: got (%s, %v), want (%s, %v)",
				tc.name, status, resolve, tc.wantStatus, tc.wantResolve)
		}
	}
}

// The fifth review's own decision must not decide the outcome; only counts
// matter. 3 approve + 1 reject on file, a reject arrives fifth: approvals
// still reach the threshold.
func TestDecideCountsNotArrivalOrder(t *testing.T) {
	revs := reviewSet(
		reviews.DecisionApprove,
		reviews.DecisionApprove,
		reviews.DecisionApprove,
		reviews.DecisionReject,
		reviews.DecisionReject,
	)
	status, resolve := Decide(revs)
	if !resolve || status != submissions.StatusApproved {
		t.Fatalf("expected approved, got (%s, %v)", status, resolve)
	}
}
