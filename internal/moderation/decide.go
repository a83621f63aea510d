package moderation

import (
	"nightowl/internal/domain/reviews"
	"nightowl/internal/domain/submissions"
)

const (
	// Quorum is the minimum number of reviews before a submission can
	// resolve at all.
	Quorum = 5

	// DecisionThreshold is the vote count one side needs once quorum is
	// reached. Majority of the quorum, not of cast votes: needs_changes
	// reviews fill the quorum but push neither side.
	DecisionThreshold = 3
)

// Decide is the pure aggregation rule. It reports the target status and
// whether a transition should happen; below quorum, or when neither side
// reaches the threshold, the submission stays pending. A submission can sit
// at quorum with no majority (e.g. 2 approve / 2 reject / 1 needs_changes)
// until an admin steps in.
func Decide(revs []reviews.Review) (submissions.Status, bool) {
	if len(revs) < Quorum {
		return submissions.StatusPending, false
	}

	var approvals, rejections int
	for _, r := range revs {
		switch r.Decision {
		case reviews.DecisionApprove:
			approvals++
		case reviews.DecisionReject:
			rejections++
		}
	}

	if approvals >= DecisionThreshold {
		return submissions.StatusApproved, true
	}
	if rejections >= DecisionThreshold {
		return submissions.StatusRejected, true
	}
	return submissions.StatusPending, false
}
