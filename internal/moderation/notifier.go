package moderation

import (
	"context"

	"nightowl/internal/domain/submissions"
)

// MultiNotifier fans a resolved submission out to every delivery channel.
type MultiNotifier []OutcomeNotifier

func (m MultiNotifier) SubmissionResolved(ctx context.Context, sub *submissions.Submission, outcome submissions.Status) {
	for _, n := range m {
		n.SubmissionResolved(ctx, sub, outcome)
	}
}
