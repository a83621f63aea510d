// Package push delivers best-effort Expo notifications to the mobile app.
package push

import (
	"context"
	"fmt"

	"github.com/9ssi7/exponent"
	"go.uber.org/zap"

	"nightowl/internal/domain/pushtokens"
	"nightowl/internal/domain/submissions"
)

// OutcomeNotifier pushes submission resolutions to the submitter's devices.
// It satisfies moderation.OutcomeNotifier; delivery failures are logged and
// never surfaced, the in-app notification row is the source of truth.
type OutcomeNotifier struct {
	sender Sender
	tokens pushtokens.Store
	logger *zap.SugaredLogger
}

func NewOutcomeNotifier(sender Sender, tokens pushtokens.Store, logger *zap.SugaredLogger) *OutcomeNotifier {
	return &OutcomeNotifier{sender: sender, tokens: tokens, logger: logger}
}

func (n *OutcomeNotifier) SubmissionResolved(ctx context.Context, sub *submissions.Submission, outcome submissions.Status) {
	tokens, err := n.tokens.GetTokensByUserID(ctx, sub.UserID)
	if err != nil {
		n.logger.Errorw("push token lookup failed", "user_id", sub.UserID, "error", err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	var title, body string
	switch outcome {
	case submissions.StatusApproved:
		title = "Submission approved"
		body = fmt.Sprintf("%s is now live on NightOwl! 🎉", sub.Name)
	case submissions.StatusRejected:
		title = "Submission rejected"
		body = fmt.Sprintf("The community couldn't verify %s.", sub.Name)
	default:
		return
	}

	msgs := make([]*exponent.Message, 0, len(tokens))
	for _, t := range tokens {
		token := exponent.Token(t)
		msgs = append(msgs, &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
			// Drives deep linking when the notification is tapped.
			Data: map[string]string{
				"type":         "submission",
				"outcome":      string(outcome),
				"submissionId": fmt.Sprintf("%d", sub.ID),
				"screen":       "my-submissions-screen",
			},
		})
	}

	if _, err := n.sender.Publish(ctx, msgs); err != nil {
		n.logger.Errorw("push delivery failed", "user_id", sub.UserID, "error", err)
	}
}
