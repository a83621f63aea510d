package mailer

import (
	"context"

	"go.uber.org/zap"

	"nightowl/internal/domain/submissions"
	"nightowl/internal/domain/users"
)

// OutcomeMailer emails submitters when their submission is resolved. Users who
// signed up by phone have no email on file and are skipped; the in-app
// notification still reaches them.
type OutcomeMailer struct {
	client Client
	users  users.Store
	logger *zap.SugaredLogger
}

func NewOutcomeMailer(client Client, usrs users.Store, logger *zap.SugaredLogger) *OutcomeMailer {
	return &OutcomeMailer{client: client, users: usrs, logger: logger}
}

func (m *OutcomeMailer) SubmissionResolved(ctx context.Context, sub *submissions.Submission, outcome submissions.Status) {
	user, err := m.users.GetByID(ctx, sub.UserID)
	if err != nil {
		m.logger.Errorw("outcome mail user lookup failed", "user_id", sub.UserID, "error", err)
		return
	}
	if user.Email == nil {
		return
	}

	vars := struct {
		Username  string
		VenueName string
		Outcome   string
	}{
		Username:  user.DisplayName,
		VenueName: sub.Name,
		Outcome:   string(outcome),
	}

	if _, err := m.client.Send(OutcomeEmailTemplate, user.DisplayName, *user.Email, vars); err != nil {
		m.logger.Errorw("outcome mail delivery failed", "user_id", user.ID, "error", err)
	}
}
