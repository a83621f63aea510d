package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"nightowl/internal/domain/badges"
	"nightowl/internal/domain/notifications"
	"nightowl/internal/domain/reviews"
	"nightowl/internal/domain/submissions"
	"nightowl/internal/domain/users"
	"nightowl/internal/domain/venues"
)

var errStore = errors.New("store unavailable")

// fakeState backs all fake stores so tests can inspect cross-store effects.
type fakeState struct {
	users    map[int64]*users.User
	subs     map[int64]*submissions.Submission
	reviews  []reviews.Review
	badges   []badges.Badge
	notifs   []notifications.Notification
	promoted []int64

	nextReviewID int64

	// hideExistingReview makes the duplicate pre-check miss so the unique
	// index path inside Insert can be exercised.
	hideExistingReview bool
	failStats          bool
	failBadges         bool
	failListReviews    bool
	failNotifications  bool
}

func newFakeState() *fakeState {
	return &fakeState{
		users: make(map[int64]*users.User),
		subs:  make(map[int64]*submissions.Submission),
	}
}

func (st *fakeState) addUser(id int64, status users.ReviewerStatus, completed int) {
	st.users[id] = &users.User{ID: id, ReviewerStatus: status, ReviewsCompleted: completed}
}

func (st *fakeState) addSubmission(id, ownerID int64, status submissions.Status, name string) {
	st.subs[id] = &submissions.Submission{
		ID:     id,
		UserID: ownerID,
		Name:   name,
		Slug:   submissions.GenerateSlug(name),
		Status: status,
	}
}

func (st *fakeState) addReview(subID, reviewerID int64, decision reviews.Decision) {
	st.nextReviewID++
	st.reviews = append(st.reviews, reviews.Review{
		ID:           st.nextReviewID,
		SubmissionID: subID,
		ReviewerID:   reviewerID,
		Decision:     decision,
		CreatedAt:    time.Now(),
	})
}

type fakeUsers struct{ st *fakeState }

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*users.User, error) {
	u, ok := f.st.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetReviewerStatus(_ context.Context, id int64) (users.ReviewerStatus, error) {
	u, ok := f.st.users[id]
	if !ok {
		return "", users.ErrNotFound
	}
	return u.ReviewerStatus, nil
}

func (f *fakeUsers) IncrementReviewerStats(_ context.Context, id int64, revs, points int) (int, error) {
	if f.st.failStats {
		return 0, errStore
	}
	u, ok := f.st.users[id]
	if !ok {
		return 0, users.ErrNotFound
	}
	u.ReviewsCompleted += revs
	u.Points += points
	return u.ReviewsCompleted, nil
}

func (f *fakeUsers) GetByEmail(context.Context, string) (*users.User, error) { panic("not used") }
func (f *fakeUsers) GetByPhone(context.Context, string) (*users.User, error) { panic("not used") }
func (f *fakeUsers) Create(context.Context, *users.User) error               { panic("not used") }
func (f *fakeUsers) ApplyForReviewer(context.Context, int64) error           { panic("not used") }
func (f *fakeUsers) SetReviewerStatus(context.Context, int64, users.ReviewerStatus) error {
	panic("not used")
}
func (f *fakeUsers) SaveRefreshToken(context.Context, int64, string) error { panic("not used") }
func (f *fakeUsers) GetRefreshToken(context.Context, int64) (string, error) {
	panic("not used")
}
func (f *fakeUsers) DeleteRefreshToken(context.Context, int64) error { panic("not used") }

type fakeSubmissions struct{ st *fakeState }

func (f *fakeSubmissions) GetByID(_ context.Context, id int64) (*submissions.Submission, error) {
	s, ok := f.st.subs[id]
	if !ok {
		return nil, submissions.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubmissions) UpdateStatusIfPending(_ context.Context, id int64, status submissions.Status, reviewedAt time.Time) (bool, error) {
	s, ok := f.st.subs[id]
	if !ok || s.Status != submissions.StatusPending {
		return false, nil
	}
	s.Status = status
	t := reviewedAt
	s.ReviewedAt = &t
	return true, nil
}

func (f *fakeSubmissions) Create(context.Context, *submissions.Submission) error {
	panic("not used")
}
func (f *fakeSubmissions) ListByOwner(context.Context, int64, submissions.ListFilter) ([]submissions.Submission, error) {
	panic("not used")
}
func (f *fakeSubmissions) ListPending(context.Context, submissions.ListFilter) ([]submissions.Submission, error) {
	panic("not used")
}
func (f *fakeSubmissions) FindSimilar(context.Context, string, string) ([]submissions.Submission, error) {
	panic("not used")
}

type fakeReviews struct{ st *fakeState }

func (f *fakeReviews) Insert(_ context.Context, rv *reviews.Review) error {
	for _, existing := range f.st.reviews {
		if existing.SubmissionID == rv.SubmissionID && existing.ReviewerID == rv.ReviewerID {
			return reviews.ErrAlreadyReviewed
		}
	}
	f.st.nextReviewID++
	rv.ID = f.st.nextReviewID
	rv.CreatedAt = time.Now()
	f.st.reviews = append(f.st.reviews, *rv)
	return nil
}

func (f *fakeReviews) GetByReviewer(_ context.Context, subID, reviewerID int64) (*reviews.Review, error) {
	if f.st.hideExistingReview {
		return nil, reviews.ErrNotFound
	}
	for i := range f.st.reviews {
		rv := f.st.reviews[i]
		if rv.SubmissionID == subID && rv.ReviewerID == reviewerID {
			return &rv, nil
		}
	}
	return nil, reviews.ErrNotFound
}

func (f *fakeReviews) ListBySubmission(_ context.Context, subID int64) ([]reviews.Review, error) {
	if f.st.failListReviews {
		return nil, errStore
	}
	var out []reviews.Review
	for _, rv := range f.st.reviews {
		if rv.SubmissionID == subID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (f *fakeReviews) ListByReviewer(context.Context, int64) ([]reviews.Review, error) {
	panic("not used")
}
func (f *fakeReviews) CountByReviewer(context.Context, int64) (int, error) { panic("not used") }

type fakeBadges struct{ st *fakeState }

func (f *fakeBadges) Insert(_ context.Context, userID int64, def badges.Definition) error {
	if f.st.failBadges {
		return errStore
	}
	for _, b := range f.st.badges {
		if b.UserID == userID && b.Type == def.Type {
			return nil // conflict-skip, same as ON CONFLICT DO NOTHING
		}
	}
	f.st.badges = append(f.st.badges, badges.Badge{
		UserID:      userID,
		Type:        def.Type,
		Name:        def.Name,
		Description: def.Description,
		AwardedAt:   time.Now(),
	})
	return nil
}

func (f *fakeBadges) ListByUser(context.Context, int64) ([]badges.Badge, error) {
	panic("not used")
}

type fakeNotifications struct{ st *fakeState }

func (f *fakeNotifications) Insert(_ context.Context, n *notifications.Notification) error {
	if f.st.failNotifications {
		return errStore
	}
	n.ID = int64(len(f.st.notifs) + 1)
	n.CreatedAt = time.Now()
	f.st.notifs = append(f.st.notifs, *n)
	return nil
}

func (f *fakeNotifications) ListByUser(context.Context, int64) ([]notifications.Notification, error) {
	panic("not used")
}
func (f *fakeNotifications) MarkRead(context.Context, int64, int64) error { panic("not used") }
func (f *fakeNotifications) CountUnread(context.Context, int64) (int, error) {
	panic("not used")
}

type fakeVenues struct{ st *fakeState }

func (f *fakeVenues) CreateFromSubmission(_ context.Context, sub *submissions.Submission) (*venues.Venue, error) {
	f.st.promoted = append(f.st.promoted, sub.ID)
	return &venues.Venue{ID: sub.ID, Name: sub.Name, Slug: sub.Slug}, nil
}

func (f *fakeVenues) GetByID(context.Context, int64) (*venues.Venue, error)      { panic("not used") }
func (f *fakeVenues) GetBySlug(context.Context, string) (*venues.Venue, error)   { panic("not used") }
func (f *fakeVenues) List(context.Context, venues.Filter) ([]venues.Venue, error) { panic("not used") }
func (f *fakeVenues) ListForRecommendation(context.Context, int) ([]venues.Venue, error) {
	panic("not used")
}
func (f *fakeVenues) AddPhotoURL(context.Context, int64, string) error    { panic("not used") }
func (f *fakeVenues) RemovePhotoURL(context.Context, int64, string) error { panic("not used") }

type recordingNotifier struct {
	calls []submissions.Status
}

func (n *recordingNotifier) SubmissionResolved(_ context.Context, _ *submissions.Submission, outcome submissions.Status) {
	n.calls = append(n.calls, outcome)
}

func newServiceHarness(t *testing.T) (*Service, *fakeState, *recordingNotifier) {
	t.Helper()
	st := newFakeState()
	notifier := &recordingNotifier{}
	svc := NewService(
		&fakeSubmissions{st},
		&fakeReviews{st},
		&fakeUsers{st},
		&fakeBadges{st},
		&fakeNotifications{st},
		&fakeVenues{st},
		notifier,
		zap.NewNop().Sugar(),
	)
	return svc, st, notifier
}

func validInput(subID, reviewerID int64, decision reviews.Decision) SubmitReviewInput {
	return SubmitReviewInput{
		SubmissionID:     subID,
		ReviewerID:       reviewerID,
		Decision:         decision,
		NameAccurate:     true,
		LocationAccurate: true,
		DetailsAccurate:  true,
		FeaturesAccurate: true,
		Notes:            "checked against the venue website",
		ConfidenceLevel:  4,
	}
}
