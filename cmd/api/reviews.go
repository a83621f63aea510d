package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"nightowl/internal/domain/reviews"
	"nightowl/internal/domain/submissions"
	"nightowl/internal/domain/users"
	"nightowl/internal/moderation"
	"nightowl/internal/sanitize"
)

type SubmitReviewPayload struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject needs_changes"`

	NameAccurate     bool `json:"name_accurate"`
	LocationAccurate bool `json:"location_accurate"`
	DetailsAccurate  bool `json:"details_accurate"`
	FeaturesAccurate bool `json:"features_accurate"`

	Notes           string `json:"notes,omitempty" validate:"omitempty,max=2000"`
	ConfidenceLevel int    `json:"confidence_level" validate:"required,min=1,max=5"`
}

// SubmitReviewResponse is the success body: the stored review plus the points
// the reviewer just earned.
type SubmitReviewResponse struct {
	Review       *reviews.Review `json:"review"`
	PointsEarned int             `json:"points_earned"`
}

// submitReviewHandler godoc
//
//	@Summary		Review a submission
//	@Description	Records an approved reviewer's verdict on a pending submission. Awards points and badges, and resolves the submission once five reviews with a three-vote majority are in.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			submissionID	path	string	true	"Submission ID"
//	@Param			payload	body		SubmitReviewPayload	true	"Verdict and accuracy checklist"
//	@Success		201		{object}	SubmitReviewResponse	"Review recorded"
//	@Failure		400		{object}	ErrorBadRequestResponse	"Bad request"
//	@Failure		403		{object}	error	"Reviewer access required"
//	@Failure		404		{object}	error	"Submission not found"
//	@Failure		409		{object}	error	"Already reviewed, already resolved or own submission"
//	@Failure		500		{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/submissions/{submissionID}/reviews [post]
func (app *application) submitReviewHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	submissionID, err := strconv.ParseInt(chi.URLParam(r, "submissionID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid submission ID"))
		return
	}

	var payload SubmitReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	review, err := app.moderation.SubmitReview(r.Context(), moderation.SubmitReviewInput{
		SubmissionID:     submissionID,
		ReviewerID:       user.ID,
		Decision:         reviews.Decision(payload.Decision),
		NameAccurate:     payload.NameAccurate,
		LocationAccurate: payload.LocationAccurate,
		DetailsAccurate:  payload.DetailsAccurate,
		FeaturesAccurate: payload.FeaturesAccurate,
		Notes:            sanitize.Text(payload.Notes),
		ConfidenceLevel:  payload.ConfidenceLevel,
	})
	if err != nil {
		var verr moderation.ValidationError
		switch {
		case errors.As(err, &verr):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, moderation.ErrNotReviewer):
			app.forbiddenResponse(w, r, err)
		case errors.Is(err, moderation.ErrSubmissionNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, moderation.ErrAlreadyReviewed),
			errors.Is(err, moderation.ErrNotReviewable),
			errors.Is(err, moderation.ErrSelfReview):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	response := SubmitReviewResponse{
		Review:       review,
		PointsEarned: moderation.PointsPerReview,
	}
	if err := app.jsonResponse(w, http.StatusCreated, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listSubmissionReviewsHandler godoc
//
//	@Summary		List a submission's reviews
//	@Description	Returns every review on a submission, oldest first. Approved reviewers can always look; the owner can look once the submission is resolved.
//	@Tags			reviews
//	@Produce		json
//	@Param			submissionID	path	string	true	"Submission ID"
//	@Success		200	{array}		reviews.Review
//	@Failure		403	{object}	error	"Not allowed to see these reviews"
//	@Failure		404	{object}	error	"Submission not found"
//	@Security		ApiKeyAuth
//	@Router			/submissions/{submissionID}/reviews [get]
func (app *application) listSubmissionReviewsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	submissionID, err := strconv.ParseInt(chi.URLParam(r, "submissionID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid submission ID"))
		return
	}

	ctx := r.Context()

	sub, err := app.store.Submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, submissions.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	// Owners only see reviews after resolution so pending votes can't be
	// lobbied; reviewers see them any time.
	allowed := sub.UserID == user.ID && sub.Status != submissions.StatusPending
	if !allowed {
		status, err := app.store.Users.GetReviewerStatus(ctx, user.ID)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		allowed = status == users.ReviewerApproved
	}
	if !allowed {
		app.forbiddenResponse(w, r, errors.New("reviews are not visible yet"))
		return
	}

	list, err := app.store.Reviews.ListBySubmission(ctx, submissionID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listMyReviewsHandler godoc
//
//	@Summary		List my reviews
//	@Description	Returns the current user's reviews, newest first, with the running total
//	@Tags			reviews
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Failure		500	{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/reviews/mine [get]
func (app *application) listMyReviewsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	ctx := r.Context()

	list, err := app.store.Reviews.ListByReviewer(ctx, user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	total, err := app.store.Reviews.CountByReviewer(ctx, user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]any{
		"reviews": list,
		"total":   total,
	}
	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
