package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"nightowl/internal/domain/submissions"
	"nightowl/internal/domain/users"
	"nightowl/internal/sanitize"
)

type CreateSubmissionPayload struct {
	Name          string `json:"name" validate:"required,max=120"`
	Neighbourhood string `json:"neighbourhood" validate:"required,max=80"`
	Address       string `json:"address" validate:"required,max=200"`
	Description   string `json:"description,omitempty" validate:"omitempty,max=1000"`

	TypicalWait    string   `json:"typical_wait" validate:"required,oneof=none short moderate long"`
	CoverFrequency string   `json:"cover_frequency" validate:"required,oneof=never weekends always"`
	CoverAmount    int      `json:"cover_amount" validate:"gte=0,lte=500"`
	Vibe           string   `json:"vibe" validate:"required,oneof=chill divey upscale club live"`
	AgeGroup       string   `json:"age_group" validate:"required,oneof=early_20s mid_20s late_20s_30s 30s_plus mixed"`
	MusicGenres    []string `json:"music_genres,omitempty" validate:"omitempty,max=10,dive,max=40"`
	LiveMusicDays  []string `json:"live_music_days,omitempty" validate:"omitempty,max=7,dive,oneof=mon tue wed thu fri sat sun"`
	KaraokeDays    []string `json:"karaoke_days,omitempty" validate:"omitempty,max=7,dive,oneof=mon tue wed thu fri sat sun"`
	HasPatio       bool     `json:"has_patio"`
	HasRooftop     bool     `json:"has_rooftop"`
	HasDanceFloor  bool     `json:"has_dance_floor"`
	HasPoolTable   bool     `json:"has_pool_table"`
	CapacitySize   string   `json:"capacity_size" validate:"required,oneof=small medium large"`

	// ConfirmNotDuplicate skips the similar-venue check; the client sets it
	// after showing the user the candidate list from a previous 409.
	ConfirmNotDuplicate bool `json:"confirm_not_duplicate"`
}

// DuplicateCandidatesResponse is the 409 body when similar venues already exist.
type DuplicateCandidatesResponse struct {
	Success    bool                     `json:"success" example:"false"`
	Message    string                   `json:"message"`
	Status     int                      `json:"status" example:"409"`
	Candidates []submissions.Submission `json:"candidates"`
}

// createSubmissionHandler godoc
//
//	@Summary		Submit a new venue
//	@Description	Creates a pending venue submission. If similar venues already exist the request is rejected with the candidate list; resubmit with confirm_not_duplicate to proceed anyway.
//	@Tags			submissions
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateSubmissionPayload	true	"Venue details"
//	@Success		201		{object}	submissions.Submission	"Submission created"
//	@Failure		400		{object}	ErrorBadRequestResponse	"Bad request"
//	@Failure		409		{object}	DuplicateCandidatesResponse	"Similar venues exist"
//	@Failure		500		{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/submissions [post]
func (app *application) createSubmissionHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload CreateSubmissionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	name := sanitize.Text(payload.Name)
	neighbourhood := sanitize.Text(payload.Neighbourhood)
	if name == "" || neighbourhood == "" {
		app.badRequestResponse(w, r, errors.New("name and neighbourhood must contain visible text"))
		return
	}

	ctx := r.Context()

	if !payload.ConfirmNotDuplicate {
		similar, err := app.store.Submissions.FindSimilar(ctx, name, neighbourhood)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		if len(similar) > 0 {
			writeJSON(w, http.StatusConflict, &DuplicateCandidatesResponse{
				Success:    false,
				Message:    "similar venues already exist; set confirm_not_duplicate to submit anyway",
				Status:     http.StatusConflict,
				Candidates: similar,
			})
			return
		}
	}

	sub := &submissions.Submission{
		UserID:         user.ID,
		Name:           name,
		Neighbourhood:  neighbourhood,
		Address:        sanitize.Text(payload.Address),
		TypicalWait:    payload.TypicalWait,
		CoverFrequency: payload.CoverFrequency,
		CoverAmount:    payload.CoverAmount,
		Vibe:           payload.Vibe,
		AgeGroup:       payload.AgeGroup,
		MusicGenres:    payload.MusicGenres,
		LiveMusicDays:  payload.LiveMusicDays,
		KaraokeDays:    payload.KaraokeDays,
		HasPatio:       payload.HasPatio,
		HasRooftop:     payload.HasRooftop,
		HasDanceFloor:  payload.HasDanceFloor,
		HasPoolTable:   payload.HasPoolTable,
		CapacitySize:   payload.CapacitySize,
	}
	if desc := sanitize.Text(payload.Description); desc != "" {
		sub.Description = &desc
	}

	if err := app.store.Submissions.Create(ctx, sub); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("submission created", "submission_id", sub.ID, "user_id", user.ID)

	if err := app.jsonResponse(w, http.StatusCreated, sub); err != nil {
		app.internalServerError(w, r, err)
	}
}

func listFilterFromQuery(r *http.Request) submissions.ListFilter {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return submissions.ListFilter{Page: page, Limit: limit}
}

// listMySubmissionsHandler godoc
//
//	@Summary		List my submissions
//	@Description	Returns the current user's submissions, newest first, with their review status
//	@Tags			submissions
//	@Produce		json
//	@Param			page	query	int	false	"Page number"
//	@Param			limit	query	int	false	"Page size (max 60)"
//	@Success		200	{array}		submissions.Submission
//	@Failure		500	{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/submissions/mine [get]
func (app *application) listMySubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	list, err := app.store.Submissions.ListByOwner(r.Context(), user.ID, listFilterFromQuery(r))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// reviewQueueHandler godoc
//
//	@Summary		List the review queue
//	@Description	Returns pending submissions oldest first. Reviewer access required.
//	@Tags			submissions
//	@Produce		json
//	@Param			page	query	int	false	"Page number"
//	@Param			limit	query	int	false	"Page size (max 60)"
//	@Success		200	{array}		submissions.Submission
//	@Failure		403	{object}	error	"Reviewer access required"
//	@Failure		500	{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/submissions/queue [get]
func (app *application) reviewQueueHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Submissions.ListPending(r.Context(), listFilterFromQuery(r))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getSubmissionHandler godoc
//
//	@Summary		Get a submission
//	@Description	Returns one submission. Visible to its owner and to approved reviewers.
//	@Tags			submissions
//	@Produce		json
//	@Param			submissionID	path	string	true	"Submission ID"
//	@Success		200	{object}	submissions.Submission
//	@Failure		403	{object}	error	"Not the owner and not a reviewer"
//	@Failure		404	{object}	error	"Submission not found"
//	@Security		ApiKeyAuth
//	@Router			/submissions/{submissionID} [get]
func (app *application) getSubmissionHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	submissionID, err := strconv.ParseInt(chi.URLParam(r, "submissionID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid submission ID"))
		return
	}

	sub, err := app.store.Submissions.GetByID(r.Context(), submissionID)
	if err != nil {
		if errors.Is(err, submissions.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if sub.UserID != user.ID {
		status, err := app.store.Users.GetReviewerStatus(r.Context(), user.ID)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		if status != users.ReviewerApproved {
			app.forbiddenResponse(w, r, errors.New("not your submission"))
			return
		}
	}

	if err := app.jsonResponse(w, http.StatusOK, sub); err != nil {
		app.internalServerError(w, r, err)
	}
}
