package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"nightowl/internal/domain/users"
)

// getCurrentUserHandler godoc
//
//	@Summary		Get the signed-in user
//	@Description	Returns the current user's profile, reviewer status, points and review count
//	@Tags			users
//	@Produce		json
//	@Success		200	{object}	users.User
//	@Failure		401	{object}	error	"Unauthorized"
//	@Security		ApiKeyAuth
//	@Router			/users/me [get]
func (app *application) getCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	if err := app.jsonResponse(w, http.StatusOK, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listMyBadgesHandler godoc
//
//	@Summary		List earned badges
//	@Description	Returns every badge the current user has earned, oldest first
//	@Tags			users
//	@Produce		json
//	@Success		200	{array}		badges.Badge
//	@Failure		500	{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/users/me/badges [get]
func (app *application) listMyBadgesHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	earned, err := app.store.Badges.ListByUser(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, earned); err != nil {
		app.internalServerError(w, r, err)
	}
}

// applyForReviewerHandler godoc
//
//	@Summary		Apply to become a reviewer
//	@Description	Marks the current user's reviewer application as pending. Only users who have never applied can apply; the application is reviewed by the NightOwl team.
//	@Tags			users
//	@Produce		json
//	@Success		202	{object}	map[string]string
//	@Failure		409	{object}	error	"Already applied or already a reviewer"
//	@Failure		500	{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/users/me/reviewer-application [post]
func (app *application) applyForReviewerHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	if err := app.store.Users.ApplyForReviewer(r.Context(), user.ID); err != nil {
		// ApplyForReviewer only moves none -> pending, so a no-op update
		// means the user has already applied or is already approved.
		if errors.Is(err, users.ErrNotFound) {
			app.conflictResponse(w, r, errors.New("reviewer application already submitted"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]string{"message": "application received"}
	if err := app.jsonResponse(w, http.StatusAccepted, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

type SetReviewerStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=none pending approved"`
}

// setReviewerStatusHandler godoc
//
//	@Summary		Set a user's reviewer status
//	@Description	Operator endpoint to approve, reject or revoke reviewer access
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			userID	string	path	true	"User ID"
//	@Param			payload	body	SetReviewerStatusPayload	true	"New reviewer status"
//	@Success		204	{string}	string	"No Content"
//	@Failure		400	{object}	ErrorBadRequestResponse	"Bad request"
//	@Failure		404	{object}	error	"User not found"
//	@Router			/admin/reviewers/{userID} [put]
func (app *application) setReviewerStatusHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid user ID"))
		return
	}

	var payload SetReviewerStatusPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.store.Users.SetReviewerStatus(r.Context(), userID, users.ReviewerStatus(payload.Status))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("reviewer status updated", "user_id", userID, "status", payload.Status)
	w.WriteHeader(http.StatusNoContent)
}
