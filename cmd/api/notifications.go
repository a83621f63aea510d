package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"nightowl/internal/domain/notifications"
)

// listNotificationsHandler godoc
//
//	@Summary		List notifications
//	@Description	Returns the current user's notifications, newest first, plus the unread count
//	@Tags			notifications
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Failure		500	{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/notifications [get]
func (app *application) listNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	ctx := r.Context()

	list, err := app.store.Notifications.ListByUser(ctx, user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	unread, err := app.store.Notifications.CountUnread(ctx, user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]any{
		"notifications": list,
		"unread_count":  unread,
	}
	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// markNotificationReadHandler godoc
//
//	@Summary		Mark a notification as read
//	@Description	Marks one of the current user's notifications as read
//	@Tags			notifications
//	@Produce		json
//	@Param			notificationID	path	string	true	"Notification ID"
//	@Success		204	{string}	string	"No Content"
//	@Failure		404	{object}	error	"Notification not found"
//	@Security		ApiKeyAuth
//	@Router			/notifications/{notificationID}/read [put]
func (app *application) markNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	notificationID, err := strconv.ParseInt(chi.URLParam(r, "notificationID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid notification ID"))
		return
	}

	if err := app.store.Notifications.MarkRead(r.Context(), notificationID, user.ID); err != nil {
		if errors.Is(err, notifications.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SavePushTokenRequest represents the payload for saving/updating a push token
type SavePushTokenRequest struct {
	Token      string          `json:"token" validate:"required"`
	DeviceInfo json.RawMessage `json:"device_info"`
}

// registerPushTokenHandler godoc
//
//	@Summary		Save or update a push notification token
//	@Description	Stores or updates a user's Expo push token along with optional device info
//	@Tags			notifications
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	SavePushTokenRequest	true	"Push token data"
//	@Success		204
//	@Failure		400	{object}	ErrorBadRequestResponse	"Bad Request"
//	@Failure		500	{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/notifications/push-token [post]
func (app *application) registerPushTokenHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload SavePushTokenRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.PushTokens.AddOrUpdatePushToken(r.Context(), user.ID, payload.Token, payload.DeviceInfo); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
