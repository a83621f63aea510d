package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"nightowl/internal/domain/venues"
	"nightowl/internal/recommend"
)

func (app *application) attachShareCode(v *venues.Venue) {
	code, err := app.shareCodes.Encode(v.ID)
	if err != nil {
		// The venue is still useful without a share link.
		app.logger.Errorw("share code encode failed", "venue_id", v.ID, "error", err)
		return
	}
	v.ShareCode = code
}

// listVenuesHandler godoc
//
//	@Summary		Browse the venue catalog
//	@Description	Lists published venues with optional filters for neighbourhood, vibe, genre, age group, cover and amenities
//	@Tags			venues
//	@Produce		json
//	@Param			neighbourhood	query	string	false	"Neighbourhood name"
//	@Param			vibe			query	string	false	"chill, divey, upscale, club or live"
//	@Param			genre			query	string	false	"Music genre"
//	@Param			age_group		query	string	false	"Crowd age group"
//	@Param			no_cover		query	bool	false	"Only venues that never charge cover"
//	@Param			patio			query	bool	false	"Only venues with a patio"
//	@Param			karaoke			query	bool	false	"Only venues with karaoke nights"
//	@Param			page			query	int		false	"Page number"
//	@Param			limit			query	int		false	"Page size (max 60)"
//	@Success		200	{array}		venues.Venue
//	@Failure		500	{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Router			/venues [get]
func (app *application) listVenuesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	noCover, _ := strconv.ParseBool(q.Get("no_cover"))
	patio, _ := strconv.ParseBool(q.Get("patio"))
	karaoke, _ := strconv.ParseBool(q.Get("karaoke"))

	filter := venues.Filter{
		Neighbourhood: q.Get("neighbourhood"),
		Vibe:          q.Get("vibe"),
		Genre:         q.Get("genre"),
		AgeGroup:      q.Get("age_group"),
		NoCover:       noCover,
		WantsPatio:    patio,
		WantsKaraoke:  karaoke,
		Page:          page,
		Limit:         limit,
	}

	list, err := app.store.Venues.List(r.Context(), filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	for i := range list {
		app.attachShareCode(&list[i])
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getVenueHandler godoc
//
//	@Summary		Get a venue by slug
//	@Description	Returns a single published venue with its photos and share code
//	@Tags			venues
//	@Produce		json
//	@Param			slug	path		string	true	"Venue slug"
//	@Success		200		{object}	venues.Venue
//	@Failure		404		{object}	error	"Venue not found"
//	@Router			/venues/{slug} [get]
func (app *application) getVenueHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	venue, err := app.store.Venues.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, venues.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.attachShareCode(venue)

	if err := app.jsonResponse(w, http.StatusOK, venue); err != nil {
		app.internalServerError(w, r, err)
	}
}

// recommendVenuesHandler godoc
//
//	@Summary		Get venue recommendations
//	@Description	Ranks the catalog against the caller's stated preferences (vibe, neighbourhood, music, budget, amenities) and returns the top matches with scores
//	@Tags			venues
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		recommend.Preferences	true	"Night-out preferences"
//	@Success		200		{array}		recommend.Result
//	@Failure		400		{object}	ErrorBadRequestResponse		"Bad request"
//	@Failure		500		{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Router			/venues/recommendations [post]
func (app *application) recommendVenuesHandler(w http.ResponseWriter, r *http.Request) {
	var prefs recommend.Preferences
	if err := readJSON(w, r, &prefs); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	candidates, err := app.store.Venues.ListForRecommendation(r.Context(), 0)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	results := recommend.Recommend(prefs, candidates)
	for i := range results {
		app.attachShareCode(&results[i].Venue)
	}

	if err := app.jsonResponse(w, http.StatusOK, results); err != nil {
		app.internalServerError(w, r, err)
	}
}

// uploadVenuePhotoHandler godoc
//
//	@Summary		Upload a venue photo
//	@Description	Uploads a single image to Cloudinary and appends its URL to the venue's gallery
//	@Tags			venues
//	@Accept			mpfd
//	@Produce		json
//	@Param			venueID	path		string	true	"Venue ID"
//	@Param			image	formData	file	true	"Image file"
//	@Success		201		{object}	map[string]string
//	@Failure		400		{object}	ErrorBadRequestResponse	"Bad request"
//	@Failure		404		{object}	error	"Venue not found"
//	@Failure		500		{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/photos [post]
func (app *application) uploadVenuePhotoHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid venue ID"))
		return
	}

	const maxBytes = 5 * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		app.badRequestResponse(w, r, errors.New("image file is required"))
		return
	}
	defer file.Close()

	url, err := app.uploadVenuePhotoToCloudinary(file, venueID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Venues.AddPhotoURL(r.Context(), venueID, url); err != nil {
		if errors.Is(err, venues.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, map[string]string{"url": url}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteVenuePhotoHandler godoc
//
//	@Summary		Delete a venue photo
//	@Description	Removes a photo URL from the venue's gallery and deletes the asset from Cloudinary
//	@Tags			venues
//	@Produce		json
//	@Param			venueID		path	string	true	"Venue ID"
//	@Param			photo_url	query	string	true	"Photo URL to remove"
//	@Success		204	{string}	string	"No Content"
//	@Failure		400	{object}	ErrorBadRequestResponse	"Bad request"
//	@Failure		404	{object}	error	"Venue not found"
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/photos [delete]
func (app *application) deleteVenuePhotoHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid venue ID"))
		return
	}

	photoURL := r.URL.Query().Get("photo_url")
	if photoURL == "" {
		app.badRequestResponse(w, r, errors.New("photo_url query parameter is required"))
		return
	}

	if err := app.store.Venues.RemovePhotoURL(r.Context(), venueID, photoURL); err != nil {
		if errors.Is(err, venues.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	// The DB row is the source of truth; a stranded Cloudinary asset is
	// only wasted storage.
	if err := app.deletePhotoFromCloudinary(photoURL); err != nil {
		app.logger.Errorw("cloudinary delete failed", "photo_url", photoURL, "error", err)
	}

	w.WriteHeader(http.StatusNoContent)
}
