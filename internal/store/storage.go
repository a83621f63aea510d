// Package store aggregates the per-domain repositories behind one struct so
// handlers and services take a single dependency.
package store

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"nightowl/internal/domain/badges"
	"nightowl/internal/domain/notifications"
	"nightowl/internal/domain/pushtokens"
	"nightowl/internal/domain/reviews"
	"nightowl/internal/domain/submissions"
	"nightowl/internal/domain/users"
	"nightowl/internal/domain/venues"
)

type Storage struct {
	Users         users.Store
	Venues        venues.Store
	Submissions   submissions.Store
	Reviews       reviews.Store
	Badges        badges.Store
	Notifications notifications.Store
	PushTokens    pushtokens.Store
}

func NewStorage(db *pgxpool.Pool) Storage {
	return Storage{
		Users:         users.NewRepository(db),
		Venues:        venues.NewRepository(db),
		Submissions:   submissions.NewRepository(db),
		Reviews:       reviews.NewRepository(db),
		Badges:        badges.NewRepository(db),
		Notifications: notifications.NewRepository(db),
		PushTokens:    pushtokens.NewRepository(db),
	}
}
