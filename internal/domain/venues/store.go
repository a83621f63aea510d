package venues

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nightowl/internal/domain/submissions"
)

type Store interface {
	GetByID(ctx context.Context, venueID int64) (*Venue, error)
	GetBySlug(ctx context.Context, slug string) (*Venue, error)
	List(ctx context.Context, filter Filter) ([]Venue, error)
	ListForRecommendation(ctx context.Context, limit int) ([]Venue, error)
	CreateFromSubmission(ctx context.Context, sub *submissions.Submission) (*Venue, error)
	AddPhotoURL(ctx context.Context, venueID int64, photoURL string) error
	RemovePhotoURL(ctx context.Context, venueID int64, photoURL string) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

const venueColumns = `
	id, source_submission_id, name, slug, neighbourhood, address, description,
	typical_wait, cover_frequency, cover_amount, vibe, age_group,
	music_genres, live_music_days, karaoke_days,
	has_patio, has_rooftop, has_dance_floor, has_pool_table, capacity_size,
	image_urls, created_at, updated_at
`

func scanVenue(row pgx.Row) (*Venue, error) {
	var v Venue
	err := row.Scan(
		&v.ID, &v.SourceSubmissionID, &v.Name, &v.Slug, &v.Neighbourhood, &v.Address, &v.Description,
		&v.TypicalWait, &v.CoverFrequency, &v.CoverAmount, &v.Vibe, &v.AgeGroup,
		&v.MusicGenres, &v.LiveMusicDays, &v.KaraokeDays,
		&v.HasPatio, &v.HasRooftop, &v.HasDanceFloor, &v.HasPoolTable, &v.CapacitySize,
		&v.ImageURLs, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan venue: %w", err)
	}
	return &v, nil
}

func (r *Repository) GetByID(ctx context.Context, venueID int64) (*Venue, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `SELECT ` + venueColumns + ` FROM venues WHERE id = $1`
	return scanVenue(r.db.QueryRow(ctx, q, venueID))
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Venue, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `SELECT ` + venueColumns + ` FROM venues WHERE slug = $1`
	return scanVenue(r.db.QueryRow(ctx, q, slug))
}

func (r *Repository) List(ctx context.Context, filter Filter) ([]Venue, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 60 {
		filter.Limit = 20
	}

	where := []string{"1=1"}
	args := []interface{}{}
	arg := 1

	addEq := func(column, value string) {
		if value == "" {
			return
		}
		where = append(where, fmt.Sprintf("LOWER(%s) = LOWER($%d)", column, arg))
		args = append(args, value)
		arg++
	}

	addEq("neighbourhood", filter.Neighbourhood)
	addEq("vibe", filter.Vibe)
	addEq("age_group", filter.AgeGroup)

	if filter.Genre != "" {
		where = append(where, fmt.Sprintf("$%d = ANY(music_genres)", arg))
		args = append(args, strings.ToLower(filter.Genre))
		arg++
	}
	if filter.NoCover {
		where = append(where, "cover_frequency = 'never'")
	}
	if filter.WantsPatio {
		where = append(where, "has_patio = TRUE")
	}
	if filter.WantsKaraoke {
		where = append(where, "array_length(karaoke_days, 1) > 0")
	}

	limitPos := arg
	offsetPos := arg + 1
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	q := fmt.Sprintf(`
		SELECT %s
		FROM venues
		WHERE %s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d
	`, venueColumns, strings.Join(where, " AND "), limitPos, offsetPos)

	return r.list(ctx, q, args...)
}

func (r *Repository) ListForRecommendation(ctx context.Context, limit int) ([]Venue, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if limit <= 0 || limit > 500 {
		limit = 200
	}
	q := `SELECT ` + venueColumns + ` FROM venues ORDER BY created_at DESC LIMIT $1`
	return r.list(ctx, q, limit)
}

// CreateFromSubmission promotes an approved submission into the public
// catalog, reusing its slug so links shared pre-approval keep working.
func (r *Repository) CreateFromSubmission(ctx context.Context, sub *submissions.Submission) (*Venue, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `
		INSERT INTO venues (
			source_submission_id, name, slug, neighbourhood, address, description,
			typical_wait, cover_frequency, cover_amount, vibe, age_group,
			music_genres, live_music_days, karaoke_days,
			has_patio, has_rooftop, has_dance_floor, has_pool_table, capacity_size,
			image_urls
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14,
			$15, $16, $17, $18, $19,
			$20
		)
		ON CONFLICT (source_submission_id) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	v := &Venue{
		SourceSubmissionID: &sub.ID,
		Name:               sub.Name,
		Slug:               sub.Slug,
		Neighbourhood:      sub.Neighbourhood,
		Address:            sub.Address,
		Description:        sub.Description,
		TypicalWait:        sub.TypicalWait,
		CoverFrequency:     sub.CoverFrequency,
		CoverAmount:        sub.CoverAmount,
		Vibe:               sub.Vibe,
		AgeGroup:           sub.AgeGroup,
		MusicGenres:        sub.MusicGenres,
		LiveMusicDays:      sub.LiveMusicDays,
		KaraokeDays:        sub.KaraokeDays,
		HasPatio:           sub.HasPatio,
		HasRooftop:         sub.HasRooftop,
		HasDanceFloor:      sub.HasDanceFloor,
		HasPoolTable:       sub.HasPoolTable,
		CapacitySize:       sub.CapacitySize,
		ImageURLs:          []string{},
	}

	err := r.db.QueryRow(ctx, q,
		sub.ID, sub.Name, sub.Slug, sub.Neighbourhood, sub.Address, sub.Description,
		sub.TypicalWait, sub.CoverFrequency, sub.CoverAmount, sub.Vibe, sub.AgeGroup,
		sub.MusicGenres, sub.LiveMusicDays, sub.KaraokeDays,
		sub.HasPatio, sub.HasRooftop, sub.HasDanceFloor, sub.HasPoolTable, sub.CapacitySize,
		[]string{},
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Conflict path: this submission was already promoted.
			return r.getBySourceSubmission(ctx, sub.ID)
		}
		return nil, fmt.Errorf("create venue from submission: %w", err)
	}
	return v, nil
}

func (r *Repository) getBySourceSubmission(ctx context.Context, submissionID int64) (*Venue, error) {
	q := `SELECT ` + venueColumns + ` FROM venues WHERE source_submission_id = $1`
	return scanVenue(r.db.QueryRow(ctx, q, submissionID))
}

func (r *Repository) AddPhotoURL(ctx context.Context, venueID int64, photoURL string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `
		UPDATE venues
		SET image_urls = array_append(image_urls, $1), updated_at = NOW()
		WHERE id = $2
	`
	ct, err := r.db.Exec(ctx, q, photoURL, venueID)
	if err != nil {
		return fmt.Errorf("add photo url: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) RemovePhotoURL(ctx context.Context, venueID int64, photoURL string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `
		UPDATE venues
		SET image_urls = array_remove(image_urls, $1), updated_at = NOW()
		WHERE id = $2
	`
	ct, err := r.db.Exec(ctx, q, photoURL, venueID)
	if err != nil {
		return fmt.Errorf("remove photo url: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) list(ctx context.Context, q string, args ...any) ([]Venue, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()

	var out []Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows venues: %w", err)
	}
	return out, nil
}
