package submissions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	Create(ctx context.Context, sub *Submission) error
	GetByID(ctx context.Context, submissionID int64) (*Submission, error)
	ListByOwner(ctx context.Context, userID int64, filter ListFilter) ([]Submission, error)
	ListPending(ctx context.Context, filter ListFilter) ([]Submission, error)
	FindSimilar(ctx context.Context, name, neighbourhood string) ([]Submission, error)

	// UpdateStatusIfPending transitions the submission only when its current
	// status is still pending and reports whether the update applied. The
	// conditional predicate is what keeps concurrent aggregation runs from
	// both transitioning the same submission.
	UpdateStatusIfPending(ctx context.Context, submissionID int64, status Status, reviewedAt time.Time) (bool, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

const submissionColumns = `
	id, user_id, name, slug, neighbourhood, address, description,
	typical_wait, cover_frequency, cover_amount, vibe, age_group,
	music_genres, live_music_days, karaoke_days,
	has_patio, has_rooftop, has_dance_floor, has_pool_table, capacity_size,
	status, created_at, updated_at, reviewed_at
`

func scanSubmission(row pgx.Row) (*Submission, error) {
	var s Submission
	err := row.Scan(
		&s.ID, &s.UserID, &s.Name, &s.Slug, &s.Neighbourhood, &s.Address, &s.Description,
		&s.TypicalWait, &s.CoverFrequency, &s.CoverAmount, &s.Vibe, &s.AgeGroup,
		&s.MusicGenres, &s.LiveMusicDays, &s.KaraokeDays,
		&s.HasPatio, &s.HasRooftop, &s.HasDanceFloor, &s.HasPoolTable, &s.CapacitySize,
		&s.Status, &s.CreatedAt, &s.UpdatedAt, &s.ReviewedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan submission: %w", err)
	}
	return &s, nil
}

func (r *Repository) Create(ctx context.Context, sub *Submission) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if sub.Slug == "" {
		sub.Slug = GenerateSlug(sub.Name)
	}

	q := `
		INSERT INTO submissions (
			user_id, name, slug, neighbourhood, address, description,
			typical_wait, cover_frequency, cover_amount, vibe, age_group,
			music_genres, live_music_days, karaoke_days,
			has_patio, has_rooftop, has_dance_floor, has_pool_table, capacity_size
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14,
			$15, $16, $17, $18, $19
		)
		RETURNING id, status, created_at, updated_at
	`

	insert := func(slug string) error {
		return r.db.QueryRow(ctx, q,
			sub.UserID, sub.Name, slug, sub.Neighbourhood, sub.Address, sub.Description,
			sub.TypicalWait, sub.CoverFrequency, sub.CoverAmount, sub.Vibe, sub.AgeGroup,
			sub.MusicGenres, sub.LiveMusicDays, sub.KaraokeDays,
			sub.HasPatio, sub.HasRooftop, sub.HasDanceFloor, sub.HasPoolTable, sub.CapacitySize,
		).Scan(&sub.ID, &sub.Status, &sub.CreatedAt, &sub.UpdatedAt)
	}

	err := insert(sub.Slug)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "submissions_slug_key" {
			// Slug taken by an earlier submission with the same name; retry
			// once with a random suffix.
			sub.Slug = fmt.Sprintf("%s-%s", sub.Slug, uuid.NewString()[:8])
			err = insert(sub.Slug)
		}
	}
	if err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, submissionID int64) (*Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`
	return scanSubmission(r.db.QueryRow(ctx, q, submissionID))
}

func (r *Repository) list(ctx context.Context, q string, args ...any) ([]Submission, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows submissions: %w", err)
	}
	return out, nil
}

func normalizeFilter(f ListFilter) ListFilter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 60 {
		f.Limit = 20
	}
	return f
}

func (r *Repository) ListByOwner(ctx context.Context, userID int64, filter ListFilter) ([]Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	filter = normalizeFilter(filter)
	q := `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, q, userID, filter.Limit, (filter.Page-1)*filter.Limit)
}

func (r *Repository) ListPending(ctx context.Context, filter ListFilter) ([]Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	filter = normalizeFilter(filter)
	q := `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`
	return r.list(ctx, q, filter.Limit, (filter.Page-1)*filter.Limit)
}

// FindSimilar is the duplicate heuristic for new submissions: an exact name
// match anywhere in the city, or a name-containment match (either direction)
// within the same neighbourhood.
func (r *Repository) FindSimilar(ctx context.Context, name, neighbourhood string) ([]Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE status <> 'rejected'
		  AND (
		    LOWER(name) = LOWER($1)
		    OR (
		      LOWER(neighbourhood) = LOWER($2)
		      AND (name ILIKE '%' || $1 || '%' OR $1 ILIKE '%' || name || '%')
		    )
		  )
		ORDER BY created_at DESC
		LIMIT 10
	`
	return r.list(ctx, q, name, neighbourhood)
}

func (r *Repository) UpdateStatusIfPending(ctx context.Context, submissionID int64, status Status, reviewedAt time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `
		UPDATE submissions
		SET status = $1,
		    reviewed_at = $2,
		    updated_at = NOW()
		WHERE id = $3 AND status = 'pending'
	`
	ct, err := r.db.Exec(ctx, q, status, reviewedAt, submissionID)
	if err != nil {
		return false, fmt.Errorf("update submission status: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}
