package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	Insert(ctx context.Context, review *Review) error
	GetByReviewer(ctx context.Context, submissionID, reviewerID int64) (*Review, error)
	ListBySubmission(ctx context.Context, submissionID int64) ([]Review, error)
	ListByReviewer(ctx context.Context, reviewerID int64) ([]Review, error)
	CountByReviewer(ctx context.Context, reviewerID int64) (int, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, review *Review) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `
		INSERT INTO submission_reviews (
			submission_id, reviewer_id, decision,
			name_accurate, location_accurate, details_accurate, features_accurate,
			notes, confidence_level
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, q,
		review.SubmissionID,
		review.ReviewerID,
		review.Decision,
		review.NameAccurate,
		review.LocationAccurate,
		review.DetailsAccurate,
		review.FeaturesAccurate,
		review.Notes,
		review.ConfidenceLevel,
	).Scan(&review.ID, &review.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// unique (submission_id, reviewer_id): the loser of a
			// check-then-act race lands here.
			return ErrAlreadyReviewed
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *Repository) GetByReviewer(ctx context.Context, submissionID, reviewerID int64) (*Review, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := reviewSelect + ` WHERE submission_id = $1 AND reviewer_id = $2`
	return scanReview(r.db.QueryRow(ctx, q, submissionID, reviewerID))
}

func (r *Repository) ListBySubmission(ctx context.Context, submissionID int64) ([]Review, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := reviewSelect + ` WHERE submission_id = $1 ORDER BY created_at ASC`
	return r.list(ctx, q, submissionID)
}

func (r *Repository) ListByReviewer(ctx context.Context, reviewerID int64) ([]Review, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := reviewSelect + ` WHERE reviewer_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, q, reviewerID)
}

func (r *Repository) CountByReviewer(ctx context.Context, reviewerID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM submission_reviews WHERE reviewer_id = $1`, reviewerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return count, nil
}

const reviewSelect = `
	SELECT id, submission_id, reviewer_id, decision,
	       name_accurate, location_accurate, details_accurate, features_accurate,
	       notes, confidence_level, created_at
	FROM submission_reviews
`

func scanReview(row pgx.Row) (*Review, error) {
	var rv Review
	err := row.Scan(
		&rv.ID, &rv.SubmissionID, &rv.ReviewerID, &rv.Decision,
		&rv.NameAccurate, &rv.LocationAccurate, &rv.DetailsAccurate, &rv.FeaturesAccurate,
		&rv.Notes, &rv.ConfidenceLevel, &rv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}
	return &rv, nil
}

func (r *Repository) list(ctx context.Context, q string, args ...any) ([]Review, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows reviews: %w", err)
	}
	return out, nil
}
