package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	GetByID(ctx context.Context, userID int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
	Create(ctx context.Context, user *User) error
	GetReviewerStatus(ctx context.Context, userID int64) (ReviewerStatus, error)
	ApplyForReviewer(ctx context.Context, userID int64) error
	SetReviewerStatus(ctx context.Context, userID int64, status ReviewerStatus) error
	IncrementReviewerStats(ctx context.Context, userID int64, reviews, points int) (int, error)
	SaveRefreshToken(ctx context.Context, userID int64, refreshToken string) error
	GetRefreshToken(ctx context.Context, userID int64) (string, error)
	DeleteRefreshToken(ctx context.Context, userID int64) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

const userColumns = `
	id, display_name, email, phone, reviewer_status,
	reviews_completed, points, created_at, updated_at
`

func (r *Repository) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.DisplayName,
		&u.Email,
		&u.Phone,
		&u.ReviewerStatus,
		&u.ReviewsCompleted,
		&u.Points,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (r *Repository) GetByID(ctx context.Context, userID int64) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, q, userID))
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRow(ctx, q, email))
}

func (r *Repository) GetByPhone(ctx context.Context, phone string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	return r.scanUser(r.db.QueryRow(ctx, q, phone))
}

func (r *Repository) Create(ctx context.Context, user *User) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `
		INSERT INTO users (display_name, email, phone)
		VALUES ($1, $2, $3)
		RETURNING id, reviewer_status, reviews_completed, points, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, q, user.DisplayName, user.Email, user.Phone).Scan(
		&user.ID,
		&user.ReviewerStatus,
		&user.ReviewsCompleted,
		&user.Points,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "users_email_key":
				return ErrDuplicateEmail
			case "users_phone_key":
				return ErrDuplicatePhone
			}
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetReviewerStatus reads only the reviewer flag. A missing user maps to
// ErrNotFound so callers can fail closed.
func (r *Repository) GetReviewerStatus(ctx context.Context, userID int64) (ReviewerStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var status ReviewerStatus
	err := r.db.QueryRow(ctx, `SELECT reviewer_status FROM users WHERE id = $1`, userID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get reviewer status: %w", err)
	}
	return status, nil
}

func (r *Repository) ApplyForReviewer(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `
		UPDATE users
		SET reviewer_status = 'pending', updated_at = NOW()
		WHERE id = $1 AND reviewer_status = 'none'
	`
	ct, err := r.db.Exec(ctx, q, userID)
	if err != nil {
		return fmt.Errorf("apply for reviewer: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) SetReviewerStatus(ctx context.Context, userID int64, status ReviewerStatus) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `UPDATE users SET reviewer_status = $1, updated_at = NOW() WHERE id = $2`
	ct, err := r.db.Exec(ctx, q, status, userID)
	if err != nil {
		return fmt.Errorf("set reviewer status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementReviewerStats bumps the completed-review counter and loyalty
// points in a single statement so concurrent reviews never lose an update.
// Returns the counter value after the increment.
func (r *Repository) IncrementReviewerStats(ctx context.Context, userID int64, reviews, points int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `
		UPDATE users
		SET reviews_completed = reviews_completed + $1,
		    points = points + $2,
		    updated_at = NOW()
		WHERE id = $3
		RETURNING reviews_completed
	`
	var newCount int
	err := r.db.QueryRow(ctx, q, reviews, points, userID).Scan(&newCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("increment reviewer stats: %w", err)
	}
	return newCount, nil
}

func (r *Repository) SaveRefreshToken(ctx context.Context, userID int64, refreshToken string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx, `UPDATE users SET refresh_token = $1 WHERE id = $2`, refreshToken, userID)
	return err
}

func (r *Repository) GetRefreshToken(ctx context.Context, userID int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var token string
	err := r.db.QueryRow(ctx, `SELECT COALESCE(refresh_token, '') FROM users WHERE id = $1`, userID).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return token, nil
}

func (r *Repository) DeleteRefreshToken(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx, `UPDATE users SET refresh_token = NULL WHERE id = $1`, userID)
	return err
}
