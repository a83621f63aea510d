package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	Insert(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID int64) ([]Notification, error)
	MarkRead(ctx context.Context, notificationID, userID int64) error
	CountUnread(ctx context.Context, userID int64) (int, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

var queryTimeout = time.Second * 5

func (r *Repository) Insert(ctx context.Context, n *Notification) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q := `
		INSERT INTO notifications (user_id, submission_id, kind, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, q, n.UserID, n.SubmissionID, n.Kind, n.Message).
		Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q := `
		SELECT id, user_id, submission_id, kind, message, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 100
	`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.SubmissionID, &n.Kind, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repository) MarkRead(ctx context.Context, notificationID, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q := `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`
	ct, err := r.db.Exec(ctx, q, notificationID, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) CountUnread(ctx context.Context, userID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`, userID,
	).Scan(&count)
	return count, err
}
