package badges

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	// Insert awards a badge. A type already held by the user is a no-op, so
	// replays at a threshold never produce a second copy.
	Insert(ctx context.Context, userID int64, def Definition) error
	ListByUser(ctx context.Context, userID int64) ([]Badge, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

var queryTimeout = time.Second * 5

func (r *Repository) Insert(ctx context.Context, userID int64, def Definition) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q := `
		INSERT INTO user_badges (user_id, badge_type, name, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, badge_type) DO NOTHING
	`
	_, err := r.db.Exec(ctx, q, userID, def.Type, def.Name, def.Description)
	if err != nil {
		return fmt.Errorf("insert badge: %w", err)
	}
	return nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]Badge, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q := `
		SELECT id, user_id, badge_type, name, description, awarded_at
		FROM user_badges
		WHERE user_id = $1
		ORDER BY awarded_at ASC
	`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	var out []Badge
	for rows.Next() {
		var b Badge
		if err := rows.Scan(&b.ID, &b.UserID, &b.Type, &b.Name, &b.Description, &b.AwardedAt); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
