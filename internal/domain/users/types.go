package users

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("a user with that email already exists")
	ErrDuplicatePhone    = errors.New("a user with that phone number already exists")
	QueryTimeoutDuration = time.Second * 5
)

type ReviewerStatus string

const (
	ReviewerNone     ReviewerStatus = "none"
	ReviewerPending  ReviewerStatus = "pending"
	ReviewerApproved ReviewerStatus = "approved"
)

type User struct {
	ID               int64          `json:"id"`
	DisplayName      string         `json:"display_name"`
	Email            *string        `json:"email,omitempty"`
	Phone            *string        `json:"phone,omitempty"`
	ReviewerStatus   ReviewerStatus `json:"reviewer_status"`
	ReviewsCompleted int            `json:"reviews_completed"`
	Points           int            `json:"points"`
	RefreshToken     string         `json:"-"` // Sensitive data
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}
