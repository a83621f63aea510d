package notifications

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("notification not found")

type Kind string

const (
	KindSubmissionApproved Kind = "submission_approved"
	KindSubmissionRejected Kind = "submission_rejected"
)

type Notification struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	SubmissionID int64     `json:"submission_id"`
	Kind         Kind      `json:"kind"`
	Message      string    `json:"message"`
	Read         bool      `json:"read"`
	CreatedAt    time.Time `json:"created_at"`
}
