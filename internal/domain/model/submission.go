package model

import "time"

type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "pending"
	SubmissionCompleted SubmissionStatus = "completed"
	SubmissionFailed    SubmissionStatus = "failed"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionPending, SubmissionCompleted, SubmissionFailed:
		return true
	}
	return false
}

type Submission struct {
	ID     string           `json:"id"`
	TaskID string           `json:"task_id"`
	UserID string           `json:"user_id"`
	Status SubmissionStatus `json:"status"`
	// Score is optional; a nil score counts as the configured default weight
	// when leaderboards are computed.
	Score       *int      `json:"score,omitempty"`
	Comment     *string   `json:"comment,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	UserUsername *string `json:"user_username,omitempty"` // For display
	TaskTitle    *string `json:"task_title,omitempty"`    // For display
}
