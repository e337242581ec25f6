package model

import "time"

// VerificationReason discriminates verification outcomes so callers can show
// an actionable message instead of a generic failure banner.
type VerificationReason string

const (
	VerifyOK              VerificationReason = "ok"
	VerifyHandleMissing   VerificationReason = "handle_missing"
	VerifyMalformedLink   VerificationReason = "malformed_link"
	VerifyProblemNotFound VerificationReason = "problem_not_found"
	VerifyNotVerified     VerificationReason = "not_verified"
	VerifyRemoteError     VerificationReason = "remote_error"
	VerifyInProgress      VerificationReason = "in_progress"
)

// AcceptedRecord is one accepted submission on the practice site that
// matched the target problem inside the recent-history window.
type AcceptedRecord struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submitted_at"`
	Language    string    `json:"language"`
}

// VerificationResult is a value, not an error: every failure mode below the
// transport layer comes back as Verified=false with a reason.
type VerificationResult struct {
	Verified          bool               `json:"verified"`
	Reason            VerificationReason `json:"reason"`
	Message           string             `json:"message"`
	ProblemTitle      string             `json:"problem_title,omitempty"`
	ProblemDifficulty string             `json:"problem_difficulty,omitempty"`
	Matches           []AcceptedRecord   `json:"matches,omitempty"`
}

const (
	AttemptChecking = "checking"
	AttemptSuccess  = "success"
	AttemptError    = "error"
)

// VerificationAttempt is the persisted audit row for one verification click:
// checking -> success | error. Rows stuck in checking are failed by the
// background sweeper.
type VerificationAttempt struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	UserID      string    `json:"user_id"`
	ProblemSlug string    `json:"problem_slug"`
	Status      string    `json:"status"`
	Reason      *string   `json:"reason,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
