package model

import "time"

type TaskType string

const (
	TaskTypeGeneral         TaskType = "general"
	TaskTypeExternalProblem TaskType = "external-problem"
	TaskTypeFormLink        TaskType = "form-link"
)

func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeGeneral, TaskTypeExternalProblem, TaskTypeFormLink:
		return true
	}
	return false
}

type Task struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        TaskType  `json:"type"`
	ResourceURL *string   `json:"resource_url,omitempty"` // practice-problem or form link
	CreatedByID string    `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
