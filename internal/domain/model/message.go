package model

import "time"

// Message is one chat message in a group. Clients poll the collection;
// there is no push transport here.
type Message struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	UserID    string    `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`

	UserUsername *string `json:"user_username,omitempty"` // For display
}
