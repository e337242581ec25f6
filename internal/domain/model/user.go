package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Not exposed
	DisplayName    string    `json:"display_name"`
	ProfileURL     *string   `json:"profile_url,omitempty"`
	PracticeHandle *string   `json:"practice_handle,omitempty"` // handle on the external practice site
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
