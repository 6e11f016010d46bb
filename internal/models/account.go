package models

import "time"

// Account is the local record of a completed sign-up.
// RoleID is the server-side source of truth for authorization.
type Account struct {
	ID             int64     `json:"id"`
	ProviderUserID string    `json:"provider_user_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	PhoneNumber    string    `json:"phone_number"`
	RoleID         int       `json:"role_id"`
	MetadataSynced bool      `json:"metadata_synced"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
