package types

import (
	"time"

	"github.com/google/uuid"
)

// User represents the core user entity in the domain.
// The password hash is never serialized across the API boundary.
type User struct {
	ID        uuid.UUID `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"` // Unique identifier (UUID).
	Username  string    `json:"username" example:"albert"`                        // Unique username, immutable key once set.
	Password  string    `json:"-"`                                                // Hashed password (never exposed).
	Name      string    `json:"name" example:"Al Bert"`
	Location  string    `json:"location" example:"Sidney, Australia"`
	Active    bool      `json:"active" example:"true"` // Soft-delete flag; users are never hard-deleted.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserProfile is the hydrated read-model for a single user: the safe user
// fields plus every post they authored.
type UserProfile struct {
	User
	Posts []Post `json:"posts"`
}

// CreateUserParams carries the fields needed to insert a new user row.
// Password must already be hashed by the caller.
type CreateUserParams struct {
	Username string
	Password string
	Name     string
	Location string
}

// UpdateUserParams is used for partial user updates. Nil fields are left
// untouched; an all-nil update is a valid no-op.
type UpdateUserParams struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Name     *string `json:"name,omitempty"`
	Location *string `json:"location,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}
