package types

import "github.com/google/uuid"

// Tag is a globally unique, shared label. Tags are created implicitly the
// first time a post uses the name and are never mutated or deleted.
type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name" example:"#happy"`
}
