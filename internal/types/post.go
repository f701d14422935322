package types

import (
	"time"

	"github.com/google/uuid"
)

// Author is the projection of a user attached to a hydrated post.
// It carries the active flag because listing visibility depends on it,
// but never the password hash. Once an Author is attached the raw
// author_id column does not appear in the read-model.
type Author struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	Location string    `json:"location"`
	Active   bool      `json:"active"`
}

// Post is the hydrated post read-model: the post row plus its author
// projection and full tag list.
type Post struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Active    bool      `json:"active"`
	Author    Author    `json:"author"`
	Tags      []Tag     `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreatePostParams carries the caller-supplied fields for a new post.
type CreatePostParams struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"` // Tag names, e.g. "#happy".
}

// UpdatePostParams is used for partial post updates. Nil scalar fields are
// left untouched. A non-nil Tags slice replaces the post's entire tag set
// (full-replace semantics); a nil Tags leaves associations alone.
type UpdatePostParams struct {
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Active  *bool     `json:"active,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}
