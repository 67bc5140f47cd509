package model

import (
	"strings"
	"time"

	"github.com/TriAzz/showcase/internal/errors"
)

// Comment is a remark on a project. New comments are held unapproved until a
// privileged user approves them; only approved comments are shown to
// ordinary viewers.
type Comment struct {
	ObjectID  string    `json:"_id,omitempty"`
	ID        string    `json:"id,omitempty"`
	ProjectID string    `json:"project"`
	Author    *User     `json:"user,omitempty"`
	Content   string    `json:"content"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Key returns the best available identifier for the comment.
func (c *Comment) Key() string {
	if c == nil {
		return ""
	}
	if c.ObjectID != "" {
		return c.ObjectID
	}
	return c.ID
}

// CommentDraft carries a new comment for a project.
type CommentDraft struct {
	ProjectID string `json:"project"`
	Content   string `json:"content"`
}

// Validate checks the draft locally before any network call.
func (d *CommentDraft) Validate() error {
	if d.ProjectID == "" {
		return errors.NewValidationError("project is required").WithField("project")
	}
	if strings.TrimSpace(d.Content) == "" {
		return errors.NewValidationError("comment content is required").WithField("content")
	}
	return nil
}
