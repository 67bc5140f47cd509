package api

import (
	"context"
	"net/url"

	"github.com/TriAzz/showcase/internal/model"
)

// ListComments fetches every comment attached to a project, approved or not.
// Visibility filtering for non-privileged viewers happens client-side.
func (c *Client) ListComments(ctx context.Context, projectID string) ([]model.Comment, error) {
	var comments []model.Comment
	path := "/comments/project/" + url.PathEscape(projectID)
	if err := c.do(ctx, "GET", path, nil, &comments, WithNotFound("project", projectID)); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	return comments, nil
}

// CreateComment posts a new comment on a project.
func (c *Client) CreateComment(ctx context.Context, draft model.CommentDraft) (*model.Comment, error) {
	var comment model.Comment
	if err := c.do(ctx, "POST", "/comments", draft, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ApproveComment marks a comment as approved for public display.
func (c *Client) ApproveComment(ctx context.Context, id string) (*model.Comment, error) {
	var comment model.Comment
	path := "/comments/" + url.PathEscape(id) + "/approve"
	if err := c.do(ctx, "PUT", path, nil, &comment, WithNotFound("comment", id)); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/comments/"+url.PathEscape(id), nil, nil, WithNotFound("comment", id))
}
