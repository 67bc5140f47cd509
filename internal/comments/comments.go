// Package comments handles the comment workflow on projects: listing with
// moderation-aware visibility, posting, and the privileged approve/remove
// operations. The server is authoritative; no comment state is cached.
package comments

import (
	"context"

	"github.com/TriAzz/showcase/internal/api"
	"github.com/TriAzz/showcase/internal/logging"
	"github.com/TriAzz/showcase/internal/model"
)

// Viewer exposes the identity deciding comment visibility.
type Viewer interface {
	CurrentUser() *model.User
}

// Store runs comment operations against the backend.
type Store struct {
	api    *api.Client
	viewer Viewer
	log    *logging.Logger
}

// New builds a comment Store for the given viewer.
func New(client *api.Client, viewer Viewer, log *logging.Logger) *Store {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Store{api: client, viewer: viewer, log: log.WithComponent("comments")}
}

// ListByProject returns the comments visible to the current viewer. Admins
// see everything; everyone else sees approved comments plus their own
// pending ones.
func (s *Store) ListByProject(ctx context.Context, projectID string) ([]model.Comment, error) {
	all, err := s.api.ListComments(ctx, projectID)
	if err != nil {
		return nil, err
	}

	current := s.viewer.CurrentUser()
	if current != nil && current.IsAdmin() {
		return all, nil
	}

	visible := make([]model.Comment, 0, len(all))
	for _, c := range all {
		if c.Approved || model.IsCreator(c.Author, current) {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// Add posts a comment on a project. Empty content never reaches the server.
func (s *Store) Add(ctx context.Context, projectID, content string) (*model.Comment, error) {
	draft := model.CommentDraft{ProjectID: projectID, Content: content}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	comment, err := s.api.CreateComment(ctx, draft)
	if err != nil {
		return nil, err
	}
	s.log.Debug("comment posted", "project", projectID)
	return comment, nil
}

// Approve marks a comment as publicly visible. The server enforces who may
// moderate.
func (s *Store) Approve(ctx context.Context, id string) (*model.Comment, error) {
	return s.api.ApproveComment(ctx, id)
}

// Remove deletes a comment. The server enforces who may remove it.
func (s *Store) Remove(ctx context.Context, id string) error {
	return s.api.DeleteComment(ctx, id)
}
