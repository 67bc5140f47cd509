package api

import (
	"context"
	"net/url"

	"github.com/TriAzz/showcase/internal/model"
)

// ListProjects fetches projects matching the given query parameters. Extra
// options let the caller force a cache-busted fetch or run its own 401
// handling.
func (c *Client) ListProjects(ctx context.Context, query url.Values, opts ...RequestOption) ([]model.Project, error) {
	var projects []model.Project
	reqOpts := append([]RequestOption{WithQuery(query)}, opts...)
	if err := c.do(ctx, "GET", "/projects", nil, &projects, reqOpts...); err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []model.Project{}
	}
	return projects, nil
}

// GetProject fetches a single project by ID.
func (c *Client) GetProject(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	if err := c.do(ctx, "GET", "/projects/"+url.PathEscape(id), nil, &project, WithNotFound("project", id)); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject creates a project and returns the server's record of it.
func (c *Client) CreateProject(ctx context.Context, draft model.ProjectDraft) (*model.Project, error) {
	var project model.Project
	if err := c.do(ctx, "POST", "/projects", draft, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject replaces the stored fields of a project.
func (c *Client) UpdateProject(ctx context.Context, id string, draft model.ProjectDraft) (*model.Project, error) {
	var project model.Project
	if err := c.do(ctx, "PUT", "/projects/"+url.PathEscape(id), draft, &project, WithNotFound("project", id)); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/projects/"+url.PathEscape(id), nil, nil, WithNotFound("project", id))
}

// AddTeamMember adds the user with the given email to the project's team
// and returns the updated record.
func (c *Client) AddTeamMember(ctx context.Context, id, email string) (*model.Project, error) {
	body := map[string]string{"email": email}
	var project model.Project
	if err := c.do(ctx, "PUT", "/projects/"+url.PathEscape(id)+"/team", body, &project, WithNotFound("project", id)); err != nil {
		return nil, err
	}
	return &project, nil
}
