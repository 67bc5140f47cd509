package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/TriAzz/showcase/internal/errors"
)

// Project lifecycle statuses.
const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusOnHold     = "On Hold"
)

// Statuses returns the closed set of lifecycle statuses.
func Statuses() []string {
	return []string{StatusNotStarted, StatusInProgress, StatusCompleted, StatusOnHold}
}

// Categories returns the closed set of project categories.
func Categories() []string {
	return []string{
		"Web Development",
		"Mobile Development",
		"Data Science",
		"Machine Learning",
		"UI/UX Design",
		"DevOps",
		"Research",
		"Other",
	}
}

// ToolOptions returns the selectable development tools.
func ToolOptions() []string {
	return []string{
		"Bolt",
		"v0 (Vercel)",
		"Cursor",
		"Replit",
		"Lovable",
		"Windsurf",
		"Tempo Labs",
		"Fynix",
		"GitHub CoPilot",
		"Augment",
	}
}

// Project is a showcase entry. Creator is the owning user; TeamMembers are
// optional collaborators added after creation.
type Project struct {
	ObjectID     string     `json:"_id,omitempty"`
	ID           string     `json:"id,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Category     string     `json:"category"`
	Technologies []string   `json:"technologies"`
	Tags         []string   `json:"tags"`
	GitHubLink   string     `json:"githubLink,omitempty"`
	LiveSiteURL  string     `json:"liveSiteUrl,omitempty"`
	Creator      *User      `json:"creator,omitempty"`
	TeamMembers  []User     `json:"teamMembers,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	CreatedAt    time.Time  `json:"createdAt,omitempty"`
	UpdatedAt    time.Time  `json:"updatedAt,omitempty"`
}

// Key returns the best available identifier for the project.
func (p *Project) Key() string {
	if p == nil {
		return ""
	}
	if p.ObjectID != "" {
		return p.ObjectID
	}
	return p.ID
}

// ProjectDraft carries the fields for project creation and update.
type ProjectDraft struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Category     string     `json:"category"`
	Technologies []string   `json:"technologies"`
	Tags         []string   `json:"tags"`
	GitHubLink   string     `json:"githubLink,omitempty"`
	LiveSiteURL  string     `json:"liveSiteUrl,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

// Normalize forces list-typed fields to non-nil slices so the wire payload
// always carries arrays, never null.
func (d *ProjectDraft) Normalize() {
	if d.Technologies == nil {
		d.Technologies = []string{}
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
}

// Validate checks the draft locally before any network call. Title,
// description, category, and at least one tool are mandatory; status and
// category must come from the closed enumerations.
func (d *ProjectDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return errors.NewValidationError("title is required").WithField("title")
	}
	if strings.TrimSpace(d.Description) == "" {
		return errors.NewValidationError("description is required").WithField("description")
	}
	if d.Category == "" {
		return errors.NewValidationError("please select a category").WithField("category")
	}
	if !contains(Categories(), d.Category) {
		return errors.NewValidationError(
			fmt.Sprintf("category must be one of: %s", strings.Join(Categories(), ", ")),
		).WithField("category").WithValue(d.Category)
	}
	if d.Status != "" && !contains(Statuses(), d.Status) {
		return errors.NewValidationError(
			fmt.Sprintf("status must be one of: %s", strings.Join(Statuses(), ", ")),
		).WithField("status").WithValue(d.Status)
	}
	if len(d.Technologies) == 0 {
		return errors.NewValidationError("please select at least one tool").WithField("technologies")
	}
	return nil
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
