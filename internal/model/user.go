// Package model defines the wire-level data model for the showcase platform:
// users, projects, and comments as the REST API serves them, plus the local
// validation rules and the ownership view-model derived from them.
package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/TriAzz/showcase/internal/errors"
)

// Roles recognized by the platform. Comparison is case-sensitive.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// MinPasswordLength is the minimum accepted password length at registration.
const MinPasswordLength = 6

// emailRegex matches a standard address shape. The server performs its own
// validation; this only guards the obvious typos before a network call.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User is an account on the platform. The backend has served two identifier
// shapes over time, so both are retained: ObjectID (`_id`) and ID (`id`) are
// equally valid keys for the same account.
type User struct {
	ObjectID    string    `json:"_id,omitempty"`
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name,omitempty"`
	FirstName   string    `json:"firstName,omitempty"`
	LastName    string    `json:"lastName,omitempty"`
	Email       string    `json:"email"`
	Role        string    `json:"role,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// DisplayName returns the user's name, assembling it from the first/last pair
// when the single name field is absent. Falls back to the email address.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full != "" {
		return full
	}
	return u.Email
}

// IsAdmin reports whether the user holds the Admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Key returns the best available identifier for the user: the primary key if
// present, otherwise the alternate key, otherwise the email address.
func (u *User) Key() string {
	if u == nil {
		return ""
	}
	if u.ObjectID != "" {
		return u.ObjectID
	}
	if u.ID != "" {
		return u.ID
	}
	return u.Email
}

// RegisterRequest carries the fields required to create an account.
type RegisterRequest struct {
	Name        string `json:"name,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Description string `json:"description,omitempty"`
}

// Validate checks the registration fields locally. A failure here means the
// request never reaches the network.
func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" && strings.TrimSpace(r.FirstName) == "" {
		return errors.NewValidationError("name is required").WithField("name")
	}
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	if len(r.Password) < MinPasswordLength {
		return errors.NewValidationError("password must be at least 6 characters").WithField("password")
	}
	return nil
}

// ValidateEmail checks that the address is present and well-formed.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return errors.NewValidationError("email is required").WithField("email")
	}
	if !emailRegex.MatchString(email) {
		return errors.NewValidationError("email address is not valid").WithField("email").WithValue(email)
	}
	return nil
}

// ProfileUpdate carries the mutable profile fields.
type ProfileUpdate struct {
	Name        string `json:"name,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Description string `json:"description,omitempty"`
}

// PasswordUpdate carries a password change request.
type PasswordUpdate struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Validate checks the password change fields locally.
func (p *PasswordUpdate) Validate() error {
	if p.CurrentPassword == "" {
		return errors.NewValidationError("current password is required").WithField("currentPassword")
	}
	if len(p.NewPassword) < MinPasswordLength {
		return errors.NewValidationError("new password must be at least 6 characters").WithField("newPassword")
	}
	return nil
}
