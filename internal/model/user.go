package model

import (
	"context"
	"strings"
	"time"
)

// UserStore defines persistence operations for users. Lookups by
// normalized fields exclude soft-deleted users.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	GetByNormalizedUsername(ctx context.Context, username string) (User, error)
	GetByNormalizedEmail(ctx context.Context, email string) (User, error)
	Update(ctx context.Context, user User) (User, error)
	SoftDelete(ctx context.Context, id int64) error
}

// User represents a registered account.
type User struct {
	ID                 int64
	Username           string
	NormalizedUsername string
	Email              string
	NormalizedEmail    string
	PasswordHash       string
	IsActive           bool
	IsDeleted          bool
	IsEmailConfirmed   bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Roles              []RoleAssignment
}

// RoleAssignment links a user to a role. The (UserID, RoleID) pair is
// unique per user.
type RoleAssignment struct {
	UserID int64
	RoleID int64
}

// AttachRole adds a role assignment unless the role is already attached.
func (u *User) AttachRole(roleID int64) {
	for _, ra := range u.Roles {
		if ra.RoleID == roleID {
			return
		}
	}
	u.Roles = append(u.Roles, RoleAssignment{UserID: u.ID, RoleID: roleID})
}

// NormalizeIdentity converts a username or email into the form used for
// uniqueness comparisons: trimmed and uppercased.
func NormalizeIdentity(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
