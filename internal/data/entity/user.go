package entity

import "time"

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	Base
	Username  string   `db:"username"`
	Email     string   `db:"email"`
	FirstName string   `db:"first_name"`
	LastName  string   `db:"last_name"`
	Bio       string   `db:"bio"`
	Role      UserRole `db:"role"`

	// Only the bcrypt hash of the confirmation code is kept.
	ConfirmationCodeHash      *string    `db:"confirmation_code_hash"`
	ConfirmationCodeExpiresAt *time.Time `db:"confirmation_code_expires_at"`
}

// HasValidCode reports whether an unexpired code is pending for the user.
func (u *User) HasValidCode(now time.Time) bool {
	return u.ConfirmationCodeHash != nil &&
		u.ConfirmationCodeExpiresAt != nil &&
		now.Before(*u.ConfirmationCodeExpiresAt)
}
