package model

import "time"

// Purpose scopes an auth-action token to a single semantic action.
// A token created for one purpose never validates for another.
type Purpose string

const (
	PurposeEmailConfirmation Purpose = "email_confirmation"
	PurposePasswordReset     Purpose = "password_reset"
	PurposeEmailChange       Purpose = "email_change"
	PurposeAccountDeletion   Purpose = "account_deletion"
	PurposeSensitiveChange   Purpose = "sensitive_change"
)

// Known reports whether p is one of the defined purposes.
func (p Purpose) Known() bool {
	switch p {
	case PurposeEmailConfirmation, PurposePasswordReset, PurposeEmailChange,
		PurposeAccountDeletion, PurposeSensitiveChange:
		return true
	}
	return false
}

// AuthAction is the transient payload carried inside an encoded
// auth-action token. It is never persisted. NewEmail is set if and only
// if Purpose is PurposeEmailChange. ExpiresAt is always UTC.
type AuthAction struct {
	UserID    int64
	Purpose   Purpose
	ExpiresAt time.Time
	NewEmail  string
}

// TokenCodec encodes auth-action payloads into opaque URL-safe strings
// and validates them back.
type TokenCodec interface {
	CreateToken(purpose Purpose, userID int64, expiresAt time.Time, newEmail string) (string, error)
	TryValidateToken(token string, expected Purpose) (AuthAction, bool)
}

// LinkBuilder produces absolute confirmation URLs for encoded tokens.
type LinkBuilder interface {
	ConfirmEmailLink(token string) (string, error)
	ResetPasswordLink(token string) (string, error)
	ChangeEmailLink(token string) (string, error)
	DeleteAccountLink(token string) (string, error)
	SensitiveChangeLink(token string) (string, error)
}
