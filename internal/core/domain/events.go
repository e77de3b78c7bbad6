package domain

import "time"

// UserRegisteredEvent is published when a first OTP request creates a user.
type UserRegisteredEvent struct {
	UserID       string
	PhoneNumber  string
	AccountType  AccountType
	RegisteredAt time.Time
}

// UserVerifiedEvent is published the first time a user completes OTP
// verification.
type UserVerifiedEvent struct {
	UserID      string
	PhoneNumber string
	VerifiedAt  time.Time
}

// SessionRevokedEvent is published when an access token is invalidated,
// either by explicit logout or by supersession on a new login.
type SessionRevokedEvent struct {
	UserID    string
	TokenID   string
	RevokedAt time.Time
	Reason    string
}
