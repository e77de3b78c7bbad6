package domain

import "time"

// AccessToken represents a persisted bearer session credential. A user holds
// at most one active token; minting a new one expires all prior tokens.
type AccessToken struct {
	ID        string
	UserID    string
	Token     string
	Expiry    time.Time
	IsExpired bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active reports whether the token is still valid at the given instant. The
// only transition out of the active state is to expired; there is no
// resurrection.
func (t AccessToken) Active(now time.Time) bool {
	return !t.IsExpired && t.Expiry.After(now)
}
