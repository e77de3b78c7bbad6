package domain

import "time"

// Passcode represents a single issued one-time passcode bound to a user.
// At most one passcode per user is active at any instant; issuing a new one
// marks all prior passcodes for the user as expired.
type Passcode struct {
	ID        string
	UserID    string
	Code      string
	Expiry    time.Time
	IsExpired bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active reports whether the passcode can still be redeemed at the given
// instant. Staleness past the expiry timestamp is checked lazily here rather
// than swept eagerly in the store.
func (p Passcode) Active(now time.Time) bool {
	return !p.IsExpired && p.Expiry.After(now)
}
