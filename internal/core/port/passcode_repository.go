package port

import (
	"context"
	"time"

	"github.com/Gaurav200247/suvichar-auth/internal/core/domain"
)

// PasscodeRepository manages one-time passcode records.
type PasscodeRepository interface {
	// Replace expires every active passcode owned by the user and inserts the
	// new one inside a single transaction, so at most one passcode is active
	// per user after the call.
	Replace(ctx context.Context, passcode domain.Passcode) error

	// GetActive returns the passcode matching the user id and exact code that
	// is not consumed and whose expiry is strictly after the given instant.
	GetActive(ctx context.Context, userID, code string, now time.Time) (*domain.Passcode, error)

	// Consume flags the passcode as used so it can never be redeemed again.
	Consume(ctx context.Context, id string) error
}
