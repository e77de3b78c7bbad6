package port

import (
	"context"
	"time"

	"github.com/Gaurav200247/suvichar-auth/internal/core/domain"
)

// TokenRepository manages persisted access token records.
type TokenRepository interface {
	// Rotate expires every active token owned by the user and inserts the new
	// one inside a single transaction, enforcing the single-session policy.
	Rotate(ctx context.Context, token domain.AccessToken) error

	// GetActiveByToken returns the record matching the literal token string
	// that is not flagged expired. Wall-clock expiry is judged by the caller.
	GetActiveByToken(ctx context.Context, token string) (*domain.AccessToken, error)

	// GetByToken returns the record matching the literal token string in any
	// expiry state.
	GetByToken(ctx context.Context, token string) (*domain.AccessToken, error)

	// MarkExpired flags the token expired and pins its expiry to the given
	// instant. Idempotent.
	MarkExpired(ctx context.Context, id string, at time.Time) error

	// ExtendExpiry moves the stored expiry forward for the sliding-window
	// renewal.
	ExtendExpiry(ctx context.Context, id string, expiry time.Time) error
}
