package port

import (
	"context"

	"github.com/Gaurav200247/suvichar-auth/internal/core/domain"
)

// EventPublisher emits authentication lifecycle events. Publishing is
// best-effort; failures must not abort the originating operation.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishUserVerified(ctx context.Context, event domain.UserVerifiedEvent) error
	PublishSessionRevoked(ctx context.Context, event domain.SessionRevokedEvent) error
}
