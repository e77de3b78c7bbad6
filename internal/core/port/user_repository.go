package port

import (
	"context"

	"github.com/Gaurav200247/suvichar-auth/internal/core/domain"
)

// UserUpdate carries optional profile mutations; nil fields are left alone.
type UserUpdate struct {
	Name            *string
	AccountType     *domain.AccountType
	ProfileImageURL *string
}

// UserRepository exposes persistence behavior for users.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.User, error)
	MarkVerified(ctx context.Context, id string) error
	UpdateProfile(ctx context.Context, id string, update UserUpdate) error
}
