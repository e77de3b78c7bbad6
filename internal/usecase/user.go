package usecase

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/Gaurav200247/suvichar-auth/internal/core/domain"
	"github.com/Gaurav200247/suvichar-auth/internal/core/port"
)

// ProfileImage describes an uploaded image stream.
type ProfileImage struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ProfileUpdateInput carries optional profile mutations.
type ProfileUpdateInput struct {
	Name        *string
	AccountType *domain.AccountType
	Image       *ProfileImage
}

// UserService manages profile reads and updates for authenticated users.
type UserService struct {
	users   port.UserRepository
	storage port.FileStorage
	log     *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(users port.UserRepository, storage port.FileStorage, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{users: users, storage: storage, log: log}
}

// UpdateProfile applies the requested changes and returns the updated user.
// The image, when present, is stored first so the persisted row always points
// at an object that exists.
func (s *UserService) UpdateProfile(ctx context.Context, user domain.User, input ProfileUpdateInput) (*domain.User, error) {
	update := port.UserUpdate{
		Name:        input.Name,
		AccountType: input.AccountType,
	}

	if input.Image != nil {
		if s.storage == nil {
			return nil, fmt.Errorf("file storage is not configured")
		}

		key := profileImageKey(user.ID, input.Image.Filename)
		url, err := s.storage.Upload(ctx, key, input.Image.ContentType, input.Image.Body)
		if err != nil {
			return nil, fmt.Errorf("upload profile image: %w", err)
		}
		update.ProfileImageURL = &url
	}

	if update.Name == nil && update.AccountType == nil && update.ProfileImageURL == nil {
		return &user, nil
	}

	if err := s.users.UpdateProfile(ctx, user.ID, update); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	updated, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}

	return updated, nil
}

func profileImageKey(userID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return "profile-images/" + userID + ext
}
