package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Gaurav200247/suvichar-auth/internal/core/domain"
	"github.com/Gaurav200247/suvichar-auth/internal/core/port"
	"github.com/Gaurav200247/suvichar-auth/internal/infra/security"
	"github.com/Gaurav200247/suvichar-auth/internal/repository"
)

var (
	// ErrUnauthenticated indicates a missing, malformed, or unknown token.
	ErrUnauthenticated = errors.New("authentication token is missing or invalid")
	// ErrSessionExpired indicates the token lapsed before validation.
	ErrSessionExpired = errors.New("session expired")
	// ErrNotVerified indicates the account has not completed OTP verification.
	ErrNotVerified = errors.New("account is not verified")
)

// SessionService mints bearer tokens and validates them at the boundary of
// every authenticated operation.
type SessionService struct {
	users            port.UserRepository
	tokens           port.TokenRepository
	signer           *security.TokenSigner
	renewalThreshold time.Duration
	events           port.EventPublisher
	log              *zap.Logger
	now              func() time.Time
}

// NewSessionService constructs a SessionService instance.
func NewSessionService(
	users port.UserRepository,
	tokens port.TokenRepository,
	signer *security.TokenSigner,
	renewalThreshold time.Duration,
	events port.EventPublisher,
	log *zap.Logger,
) *SessionService {
	if renewalThreshold <= 0 {
		renewalThreshold = time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionService{
		users:            users,
		tokens:           tokens,
		signer:           signer,
		renewalThreshold: renewalThreshold,
		events:           events,
		log:              log,
		now:              time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (s *SessionService) WithClock(clock func() time.Time) *SessionService {
	if clock != nil {
		s.now = clock
	}
	return s
}

// IssueAccessToken mints a signed bearer token for the user and persists it,
// expiring every prior token for the user in the same transaction.
func (s *SessionService) IssueAccessToken(ctx context.Context, user domain.User) (string, time.Time, error) {
	now := s.now().UTC()

	signed, err := s.signer.Sign(user, now)
	if err != nil {
		return "", time.Time{}, err
	}

	expiry := now.Add(s.signer.Lifetime())
	record := domain.AccessToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     signed,
		Expiry:    expiry,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.tokens.Rotate(ctx, record); err != nil {
		return "", time.Time{}, fmt.Errorf("store access token: %w", err)
	}

	return signed, expiry, nil
}

// Authenticate validates a bearer token and resolves its owning user.
// Validity is judged by the persisted record alone; the token's signature is
// not re-verified here. Active sessions nearing expiry are extended in place
// so that an actively used login never lapses while idle ones do.
func (s *SessionService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}

	record, err := s.tokens.GetActiveByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("lookup access token: %w", err)
	}

	now := s.now().UTC()
	if record.IsExpired || !record.Expiry.After(now) {
		if err := s.tokens.MarkExpired(ctx, record.ID, now); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("mark token expired: %w", err)
		}
		return nil, ErrSessionExpired
	}

	if record.Expiry.Sub(now) < s.renewalThreshold {
		if err := s.tokens.ExtendExpiry(ctx, record.ID, now.Add(s.renewalThreshold)); err != nil {
			return nil, fmt.Errorf("extend token expiry: %w", err)
		}
	}

	user, err := s.users.GetByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user.IsDeleted {
		return nil, ErrAccountDisabled
	}
	if !user.IsVerified {
		return nil, ErrNotVerified
	}

	return user, nil
}

// Logout invalidates the presented token immediately. Calling it twice for
// the same record is harmless.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrUnauthenticated
	}

	record, err := s.tokens.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnauthenticated
		}
		return fmt.Errorf("lookup access token: %w", err)
	}

	now := s.now().UTC()
	if err := s.tokens.MarkExpired(ctx, record.ID, now); err != nil {
		return fmt.Errorf("mark token expired: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishSessionRevoked(ctx, domain.SessionRevokedEvent{
			UserID:    record.UserID,
			TokenID:   record.ID,
			RevokedAt: now,
			Reason:    "logout",
		}); err != nil {
			s.log.Warn("publish session revoked event",
				zap.String("user_id", record.UserID), zap.Error(err))
		}
	}

	return nil
}
