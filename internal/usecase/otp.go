package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Gaurav200247/suvichar-auth/internal/core/domain"
	"github.com/Gaurav200247/suvichar-auth/internal/core/port"
	"github.com/Gaurav200247/suvichar-auth/internal/infra/config"
	"github.com/Gaurav200247/suvichar-auth/internal/infra/logger"
	"github.com/Gaurav200247/suvichar-auth/internal/infra/security"
	"github.com/Gaurav200247/suvichar-auth/internal/repository"
)

var (
	// ErrAccountDisabled indicates the account was soft-deleted and blocks all
	// authentication operations.
	ErrAccountDisabled = errors.New("account has been deactivated")
	// ErrUserNotFound indicates no user exists for the supplied phone number.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidOrExpiredOTP covers a wrong code, an expired code, and a
	// missing code alike; the reason is deliberately not disclosed.
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired otp")
)

// OTPIssueResult reports the outcome of issuing a passcode.
type OTPIssueResult struct {
	IsNewUser bool
	ExpiresIn int
}

// VerifyResult carries the artifacts of a successful OTP verification.
type VerifyResult struct {
	Token                string
	Expiry               time.Time
	User                 domain.User
	RequiresProfileSetup bool
}

// OTPService issues, resends, and verifies one-time passcodes.
type OTPService struct {
	cfg       *config.AppConfig
	users     port.UserRepository
	passcodes port.PasscodeRepository
	sms       port.SMSSender
	sessions  *SessionService
	events    port.EventPublisher
	log       *zap.Logger
	now       func() time.Time
}

// NewOTPService constructs an OTPService instance.
func NewOTPService(
	cfg *config.AppConfig,
	users port.UserRepository,
	passcodes port.PasscodeRepository,
	sms port.SMSSender,
	sessions *SessionService,
	events port.EventPublisher,
	log *zap.Logger,
) *OTPService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OTPService{
		cfg:       cfg,
		users:     users,
		passcodes: passcodes,
		sms:       sms,
		sessions:  sessions,
		events:    events,
		log:       log,
		now:       time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (s *OTPService) WithClock(clock func() time.Time) *OTPService {
	if clock != nil {
		s.now = clock
	}
	return s
}

// SendOTP finds or creates the user for the phone number, supersedes any
// active passcode, persists a fresh one, and dispatches it over SMS without
// awaiting delivery.
func (s *OTPService) SendOTP(ctx context.Context, phoneNumber string) (*OTPIssueResult, error) {
	if phoneNumber == "" {
		return nil, fmt.Errorf("phone number is required")
	}

	user, err := s.users.GetByPhoneNumber(ctx, phoneNumber)
	isNewUser := false
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("lookup user: %w", err)
		}

		now := s.now().UTC()
		created := domain.User{
			ID:          uuid.NewString(),
			PhoneNumber: phoneNumber,
			Name:        "",
			AccountType: domain.AccountTypePersonal,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.users.Create(ctx, created); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		user = &created
		isNewUser = true

		if s.events != nil {
			if err := s.events.PublishUserRegistered(ctx, domain.UserRegisteredEvent{
				UserID:       created.ID,
				PhoneNumber:  created.PhoneNumber,
				AccountType:  created.AccountType,
				RegisteredAt: now,
			}); err != nil {
				s.log.Warn("publish user registered event",
					zap.String("user_id", created.ID), zap.Error(err))
			}
		}
	}

	if user.IsDeleted {
		return nil, ErrAccountDisabled
	}

	if err := s.issuePasscode(ctx, user); err != nil {
		return nil, err
	}

	return &OTPIssueResult{
		IsNewUser: isNewUser,
		ExpiresIn: int(s.otpTTL().Seconds()),
	}, nil
}

// ResendOTP re-issues a passcode for an existing user. Unlike SendOTP the
// user must already exist and the SMS send is awaited, so delivery failures
// surface to the caller.
func (s *OTPService) ResendOTP(ctx context.Context, phoneNumber string) (*OTPIssueResult, error) {
	if phoneNumber == "" {
		return nil, fmt.Errorf("phone number is required")
	}

	user, err := s.users.GetByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user.IsDeleted {
		return nil, ErrAccountDisabled
	}

	code, err := s.replacePasscode(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.sms.Send(ctx, user.PhoneNumber, code); err != nil {
		return nil, fmt.Errorf("send otp sms: %w", err)
	}

	return &OTPIssueResult{
		IsNewUser: false,
		ExpiresIn: int(s.otpTTL().Seconds()),
	}, nil
}

// VerifyOTP redeems a passcode. On success the passcode is consumed, the user
// is marked verified on first use, every prior session is invalidated, and a
// fresh access token is minted.
func (s *OTPService) VerifyOTP(ctx context.Context, phoneNumber, code string) (*VerifyResult, error) {
	if phoneNumber == "" || code == "" {
		return nil, fmt.Errorf("phone number and otp are required")
	}

	user, err := s.users.GetByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user.IsDeleted {
		return nil, ErrAccountDisabled
	}

	now := s.now().UTC()
	passcode, err := s.passcodes.GetActive(ctx, user.ID, code, now)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidOrExpiredOTP
		}
		return nil, fmt.Errorf("lookup passcode: %w", err)
	}

	if err := s.passcodes.Consume(ctx, passcode.ID); err != nil {
		return nil, fmt.Errorf("consume passcode: %w", err)
	}

	if !user.IsVerified {
		if err := s.users.MarkVerified(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("mark user verified: %w", err)
		}
		user.IsVerified = true

		if s.events != nil {
			if err := s.events.PublishUserVerified(ctx, domain.UserVerifiedEvent{
				UserID:      user.ID,
				PhoneNumber: user.PhoneNumber,
				VerifiedAt:  now,
			}); err != nil {
				s.log.Warn("publish user verified event",
					zap.String("user_id", user.ID), zap.Error(err))
			}
		}
	}

	token, expiry, err := s.sessions.IssueAccessToken(ctx, *user)
	if err != nil {
		return nil, err
	}

	return &VerifyResult{
		Token:                token,
		Expiry:               expiry,
		User:                 *user,
		RequiresProfileSetup: user.RequiresProfileSetup(),
	}, nil
}

// issuePasscode replaces the active passcode and dispatches it without
// awaiting delivery; send failures are logged, never fatal.
func (s *OTPService) issuePasscode(ctx context.Context, user *domain.User) error {
	code, err := s.replacePasscode(ctx, user)
	if err != nil {
		return err
	}

	s.sms.SendAsync(user.PhoneNumber, code)
	s.log.Info("otp issued",
		zap.String("user_id", user.ID),
		zap.String("phone", logger.MaskPhone(user.PhoneNumber)),
	)

	return nil
}

func (s *OTPService) replacePasscode(ctx context.Context, user *domain.User) (string, error) {
	code, err := security.GeneratePasscode(s.otpLength())
	if err != nil {
		return "", fmt.Errorf("generate passcode: %w", err)
	}

	now := s.now().UTC()
	passcode := domain.Passcode{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Code:      code,
		Expiry:    now.Add(s.otpTTL()),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.passcodes.Replace(ctx, passcode); err != nil {
		return "", fmt.Errorf("store passcode: %w", err)
	}

	return code, nil
}

func (s *OTPService) otpTTL() time.Duration {
	if s.cfg != nil && s.cfg.OTP.TTL > 0 {
		return s.cfg.OTP.TTL
	}
	return 5 * time.Minute
}

func (s *OTPService) otpLength() int {
	if s.cfg != nil && s.cfg.OTP.Length > 0 {
		return s.cfg.OTP.Length
	}
	return 6
}
