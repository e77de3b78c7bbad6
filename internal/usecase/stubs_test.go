package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Gaurav200247/suvichar-auth/internal/core/domain"
	"github.com/Gaurav200247/suvichar-auth/internal/core/port"
	"github.com/Gaurav200247/suvichar-auth/internal/infra/config"
	"github.com/Gaurav200247/suvichar-auth/internal/infra/security"
	"github.com/Gaurav200247/suvichar-auth/internal/repository"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(at time.Time) *fakeClock {
	return &fakeClock{now: at}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type memUserRepo struct {
	users map[string]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := r.users[id]; ok {
		copy := user
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByPhoneNumber(_ context.Context, phoneNumber string) (*domain.User, error) {
	for _, user := range r.users {
		if user.PhoneNumber == phoneNumber {
			copy := user
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) MarkVerified(_ context.Context, id string) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.IsVerified = true
	r.users[id] = user
	return nil
}

func (r *memUserRepo) UpdateProfile(_ context.Context, id string, update port.UserUpdate) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.AccountType != nil {
		user.AccountType = *update.AccountType
	}
	if update.ProfileImageURL != nil {
		url := *update.ProfileImageURL
		user.ProfileImageURL = &url
	}
	r.users[id] = user
	return nil
}

type memPasscodeRepo struct {
	codes []domain.Passcode
}

func (r *memPasscodeRepo) Replace(_ context.Context, passcode domain.Passcode) error {
	for i := range r.codes {
		if r.codes[i].UserID == passcode.UserID && !r.codes[i].IsExpired {
			r.codes[i].IsExpired = true
		}
	}
	r.codes = append(r.codes, passcode)
	return nil
}

func (r *memPasscodeRepo) GetActive(_ context.Context, userID, code string, now time.Time) (*domain.Passcode, error) {
	for i := range r.codes {
		pc := r.codes[i]
		if pc.UserID == userID && pc.Code == code && !pc.IsExpired && pc.Expiry.After(now) {
			copy := pc
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memPasscodeRepo) Consume(_ context.Context, id string) error {
	for i := range r.codes {
		if r.codes[i].ID == id {
			r.codes[i].IsExpired = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memPasscodeRepo) activeFor(userID string) []domain.Passcode {
	var active []domain.Passcode
	for _, pc := range r.codes {
		if pc.UserID == userID && !pc.IsExpired {
			active = append(active, pc)
		}
	}
	return active
}

type memTokenRepo struct {
	tokens []domain.AccessToken
}

func (r *memTokenRepo) Rotate(_ context.Context, token domain.AccessToken) error {
	for i := range r.tokens {
		if r.tokens[i].UserID == token.UserID && !r.tokens[i].IsExpired {
			r.tokens[i].IsExpired = true
		}
	}
	r.tokens = append(r.tokens, token)
	return nil
}

func (r *memTokenRepo) GetActiveByToken(_ context.Context, token string) (*domain.AccessToken, error) {
	for i := range r.tokens {
		if r.tokens[i].Token == token && !r.tokens[i].IsExpired {
			copy := r.tokens[i]
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memTokenRepo) GetByToken(_ context.Context, token string) (*domain.AccessToken, error) {
	for i := range r.tokens {
		if r.tokens[i].Token == token {
			copy := r.tokens[i]
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memTokenRepo) MarkExpired(_ context.Context, id string, at time.Time) error {
	for i := range r.tokens {
		if r.tokens[i].ID == id {
			r.tokens[i].IsExpired = true
			r.tokens[i].Expiry = at
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memTokenRepo) ExtendExpiry(_ context.Context, id string, expiry time.Time) error {
	for i := range r.tokens {
		if r.tokens[i].ID == id {
			r.tokens[i].Expiry = expiry
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memTokenRepo) activeFor(userID string) []domain.AccessToken {
	var active []domain.AccessToken
	for _, tok := range r.tokens {
		if tok.UserID == userID && !tok.IsExpired {
			active = append(active, tok)
		}
	}
	return active
}

func (r *memTokenRepo) byToken(token string) *domain.AccessToken {
	for i := range r.tokens {
		if r.tokens[i].Token == token {
			copy := r.tokens[i]
			return &copy
		}
	}
	return nil
}

type stubSMS struct {
	mu    sync.Mutex
	sent  []string
	async []string
	err   error
}

func (s *stubSMS) Send(_ context.Context, phoneNumber, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, code)
	return nil
}

func (s *stubSMS) SendAsync(phoneNumber, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.async = append(s.async, code)
}

func (s *stubSMS) lastAsync() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.async) == 0 {
		return ""
	}
	return s.async[len(s.async)-1]
}

type stubEvents struct {
	registered []domain.UserRegisteredEvent
	verified   []domain.UserVerifiedEvent
	revoked    []domain.SessionRevokedEvent
}

func (s *stubEvents) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	s.registered = append(s.registered, event)
	return nil
}

func (s *stubEvents) PublishUserVerified(_ context.Context, event domain.UserVerifiedEvent) error {
	s.verified = append(s.verified, event)
	return nil
}

func (s *stubEvents) PublishSessionRevoked(_ context.Context, event domain.SessionRevokedEvent) error {
	s.revoked = append(s.revoked, event)
	return nil
}

type testEnv struct {
	clock     *fakeClock
	users     *memUserRepo
	passcodes *memPasscodeRepo
	tokens    *memTokenRepo
	sms       *stubSMS
	events    *stubEvents
	sessions  *SessionService
	otp       *OTPService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := newFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	cfg := &config.AppConfig{
		OTP: config.OTPSettings{TTL: 5 * time.Minute, Length: 6},
		JWT: config.JWTSettings{
			SigningSecret:    "test-secret",
			SigningAlgorithm: "HS512",
			TokenLifetime:    7 * 24 * time.Hour,
			RenewalThreshold: time.Hour,
		},
	}

	signer, err := security.NewTokenSigner(cfg.JWT)
	if err != nil {
		t.Fatalf("new token signer: %v", err)
	}

	env := &testEnv{
		clock:     clock,
		users:     newMemUserRepo(),
		passcodes: &memPasscodeRepo{},
		tokens:    &memTokenRepo{},
		sms:       &stubSMS{},
		events:    &stubEvents{},
	}

	env.sessions = NewSessionService(env.users, env.tokens, signer, cfg.JWT.RenewalThreshold, env.events, zap.NewNop()).
		WithClock(clock.Now)
	env.otp = NewOTPService(cfg, env.users, env.passcodes, env.sms, env.sessions, env.events, zap.NewNop()).
		WithClock(clock.Now)

	return env
}

func (e *testEnv) addUser(t *testing.T, user domain.User) {
	t.Helper()
	if err := e.users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}
