package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gaurav200247/suvichar-auth/internal/core/domain"
)

func issueSession(t *testing.T, env *testEnv, user domain.User) string {
	t.Helper()

	env.addUser(t, user)
	token, _, err := env.sessions.IssueAccessToken(context.Background(), user)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	return token
}

func TestAuthenticateResolvesSessionOwner(t *testing.T) {
	env := newTestEnv(t)
	token := issueSession(t, env, domain.User{ID: "u1", PhoneNumber: testPhone, Name: "Asha", IsVerified: true})

	user, err := env.sessions.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("expected user u1, got %q", user.ID)
	}
}

func TestAuthenticateRejectsUnknownToken(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.sessions.Authenticate(context.Background(), "no-such-token"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := env.sessions.Authenticate(context.Background(), "  "); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for blank token, got %v", err)
	}
}

func TestAuthenticateExpiresLapsedSession(t *testing.T) {
	env := newTestEnv(t)
	token := issueSession(t, env, domain.User{ID: "u1", PhoneNumber: testPhone, IsVerified: true})

	env.clock.Advance(7*24*time.Hour + time.Second)

	if _, err := env.sessions.Authenticate(context.Background(), token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}

	record := env.tokens.byToken(token)
	if record == nil || !record.IsExpired {
		t.Error("lapsed token must be flagged expired in storage")
	}

	// Once flagged, the token no longer resolves at all.
	if _, err := env.sessions.Authenticate(context.Background(), token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated on replay, got %v", err)
	}
}

func TestAuthenticateExtendsSessionNearExpiry(t *testing.T) {
	env := newTestEnv(t)
	token := issueSession(t, env, domain.User{ID: "u1", PhoneNumber: testPhone, IsVerified: true})

	// 30 minutes of lifetime left, under the one hour renewal threshold.
	env.clock.Advance(7*24*time.Hour - 30*time.Minute)

	if _, err := env.sessions.Authenticate(context.Background(), token); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	record := env.tokens.byToken(token)
	want := env.clock.Now().UTC().Add(time.Hour)
	if !record.Expiry.Equal(want) {
		t.Errorf("expected expiry extended to %v, got %v", want, record.Expiry)
	}
}

func TestAuthenticateLeavesDistantExpiryAlone(t *testing.T) {
	env := newTestEnv(t)
	token := issueSession(t, env, domain.User{ID: "u1", PhoneNumber: testPhone, IsVerified: true})

	issued := env.clock.Now().UTC()
	env.clock.Advance(24 * time.Hour)

	if _, err := env.sessions.Authenticate(context.Background(), token); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	record := env.tokens.byToken(token)
	want := issued.Add(7 * 24 * time.Hour)
	if !record.Expiry.Equal(want) {
		t.Errorf("expiry must be untouched while over the threshold, got %v want %v", record.Expiry, want)
	}
}

func TestAuthenticateRejectsUnverifiedUser(t *testing.T) {
	env := newTestEnv(t)
	token := issueSession(t, env, domain.User{ID: "u1", PhoneNumber: testPhone})

	if _, err := env.sessions.Authenticate(context.Background(), token); !errors.Is(err, ErrNotVerified) {
		t.Fatalf("expected ErrNotVerified, got %v", err)
	}
}

func TestAuthenticateRejectsDeletedUser(t *testing.T) {
	env := newTestEnv(t)
	token := issueSession(t, env, domain.User{ID: "u1", PhoneNumber: testPhone, IsVerified: true, IsDeleted: true})

	if _, err := env.sessions.Authenticate(context.Background(), token); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestIssueAccessTokenEnforcesSingleSession(t *testing.T) {
	env := newTestEnv(t)
	user := domain.User{ID: "u1", PhoneNumber: testPhone, IsVerified: true}
	env.addUser(t, user)

	first, _, err := env.sessions.IssueAccessToken(context.Background(), user)
	if err != nil {
		t.Fatalf("first IssueAccessToken: %v", err)
	}

	env.clock.Advance(time.Minute)

	second, _, err := env.sessions.IssueAccessToken(context.Background(), user)
	if err != nil {
		t.Fatalf("second IssueAccessToken: %v", err)
	}

	active := env.tokens.activeFor("u1")
	if len(active) != 1 {
		t.Fatalf("expected 1 active token, got %d", len(active))
	}
	if active[0].Token != second {
		t.Error("the surviving token must be the newest")
	}
	if active[0].Token == first {
		t.Error("the first token must have been rotated out")
	}
}

func TestLogoutPinsExpiryToNow(t *testing.T) {
	env := newTestEnv(t)
	token := issueSession(t, env, domain.User{ID: "u1", PhoneNumber: testPhone, IsVerified: true})

	if err := env.sessions.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	record := env.tokens.byToken(token)
	if !record.IsExpired {
		t.Error("logged out token must be flagged expired")
	}
	if !record.Expiry.Equal(env.clock.Now().UTC()) {
		t.Errorf("expected expiry pinned to now, got %v", record.Expiry)
	}

	if len(env.events.revoked) != 1 || env.events.revoked[0].Reason != "logout" {
		t.Error("expected a session revoked event with reason logout")
	}

	if _, err := env.sessions.Authenticate(context.Background(), token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("revoked token must be unauthenticated, got %v", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	token := issueSession(t, env, domain.User{ID: "u1", PhoneNumber: testPhone, IsVerified: true})

	if err := env.sessions.Logout(context.Background(), token); err != nil {
		t.Fatalf("first Logout: %v", err)
	}
	if err := env.sessions.Logout(context.Background(), token); err != nil {
		t.Fatalf("second Logout must succeed, got %v", err)
	}
}

func TestLogoutUnknownToken(t *testing.T) {
	env := newTestEnv(t)

	if err := env.sessions.Logout(context.Background(), "no-such-token"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
