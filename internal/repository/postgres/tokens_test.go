package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/Gaurav200247/suvichar-auth/internal/core/domain"
	"github.com/Gaurav200247/suvichar-auth/internal/repository"
)

func TestTokenRepository_Rotate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewTokenRepository(mock)

	now := time.Now().UTC()
	token := domain.AccessToken{
		ID:        "tok-1",
		UserID:    "user-1",
		Token:     "signed.jwt.value",
		Expiry:    now.Add(7 * 24 * time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE auth\.access_tokens SET is_expired`).
		WithArgs(true, pgxmock.AnyArg(), false, token.UserID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`INSERT INTO auth\.access_tokens`).
		WithArgs(
			token.ID,
			token.UserID,
			token.Token,
			token.Expiry,
			token.IsExpired,
			token.CreatedAt,
			token.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	if err := repo.Rotate(context.Background(), token); err != nil {
		t.Fatalf("Rotate returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokenRepository_GetActiveByToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewTokenRepository(mock)

	now := time.Now().UTC()
	rows := pgxmock.NewRows(tokenColumns).
		AddRow("tok-1", "user-1", "signed.jwt.value", now.Add(time.Hour), false, now, now)

	mock.ExpectQuery(`SELECT .* FROM auth\.access_tokens`).
		WithArgs(false, "signed.jwt.value").
		WillReturnRows(rows)

	token, err := repo.GetActiveByToken(context.Background(), "signed.jwt.value")
	if err != nil {
		t.Fatalf("GetActiveByToken returned error: %v", err)
	}
	if token.ID != "tok-1" || token.UserID != "user-1" {
		t.Fatalf("unexpected token %+v", token)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokenRepository_GetActiveByTokenNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewTokenRepository(mock)

	mock.ExpectQuery(`SELECT .* FROM auth\.access_tokens`).
		WithArgs(false, "revoked.jwt.value").
		WillReturnRows(pgxmock.NewRows(tokenColumns))

	_, err = repo.GetActiveByToken(context.Background(), "revoked.jwt.value")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTokenRepository_GetByTokenIgnoresExpiryState(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewTokenRepository(mock)

	now := time.Now().UTC()
	rows := pgxmock.NewRows(tokenColumns).
		AddRow("tok-1", "user-1", "signed.jwt.value", now, true, now, now)

	mock.ExpectQuery(`SELECT .* FROM auth\.access_tokens`).
		WithArgs("signed.jwt.value").
		WillReturnRows(rows)

	token, err := repo.GetByToken(context.Background(), "signed.jwt.value")
	if err != nil {
		t.Fatalf("GetByToken returned error: %v", err)
	}
	if !token.IsExpired {
		t.Fatal("expected the expired record to be returned")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokenRepository_MarkExpired(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewTokenRepository(mock)

	at := time.Now().UTC()
	mock.ExpectExec(`UPDATE auth\.access_tokens SET`).
		WithArgs(true, at, pgxmock.AnyArg(), "tok-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.MarkExpired(context.Background(), "tok-1", at); err != nil {
		t.Fatalf("MarkExpired returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokenRepository_ExtendExpiry(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewTokenRepository(mock)

	expiry := time.Now().UTC().Add(time.Hour)
	mock.ExpectExec(`UPDATE auth\.access_tokens SET`).
		WithArgs(expiry, pgxmock.AnyArg(), "tok-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.ExtendExpiry(context.Background(), "tok-1", expiry); err != nil {
		t.Fatalf("ExtendExpiry returned error: %v", err)
	}

	mock.ExpectExec(`UPDATE auth\.access_tokens SET`).
		WithArgs(expiry, pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.ExtendExpiry(context.Background(), "missing", expiry); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
