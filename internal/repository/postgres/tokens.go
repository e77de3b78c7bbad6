package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Gaurav200247/suvichar-auth/internal/core/domain"
	"github.com/Gaurav200247/suvichar-auth/internal/core/port"
	"github.com/Gaurav200247/suvichar-auth/internal/repository"
)

var tokenColumns = []string{
	"id",
	"user_id",
	"token",
	"expiry",
	"is_expired",
	"created_at",
	"updated_at",
}

// TokenRepository implements port.TokenRepository using PostgreSQL.
type TokenRepository struct {
	db      pgDatabase
	builder squirrel.StatementBuilderType
}

// NewTokenRepository wires a PostgreSQL-backed access token repository.
func NewTokenRepository(db pgDatabase) *TokenRepository {
	return &TokenRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Rotate expires every active token for the owning user and inserts the new
// one in a single transaction, enforcing the single-session policy.
func (r *TokenRepository) Rotate(ctx context.Context, token domain.AccessToken) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin rotate token: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	expireStmt, expireArgs, err := r.builder.Update("auth.access_tokens").
		Set("is_expired", true).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"user_id": token.UserID, "is_expired": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build expire tokens sql: %w", err)
	}

	if _, err := tx.Exec(ctx, expireStmt, expireArgs...); err != nil {
		return fmt.Errorf("expire tokens: %w", err)
	}

	insertStmt, insertArgs, err := r.builder.Insert("auth.access_tokens").
		Columns(tokenColumns...).
		Values(
			token.ID,
			token.UserID,
			token.Token,
			token.Expiry,
			token.IsExpired,
			token.CreatedAt,
			token.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert token sql: %w", err)
	}

	if _, err := tx.Exec(ctx, insertStmt, insertArgs...); err != nil {
		return fmt.Errorf("insert token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit rotate token: %w", err)
	}

	return nil
}

// GetActiveByToken returns the record matching the literal token string that
// is not flagged expired.
func (r *TokenRepository) GetActiveByToken(ctx context.Context, token string) (*domain.AccessToken, error) {
	stmt, args, err := r.builder.Select(tokenColumns...).
		From("auth.access_tokens").
		Where(squirrel.Eq{"token": token, "is_expired": false}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select active token sql: %w", err)
	}

	return r.scanToken(ctx, stmt, args)
}

// GetByToken returns the record matching the literal token string in any
// expiry state.
func (r *TokenRepository) GetByToken(ctx context.Context, token string) (*domain.AccessToken, error) {
	stmt, args, err := r.builder.Select(tokenColumns...).
		From("auth.access_tokens").
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select token sql: %w", err)
	}

	return r.scanToken(ctx, stmt, args)
}

// MarkExpired flags the token expired and pins its expiry to the given
// instant. Safe to call on an already-expired token.
func (r *TokenRepository) MarkExpired(ctx context.Context, id string, at time.Time) error {
	stmt, args, err := r.builder.Update("auth.access_tokens").
		Set("is_expired", true).
		Set("expiry", at).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark token expired sql: %w", err)
	}

	ct, err := r.db.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("mark token expired: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ExtendExpiry moves the stored expiry forward for sliding-window renewal.
func (r *TokenRepository) ExtendExpiry(ctx context.Context, id string, expiry time.Time) error {
	stmt, args, err := r.builder.Update("auth.access_tokens").
		Set("expiry", expiry).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build extend token expiry sql: %w", err)
	}

	ct, err := r.db.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("extend token expiry: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *TokenRepository) scanToken(ctx context.Context, stmt string, args []any) (*domain.AccessToken, error) {
	var token domain.AccessToken
	if err := r.db.QueryRow(ctx, stmt, args...).Scan(
		&token.ID,
		&token.UserID,
		&token.Token,
		&token.Expiry,
		&token.IsExpired,
		&token.CreatedAt,
		&token.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan token: %w", err)
	}

	return &token, nil
}

var _ port.TokenRepository = (*TokenRepository)(nil)
