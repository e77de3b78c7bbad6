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

var passcodeColumns = []string{
	"id",
	"user_id",
	"code",
	"expiry",
	"is_expired",
	"created_at",
	"updated_at",
}

// PasscodeRepository implements port.PasscodeRepository using PostgreSQL.
type PasscodeRepository struct {
	db      pgDatabase
	builder squirrel.StatementBuilderType
}

// NewPasscodeRepository wires a PostgreSQL-backed passcode repository.
func NewPasscodeRepository(db pgDatabase) *PasscodeRepository {
	return &PasscodeRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Replace expires all active passcodes for the owning user and inserts the
// new one in a single transaction. The expire-then-insert order keeps at most
// one passcode active per user.
func (r *PasscodeRepository) Replace(ctx context.Context, passcode domain.Passcode) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace passcode: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	expireStmt, expireArgs, err := r.builder.Update("auth.passcodes").
		Set("is_expired", true).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"user_id": passcode.UserID, "is_expired": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build expire passcodes sql: %w", err)
	}

	if _, err := tx.Exec(ctx, expireStmt, expireArgs...); err != nil {
		return fmt.Errorf("expire passcodes: %w", err)
	}

	insertStmt, insertArgs, err := r.builder.Insert("auth.passcodes").
		Columns(passcodeColumns...).
		Values(
			passcode.ID,
			passcode.UserID,
			passcode.Code,
			passcode.Expiry,
			passcode.IsExpired,
			passcode.CreatedAt,
			passcode.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert passcode sql: %w", err)
	}

	if _, err := tx.Exec(ctx, insertStmt, insertArgs...); err != nil {
		return fmt.Errorf("insert passcode: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace passcode: %w", err)
	}

	return nil
}

// GetActive returns the unconsumed passcode matching the user and exact code
// whose expiry is strictly in the future.
func (r *PasscodeRepository) GetActive(ctx context.Context, userID, code string, now time.Time) (*domain.Passcode, error) {
	stmt, args, err := r.builder.Select(passcodeColumns...).
		From("auth.passcodes").
		Where(squirrel.Eq{"user_id": userID, "code": code, "is_expired": false}).
		Where(squirrel.Gt{"expiry": now}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select active passcode sql: %w", err)
	}

	var passcode domain.Passcode
	if err := r.db.QueryRow(ctx, stmt, args...).Scan(
		&passcode.ID,
		&passcode.UserID,
		&passcode.Code,
		&passcode.Expiry,
		&passcode.IsExpired,
		&passcode.CreatedAt,
		&passcode.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan passcode: %w", err)
	}

	return &passcode, nil
}

// Consume flags the passcode as used.
func (r *PasscodeRepository) Consume(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("auth.passcodes").
		Set("is_expired", true).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build consume passcode sql: %w", err)
	}

	ct, err := r.db.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("consume passcode: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.PasscodeRepository = (*PasscodeRepository)(nil)
