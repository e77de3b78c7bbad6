package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Gaurav200247/suvichar-auth/internal/core/domain"
	"github.com/Gaurav200247/suvichar-auth/internal/core/port"
	"github.com/Gaurav200247/suvichar-auth/internal/repository"
)

var userColumns = []string{
	"id",
	"phone_number",
	"name",
	"profile_image_url",
	"account_type",
	"is_verified",
	"is_deleted",
	"created_at",
	"updated_at",
}

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	db      pgDatabase
	builder squirrel.StatementBuilderType
}

// NewUserRepository wires a PostgreSQL-backed user repository.
func NewUserRepository(db pgDatabase) *UserRepository {
	return &UserRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	var imageValue any
	if user.ProfileImageURL != nil && *user.ProfileImageURL != "" {
		imageValue = *user.ProfileImageURL
	}

	stmt, args, err := r.builder.Insert("auth.users").
		Columns(userColumns...).
		Values(
			user.ID,
			user.PhoneNumber,
			user.Name,
			imageValue,
			user.AccountType,
			user.IsVerified,
			user.IsDeleted,
			user.CreatedAt,
			user.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.db.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	stmt, args, err := r.builder.Select(userColumns...).
		From("auth.users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	return r.scanUser(r.db.QueryRow(ctx, stmt, args...))
}

// GetByPhoneNumber retrieves a user by their unique phone number.
func (r *UserRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.User, error) {
	stmt, args, err := r.builder.Select(userColumns...).
		From("auth.users").
		Where(squirrel.Eq{"phone_number": phoneNumber}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user by phone sql: %w", err)
	}

	return r.scanUser(r.db.QueryRow(ctx, stmt, args...))
}

// MarkVerified flips the verified flag for the user.
func (r *UserRepository) MarkVerified(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("auth.users").
		Set("is_verified", true).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark verified sql: %w", err)
	}

	ct, err := r.db.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("mark user verified: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateProfile applies the provided partial profile update.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update port.UserUpdate) error {
	query := r.builder.Update("auth.users").
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id})

	if update.Name != nil {
		query = query.Set("name", *update.Name)
	}
	if update.AccountType != nil {
		query = query.Set("account_type", *update.AccountType)
	}
	if update.ProfileImageURL != nil {
		query = query.Set("profile_image_url", *update.ProfileImageURL)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build update profile sql: %w", err)
	}

	ct, err := r.db.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user     domain.User
		imageURL sql.NullString
	)

	if err := row.Scan(
		&user.ID,
		&user.PhoneNumber,
		&user.Name,
		&imageURL,
		&user.AccountType,
		&user.IsVerified,
		&user.IsDeleted,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if imageURL.Valid {
		val := imageURL.String
		user.ProfileImageURL = &val
	}

	return &user, nil
}

var _ port.UserRepository = (*UserRepository)(nil)
