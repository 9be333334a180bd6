package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"marqueelz_backend/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type User struct {
	ID               uuid.UUID `db:"id"`
	Email            string    `db:"email"`
	PasswordHash     string    `db:"password_hash"`
	DisplayName      string    `db:"display_name"`
	Bio              string    `db:"bio"`
	AvatarURL        string    `db:"avatar_url"`
	IsAdmin          bool      `db:"is_admin"`
	RegistrationDate time.Time `db:"registration_date"`
	LastAuthDate     time.Time `db:"last_auth_date"`
}

func (u *User) toModel() *model.User {
	return &model.User{
		ID:               u.ID,
		Email:            u.Email,
		PasswordHash:     u.PasswordHash,
		DisplayName:      u.DisplayName,
		Bio:              u.Bio,
		AvatarURL:        u.AvatarURL,
		IsAdmin:          u.IsAdmin,
		RegistrationDate: u.RegistrationDate,
		LastAuthDate:     u.LastAuthDate,
	}
}

func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query, args, err := squirrel.
		Insert("users").
		SetMap(map[string]interface{}{
			"id":                user.ID,
			"email":             user.Email,
			"password_hash":     user.PasswordHash,
			"display_name":      user.DisplayName,
			"bio":               user.Bio,
			"avatar_url":        user.AvatarURL,
			"is_admin":          user.IsAdmin,
			"registration_date": user.RegistrationDate,
			"last_auth_date":    user.LastAuthDate,
		}).
		Suffix("ON CONFLICT (email) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user insert query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAlreadyExists
	}

	return nil
}

func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user User
	query, args, err := squirrel.
		Select("*").
		From("users").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user User
	query, args, err := squirrel.
		Select("*").
		From("users").
		Where(squirrel.Eq{"email": email}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

func (r *Repository) UpdateUserProfile(ctx context.Context, id uuid.UUID, profile *model.Profile) error {
	query, args, err := squirrel.
		Update("users").
		SetMap(map[string]interface{}{
			"display_name": profile.DisplayName,
			"bio":          profile.Bio,
			"avatar_url":   profile.AvatarURL,
		}).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *Repository) UpdateLastAuthDate(ctx context.Context, id uuid.UUID, at time.Time) error {
	query, args, err := squirrel.
		Update("users").
		Set("last_auth_date", at).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

// PromoteAdmin flags the account with the configured admin email. The row
// may not exist yet on a fresh database; that is not an error.
func (r *Repository) PromoteAdmin(ctx context.Context, email string) error {
	query, args, err := squirrel.
		Update("users").
		Set("is_admin", true).
		Where(squirrel.Eq{"email": email}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}
