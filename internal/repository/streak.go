package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"marqueelz_backend/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type StreakRecord struct {
	UserID        uuid.UUID `db:"user_id"`
	StreakCount   int       `db:"streak_count"`
	LastLoginDate time.Time `db:"last_login_date"`
}

func (r *Repository) GetStreak(ctx context.Context, userID uuid.UUID) (*model.StreakRecord, error) {
	var rec StreakRecord

	query, args, err := squirrel.
		Select("user_id", "streak_count", "last_login_date").
		From("user_streaks").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &rec, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &model.StreakRecord{
		UserID:        rec.UserID,
		StreakCount:   rec.StreakCount,
		LastLoginDate: rec.LastLoginDate,
	}, nil
}

func (r *Repository) CreateStreak(ctx context.Context, rec *model.StreakRecord) error {
	query, args, err := squirrel.
		Insert("user_streaks").
		SetMap(map[string]interface{}{
			"user_id":         rec.UserID,
			"streak_count":    rec.StreakCount,
			"last_login_date": rec.LastLoginDate,
		}).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
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
		// Another session of the same user created the record first.
		return ErrConflict
	}

	return nil
}

// UpdateStreak advances the record only if it still carries the
// last_login_date the caller read. A duplicate tab that raced us makes the
// predicate fail and the caller re-reads.
func (r *Repository) UpdateStreak(ctx context.Context, rec *model.StreakRecord, prevLastLogin time.Time) error {
	query, args, err := squirrel.
		Update("user_streaks").
		SetMap(map[string]interface{}{
			"streak_count":    rec.StreakCount,
			"last_login_date": rec.LastLoginDate,
		}).
		Where(squirrel.Eq{
			"user_id":         rec.UserID,
			"last_login_date": prevLastLogin,
		}).
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
		return ErrConflict
	}

	return nil
}
