package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"marqueelz_backend/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// The pool is one row; claims and admin edits all rewrite it through a
// version-checked update so a lost race is detected instead of silently
// dropping or duplicating codes.
const voucherPoolID = 1

type voucherPoolRow struct {
	ID        int             `db:"id"`
	Available json.RawMessage `db:"available"`
	Claimed   json.RawMessage `db:"claimed"`
	Version   int64           `db:"version"`
}

func (row *voucherPoolRow) toModel() (*model.VoucherPool, error) {
	pool := &model.VoucherPool{
		Available: []string{},
		Claimed:   []model.ClaimRecord{},
		Version:   row.Version,
	}

	if len(row.Available) > 0 {
		if err := json.Unmarshal(row.Available, &pool.Available); err != nil {
			return nil, fmt.Errorf("malformed available vouchers document: %w", err)
		}
	}
	if len(row.Claimed) > 0 {
		if err := json.Unmarshal(row.Claimed, &pool.Claimed); err != nil {
			return nil, fmt.Errorf("malformed claimed vouchers document: %w", err)
		}
	}

	return pool, nil
}

// GetVoucherPool returns the pool singleton, creating an empty one on
// first touch.
func (r *Repository) GetVoucherPool(ctx context.Context) (*model.VoucherPool, error) {
	pool, err := r.getVoucherPool(ctx)
	if err == nil {
		return pool, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if err := r.initVoucherPool(ctx); err != nil {
		return nil, err
	}
	return r.getVoucherPool(ctx)
}

func (r *Repository) getVoucherPool(ctx context.Context) (*model.VoucherPool, error) {
	var row voucherPoolRow

	query, args, err := squirrel.
		Select("id", "available", "claimed", "version").
		From("voucher_pools").
		Where(squirrel.Eq{"id": voucherPoolID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toModel()
}

func (r *Repository) initVoucherPool(ctx context.Context) error {
	query, args, err := squirrel.
		Insert("voucher_pools").
		SetMap(map[string]interface{}{
			"id":        voucherPoolID,
			"available": "[]",
			"claimed":   "[]",
			"version":   0,
		}).
		Suffix("ON CONFLICT (id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

// SaveVoucherPool writes the whole pool back, conditional on pool.Version
// being the version that was read. ErrConflict means another session wrote
// the pool in between.
func (r *Repository) SaveVoucherPool(ctx context.Context, pool *model.VoucherPool) error {
	available, err := json.Marshal(pool.Available)
	if err != nil {
		return err
	}
	claimed, err := json.Marshal(pool.Claimed)
	if err != nil {
		return err
	}

	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Update("voucher_pools").
			SetMap(map[string]interface{}{
				"available": string(available),
				"claimed":   string(claimed),
			}).
			Set("version", squirrel.Expr("version + 1")).
			Where(squirrel.Eq{
				"id":      voucherPoolID,
				"version": pool.Version,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, query, args...)
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
	})
}
