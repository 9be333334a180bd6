package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marqueelz_backend/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type galleryImageRow struct {
	ID           uuid.UUID       `db:"id"`
	UserID       uuid.UUID       `db:"user_id"`
	DisplayURL   string          `db:"display_url"`
	ThumbnailURL string          `db:"thumbnail_url"`
	DeleteURL    string          `db:"delete_url"`
	Caption      string          `db:"caption"`
	Comments     json.RawMessage `db:"comments"`
	CreatedAt    time.Time       `db:"created_at"`
}

func (row *galleryImageRow) toModel() (*model.GalleryImage, error) {
	img := &model.GalleryImage{
		ID:           row.ID,
		UserID:       row.UserID,
		DisplayURL:   row.DisplayURL,
		ThumbnailURL: row.ThumbnailURL,
		DeleteURL:    row.DeleteURL,
		Caption:      row.Caption,
		Comments:     []model.ImageComment{},
		CreatedAt:    row.CreatedAt,
	}
	if len(row.Comments) > 0 {
		if err := json.Unmarshal(row.Comments, &img.Comments); err != nil {
			return nil, fmt.Errorf("malformed comments document: %w", err)
		}
	}
	return img, nil
}

func (r *Repository) CreateGalleryImage(ctx context.Context, img *model.GalleryImage) error {
	comments, err := json.Marshal(img.Comments)
	if err != nil {
		return err
	}

	query, args, err := squirrel.
		Insert("gallery_images").
		SetMap(map[string]interface{}{
			"id":            img.ID,
			"user_id":       img.UserID,
			"display_url":   img.DisplayURL,
			"thumbnail_url": img.ThumbnailURL,
			"delete_url":    img.DeleteURL,
			"caption":       img.Caption,
			"comments":      string(comments),
			"created_at":    img.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *Repository) GetGalleryImage(ctx context.Context, id uuid.UUID) (*model.GalleryImage, error) {
	var row galleryImageRow

	query, args, err := squirrel.
		Select("*").
		From("gallery_images").
		Where(squirrel.Eq{"id": id}).
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

func (r *Repository) GetGalleryImages(ctx context.Context, userID uuid.UUID) ([]*model.GalleryImage, error) {
	query, args, err := squirrel.
		Select("*").
		From("gallery_images").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []galleryImageRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	images := make([]*model.GalleryImage, 0, len(rows))
	for i := range rows {
		img, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}

	return images, nil
}

func (r *Repository) DeleteGalleryImage(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	query, args, err := squirrel.
		Delete("gallery_images").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
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

// AppendImageComment pushes one comment onto the image's comment array in
// a single statement, so concurrent commenters cannot clobber each other.
func (r *Repository) AppendImageComment(ctx context.Context, id uuid.UUID, comment model.ImageComment) error {
	payload, err := json.Marshal(comment)
	if err != nil {
		return err
	}

	query, args, err := squirrel.
		Update("gallery_images").
		Set("comments", squirrel.Expr("comments || ?::jsonb", string(payload))).
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
