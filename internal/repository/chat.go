package repository

import (
	"context"
	"time"

	"marqueelz_backend/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type ChatMessage struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Role      string    `db:"role"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *Repository) CreateChatMessage(ctx context.Context, msg *model.ChatMessage) error {
	query, args, err := squirrel.
		Insert("chat_messages").
		SetMap(map[string]interface{}{
			"id":         msg.ID,
			"user_id":    msg.UserID,
			"role":       msg.Role,
			"content":    msg.Content,
			"created_at": msg.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

// GetRecentChatMessages returns the user's latest messages in
// chronological order, capped at limit.
func (r *Repository) GetRecentChatMessages(ctx context.Context, userID uuid.UUID, limit int) ([]*model.ChatMessage, error) {
	query, args, err := squirrel.
		Select("id", "user_id", "role", "content", "created_at").
		From("chat_messages").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []ChatMessage
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	messages := make([]*model.ChatMessage, len(rows))
	for i, row := range rows {
		messages[len(rows)-1-i] = &model.ChatMessage{
			ID:        row.ID,
			UserID:    row.UserID,
			Role:      row.Role,
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
		}
	}

	return messages, nil
}

func (r *Repository) GetChatHistory(ctx context.Context, userID uuid.UUID) ([]*model.ChatMessage, error) {
	query, args, err := squirrel.
		Select("id", "user_id", "role", "content", "created_at").
		From("chat_messages").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []ChatMessage
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	messages := make([]*model.ChatMessage, len(rows))
	for i, row := range rows {
		messages[i] = &model.ChatMessage{
			ID:        row.ID,
			UserID:    row.UserID,
			Role:      row.Role,
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
		}
	}

	return messages, nil
}
