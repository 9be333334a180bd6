package model

import (
	"time"

	"github.com/google/uuid"
)

type GalleryImage struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	DisplayURL   string
	ThumbnailURL string
	DeleteURL    string
	Caption      string
	Comments     []ImageComment
	CreatedAt    time.Time
}

type ImageComment struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
