package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marqueelz_backend/internal/model"
	"marqueelz_backend/internal/repository"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

var ErrEmptyComment = errors.New("comment is empty")

type GalleryService struct {
	repo      GalleryRepository
	uploader  ImageUploader
	notifier  *Notifications
	sanitizer *bluemonday.Policy
}

func NewGalleryService(repo GalleryRepository, uploader ImageUploader, notifier *Notifications) *GalleryService {
	return &GalleryService{
		repo:      repo,
		uploader:  uploader,
		notifier:  notifier,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *GalleryService) Upload(ctx context.Context, userID uuid.UUID, data []byte, contentType, caption string) (*model.GalleryImage, error) {
	result, err := s.uploader.Upload(ctx, data, contentType)
	if err != nil {
		return nil, err
	}

	img := &model.GalleryImage{
		ID:           uuid.New(),
		UserID:       userID,
		DisplayURL:   result.DisplayURL,
		ThumbnailURL: result.ThumbnailURL,
		DeleteURL:    result.DeleteURL,
		Caption:      s.sanitizer.Sanitize(strings.TrimSpace(caption)),
		Comments:     []model.ImageComment{},
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateGalleryImage(ctx, img); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	s.notifier.Publish(userID, Event{
		Type: "gallery.image_added",
		Payload: map[string]any{
			"id":            img.ID.String(),
			"display_url":   img.DisplayURL,
			"thumbnail_url": img.ThumbnailURL,
		},
	})

	return img, nil
}

func (s *GalleryService) List(ctx context.Context, userID uuid.UUID) ([]*model.GalleryImage, error) {
	return s.repo.GetGalleryImages(ctx, userID)
}

func (s *GalleryService) Delete(ctx context.Context, userID uuid.UUID, imageID uuid.UUID) error {
	err := s.repo.DeleteGalleryImage(ctx, imageID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrImageNotFound
	}
	return err
}

func (s *GalleryService) AddComment(ctx context.Context, userID uuid.UUID, imageID uuid.UUID, text string) (*model.ImageComment, error) {
	text = s.sanitizer.Sanitize(strings.TrimSpace(text))
	if text == "" {
		return nil, ErrEmptyComment
	}

	if _, err := s.repo.GetGalleryImage(ctx, imageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}

	comment := model.ImageComment{
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.AppendImageComment(ctx, imageID, comment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}

	s.notifier.Publish(userID, Event{
		Type: "gallery.comment_added",
		Payload: map[string]any{
			"image_id": imageID.String(),
			"text":     comment.Text,
		},
	})

	return &comment, nil
}
