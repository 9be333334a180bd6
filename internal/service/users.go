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
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo      UserRepository
	sanitizer *bluemonday.Policy
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo:      repo,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *UserService) Register(ctx context.Context, email, password, displayName string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:               uuid.New(),
		Email:            email,
		PasswordHash:     string(hash),
		DisplayName:      s.sanitizer.Sanitize(strings.TrimSpace(displayName)),
		RegistrationDate: now,
		LastAuthDate:     now,
	}

	err = s.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.repo.UpdateLastAuthDate(ctx, user.ID, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to update auth date: %w", err)
	}

	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.Profile{
		DisplayName: user.DisplayName,
		Bio:         user.Bio,
		AvatarURL:   user.AvatarURL,
	}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, profile *model.Profile) error {
	cleaned := &model.Profile{
		DisplayName: s.sanitizer.Sanitize(strings.TrimSpace(profile.DisplayName)),
		Bio:         s.sanitizer.Sanitize(strings.TrimSpace(profile.Bio)),
		AvatarURL:   strings.TrimSpace(profile.AvatarURL),
	}

	err := s.repo.UpdateUserProfile(ctx, id, cleaned)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
