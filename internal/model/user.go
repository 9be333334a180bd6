package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID               uuid.UUID
	Email            string
	PasswordHash     string
	DisplayName      string
	Bio              string
	AvatarURL        string
	IsAdmin          bool
	RegistrationDate time.Time
	LastAuthDate     time.Time
}

type Profile struct {
	DisplayName string
	Bio         string
	AvatarURL   string
}
