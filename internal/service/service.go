package service

import (
	"context"
	"errors"
	"time"

	"marqueelz_backend/internal/imghost"
	"marqueelz_backend/internal/model"
	"marqueelz_backend/internal/textgen"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrNoVoucherAvailable = errors.New("no voucher available")
	ErrEmptyVoucherCode   = errors.New("voucher code is empty")
	ErrDuplicateVoucher   = errors.New("voucher code already exists")
	ErrInvalidIndex       = errors.New("voucher index out of range")

	ErrImageNotFound = errors.New("image not found")

	// ErrPoolContention is surfaced after bounded retries of a pool
	// write all lost to concurrent writers.
	ErrPoolContention = errors.New("voucher pool is busy, try again")
)

type UserServiceI interface {
	Register(ctx context.Context, email, password, displayName string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, profile *model.Profile) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUserProfile(ctx context.Context, id uuid.UUID, profile *model.Profile) error
	UpdateLastAuthDate(ctx context.Context, id uuid.UUID, at time.Time) error
}

type StreakServiceI interface {
	GetStatus(ctx context.Context, userID uuid.UUID, now time.Time) (*model.StreakStatus, error)
	AdvanceStreak(ctx context.Context, userID uuid.UUID, now time.Time) (*model.StreakStatus, error)
}

type StreakRepository interface {
	GetStreak(ctx context.Context, userID uuid.UUID) (*model.StreakRecord, error)
	CreateStreak(ctx context.Context, rec *model.StreakRecord) error
	UpdateStreak(ctx context.Context, rec *model.StreakRecord, prevLastLogin time.Time) error
}

type VoucherServiceI interface {
	GetPool(ctx context.Context) (*model.VoucherPool, error)
	ClaimVoucher(ctx context.Context, userID uuid.UUID, streakCount int) (string, error)
	AddVoucherCode(ctx context.Context, code string) error
	RemoveVoucherCode(ctx context.Context, index int) error
}

type VoucherRepository interface {
	GetVoucherPool(ctx context.Context) (*model.VoucherPool, error)
	SaveVoucherPool(ctx context.Context, pool *model.VoucherPool) error
}

type ChatServiceI interface {
	Send(ctx context.Context, userID uuid.UUID, prompt string) (*model.ChatMessage, error)
	History(ctx context.Context, userID uuid.UUID) ([]*model.ChatMessage, error)
}

type ChatRepository interface {
	CreateChatMessage(ctx context.Context, msg *model.ChatMessage) error
	GetRecentChatMessages(ctx context.Context, userID uuid.UUID, limit int) ([]*model.ChatMessage, error)
	GetChatHistory(ctx context.Context, userID uuid.UUID) ([]*model.ChatMessage, error)
}

// TextGenerator is the outbound text completion API.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string, opts textgen.Options) (string, error)
}

type GalleryServiceI interface {
	Upload(ctx context.Context, userID uuid.UUID, data []byte, contentType, caption string) (*model.GalleryImage, error)
	List(ctx context.Context, userID uuid.UUID) ([]*model.GalleryImage, error)
	Delete(ctx context.Context, userID uuid.UUID, imageID uuid.UUID) error
	AddComment(ctx context.Context, userID uuid.UUID, imageID uuid.UUID, text string) (*model.ImageComment, error)
}

type GalleryRepository interface {
	CreateGalleryImage(ctx context.Context, img *model.GalleryImage) error
	GetGalleryImage(ctx context.Context, id uuid.UUID) (*model.GalleryImage, error)
	GetGalleryImages(ctx context.Context, userID uuid.UUID) ([]*model.GalleryImage, error)
	DeleteGalleryImage(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	AppendImageComment(ctx context.Context, id uuid.UUID, comment model.ImageComment) error
}

// ImageUploader is the outbound image hosting API.
type ImageUploader interface {
	Upload(ctx context.Context, data []byte, contentType string) (*imghost.UploadResult, error)
}
