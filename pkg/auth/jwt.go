package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Principal is the authenticated identity attached to every request.
type Principal struct {
	UserID uuid.UUID
	Email  string
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Service struct {
	secret    []byte
	tokenTTL  time.Duration
	blacklist *Blacklist
}

func NewService(secret string, tokenTTL time.Duration, blacklist *Blacklist) *Service {
	return &Service{
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		blacklist: blacklist,
	}
}

func (s *Service) IssueToken(userID uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) ParseToken(tokenStr string) (*Principal, *Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	return &Principal{UserID: userID, Email: claims.Email}, claims, nil
}

// RevokeToken blacklists a token until its natural expiration.
func (s *Service) RevokeToken(tokenStr string) error {
	_, claims, err := s.ParseToken(tokenStr)
	if err != nil {
		return err
	}
	s.blacklist.Add(tokenStr, claims.ExpiresAt.Time)
	return nil
}
