package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestService(ttl time.Duration) *Service {
	return NewService("test-secret", ttl, NewBlacklist(nil))
}

func TestService_IssueAndParseToken(t *testing.T) {
	service := newTestService(time.Hour)
	userID := uuid.New()

	token, err := service.IssueToken(userID, "user@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	principal, claims, err := service.ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, principal.UserID)
	assert.Equal(t, "user@example.com", principal.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestService_ParseToken_WrongSecret(t *testing.T) {
	token, err := newTestService(time.Hour).IssueToken(uuid.New(), "user@example.com")
	assert.NoError(t, err)

	other := NewService("different-secret", time.Hour, NewBlacklist(nil))
	_, _, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestService_ParseToken_Garbage(t *testing.T) {
	service := newTestService(time.Hour)
	_, _, err := service.ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestService_RevokeToken(t *testing.T) {
	service := newTestService(time.Hour)
	userID := uuid.New()

	token, err := service.IssueToken(userID, "user@example.com")
	assert.NoError(t, err)

	assert.False(t, service.blacklist.Contains(token))
	assert.NoError(t, service.RevokeToken(token))
	assert.True(t, service.blacklist.Contains(token))
}

func TestBlacklist_ExpiredEntriesForgotten(t *testing.T) {
	blacklist := NewBlacklist(nil)

	blacklist.Add("stale", time.Now().Add(-time.Minute))
	assert.False(t, blacklist.Contains("stale"))

	blacklist.Add("fresh", time.Now().Add(time.Minute))
	assert.True(t, blacklist.Contains("fresh"))
}
