package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "jwt:blacklist:"

// Blacklist stores revoked tokens until their natural expiration. Redis is
// preferred so revocation survives restarts and is shared between
// instances; without a redis client it degrades to in-memory.
type Blacklist struct {
	rdb *redis.Client

	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewBlacklist(rdb *redis.Client) *Blacklist {
	return &Blacklist{
		rdb:     rdb,
		revoked: make(map[string]time.Time),
	}
}

func (b *Blacklist) Add(token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}

	if b.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := b.rdb.Set(ctx, blacklistKeyPrefix+token, "1", ttl).Err(); err == nil {
			return
		}
	}

	b.mu.Lock()
	b.revoked[token] = expiresAt
	b.mu.Unlock()
}

func (b *Blacklist) Contains(token string) bool {
	if b.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n, err := b.rdb.Exists(ctx, blacklistKeyPrefix+token).Result()
		if err == nil {
			return n > 0
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	expiresAt, ok := b.revoked[token]
	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		delete(b.revoked, token)
		return false
	}
	return true
}
