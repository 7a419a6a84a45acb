package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const tokenCacheSize = 4096

// CachingVerifier remembers verified identities for up to ttl, never past the token's own expiry.
type CachingVerifier struct {
	next  Verifier
	cache *expirable.LRU[string, Identity]
	now   func() time.Time
}

func NewCachingVerifier(next Verifier, ttl time.Duration) *CachingVerifier {
	return &CachingVerifier{
		next:  next,
		cache: expirable.NewLRU[string, Identity](tokenCacheSize, nil, ttl),
		now:   time.Now,
	}
}

func (v *CachingVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	key := tokenKey(token)
	if id, ok := v.cache.Get(key); ok {
		if id.ExpiresAt.IsZero() || v.now().Before(id.ExpiresAt) {
			return &id, nil
		}
		v.cache.Remove(key)
	}

	id, err := v.next.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	v.cache.Add(key, *id)
	return id, nil
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
