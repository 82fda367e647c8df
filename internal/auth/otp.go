package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/medbill/medbill/internal/platform/cache"
)

// DefaultOTPTTL is how long a mailed code stays valid.
const DefaultOTPTTL = 5 * time.Minute

// OTPStore keeps one pending code per email in Redis.
type OTPStore struct {
	store *cache.Store
	ttl   time.Duration
}

// NewOTPStore builds an OTPStore.
func NewOTPStore(store *cache.Store, ttl time.Duration) *OTPStore {
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}
	return &OTPStore{store: store, ttl: ttl}
}

// Issue generates a fresh six digit code for email, replacing any pending one.
func (o *OTPStore) Issue(ctx context.Context, email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("auth: otp: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)
	if err := o.store.Set(ctx, email, code, o.ttl); err != nil {
		return "", err
	}
	return code, nil
}

// Consume reports whether code matches the pending code for email. A match
// removes the code so it cannot be reused.
func (o *OTPStore) Consume(ctx context.Context, email, code string) (bool, error) {
	stored, ok, err := o.store.Get(ctx, email)
	if err != nil || !ok {
		return false, err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return false, nil
	}
	if err := o.store.Delete(ctx, email); err != nil {
		return false, err
	}
	return true, nil
}
