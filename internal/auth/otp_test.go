package auth

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/medbill/medbill/internal/platform/cache"
)

func newOTPStore(t *testing.T) (*OTPStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewOTPStore(cache.NewStore(client, "otp:"), time.Minute), mr
}

func TestOTPIssueAndConsume(t *testing.T) {
	store, mr := newOTPStore(t)
	ctx := context.Background()

	code, err := store.Issue(ctx, "a@b.io")
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^[1-9]\d{5}$`), code)
	require.True(t, mr.Exists("otp:a@b.io"))

	ok, err := store.Consume(ctx, "a@b.io", "000000")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = store.Consume(ctx, "a@b.io", code)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.Consume(ctx, "a@b.io", code)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOTPReplacedAndExpires(t *testing.T) {
	store, mr := newOTPStore(t)
	ctx := context.Background()

	first, err := store.Issue(ctx, "a@b.io")
	require.NoError(t, err)
	second, err := store.Issue(ctx, "a@b.io")
	require.NoError(t, err)
	if first != second {
		ok, err := store.Consume(ctx, "a@b.io", first)
		require.NoError(t, err)
		require.False(t, ok)
	}

	mr.FastForward(2 * time.Minute)
	ok, err := store.Consume(ctx, "a@b.io", second)
	require.NoError(t, err)
	require.False(t, ok)
}
