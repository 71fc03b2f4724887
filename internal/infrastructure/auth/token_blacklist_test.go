package auth_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/customs/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_LogoutRevokesSingleToken(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	err := blacklist.AddToBlacklist(ctx, "session-jti-1", 1*time.Hour)
	require.NoError(t, err)

	revoked, err := blacklist.IsBlacklisted(ctx, "session-jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// The officer's other session stays valid
	revoked, err = blacklist.IsBlacklisted(ctx, "session-jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_ExpiredEntriesArePruned(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	err := blacklist.AddToBlacklist(ctx, "short-lived-jti", 1*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	revoked, err := blacklist.IsBlacklisted(ctx, "short-lived-jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_SuspensionInvalidatesAllSessions(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	issuedBeforeSuspension := time.Now().Add(-1 * time.Hour)

	invalidated, err := blacklist.IsUserTokenInvalidated(ctx, "officer-1", issuedBeforeSuspension)
	require.NoError(t, err)
	assert.False(t, invalidated)

	err = blacklist.AddUserTokensToBlacklist(ctx, "officer-1", 1*time.Hour)
	require.NoError(t, err)

	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "officer-1", issuedBeforeSuspension)
	require.NoError(t, err)
	assert.True(t, invalidated)

	// A token issued after reinstatement must pass
	issuedAfter := time.Now().Add(1 * time.Second)
	time.Sleep(2 * time.Millisecond)
	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "officer-1", issuedAfter)
	require.NoError(t, err)
	assert.False(t, invalidated)

	// Other officers are unaffected
	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "officer-2", issuedBeforeSuspension)
	require.NoError(t, err)
	assert.False(t, invalidated)
}

func TestInMemoryTokenBlacklist_ManyRevokedSessions(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		err := blacklist.AddToBlacklist(ctx, fmt.Sprintf("session-jti-%d", i), 1*time.Hour)
		require.NoError(t, err)
	}

	for i := 0; i < 10; i++ {
		jti := fmt.Sprintf("session-jti-%d", i)
		revoked, err := blacklist.IsBlacklisted(ctx, jti)
		require.NoError(t, err)
		assert.True(t, revoked, "token %s should be revoked", jti)
	}

	revoked, err := blacklist.IsBlacklisted(ctx, "never-revoked")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenBlacklist_Implementations(t *testing.T) {
	var _ auth.TokenBlacklist = (*auth.InMemoryTokenBlacklist)(nil)
	var _ auth.TokenBlacklist = (*auth.RedisTokenBlacklist)(nil)
	var _ auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
}
