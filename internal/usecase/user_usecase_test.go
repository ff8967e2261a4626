package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ikam/internal/domain/entity"
	"ikam/pkg/errors"
)

func TestResolveBusinessOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.PutUser(&entity.UserProfile{UID: "flagless", PymeID: "p1"})

	businessID, err := f.users.ResolveBusinessOwner(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, "p1", businessID)

	for _, uid := range []string{"u1", "flagless", "ghost"} {
		businessID, err := f.users.ResolveBusinessOwner(ctx, uid)
		require.NoError(t, err)
		assert.Empty(t, businessID, uid)
	}
}

func TestGetReceiverTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tokens, err := f.users.GetReceiverTokens(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-u1"}, tokens)

	tokens, err = f.users.GetReceiverTokens(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-owner-a", "tok-owner-b"}, tokens)

	tokens, err = f.users.GetReceiverTokens(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestListenToUserChangesMirrorsProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var mu sync.Mutex
	var names []string
	sub := f.users.ListenToUserChanges(ctx, "u1", func(p *entity.UserProfile) {
		mu.Lock()
		names = append(names, p.DisplayName)
		mu.Unlock()
	})
	defer sub.Cancel()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(names) == 1
	}, time.Second, 5*time.Millisecond)

	f.store.PutUser(&entity.UserProfile{UID: "u1", DisplayName: "Ana Ruiz", Tokens: []string{"tok-u1"}})
	require.Eventually(t, func() bool {
		cached, err := f.users.GetCachedProfile(ctx, "u1")
		return err == nil && cached.DisplayName == "Ana Ruiz"
	}, time.Second, 5*time.Millisecond)

	cached, err := f.users.GetCachedProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", cached.UID)
}

func TestGetProfileFastFallsBackToStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.GetCachedProfile(ctx, "u2")
	assert.True(t, errors.IsNotFound(err))

	profile, err := f.users.GetProfileFast(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "Beto", profile.DisplayName)

	cached, err := f.users.GetCachedProfile(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "Beto", cached.DisplayName)

	_, err = f.users.GetProfileFast(ctx, "ghost")
	assert.True(t, errors.IsNotFound(err))
}
