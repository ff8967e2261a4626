package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ikam/internal/domain/entity"
	"ikam/pkg/errors"
)

func TestBumpUnreadSemantics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.PutChat(&entity.Chat{ID: "c1", UserID: "u1", PymeID: "p1"})

	require.NoError(t, f.unread.BumpUnread(ctx, "c1", "unreadCountPyme", 1))
	// any non-zero hint is an increment by exactly one
	require.NoError(t, f.unread.BumpUnread(ctx, "c1", "unreadCountPyme", 7))
	// unknown roles target the user counter
	require.NoError(t, f.unread.BumpUnread(ctx, "c1", "whatever", 1))

	chat := f.getChat(t, "c1")
	assert.Equal(t, 2, chat.UnreadCountPyme)
	assert.Equal(t, 1, chat.UnreadCountUser)

	require.NoError(t, f.unread.BumpUnread(ctx, "c1", "unreadCountPyme", 0))
	chat = f.getChat(t, "c1")
	assert.Zero(t, chat.UnreadCountPyme)
	assert.Equal(t, 1, chat.UnreadCountUser)

	assert.True(t, errors.IsNotFound(f.unread.BumpUnread(ctx, "missing", "unreadCountUser", 1)))
}

func TestObserveUnreadTotalForBusinessOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// owner chatting as a client with another business
	f.store.PutChat(&entity.Chat{ID: "owner-p9", UserID: "owner", PymeID: "p9", UnreadCountUser: 2, UnreadCountPyme: 40})
	// clients writing to the owner's pyme
	f.store.PutChat(&entity.Chat{ID: "u1-p1", UserID: "u1", PymeID: "p1", UnreadCountUser: 11, UnreadCountPyme: 1})
	f.store.PutChat(&entity.Chat{ID: "u2-p1", UserID: "u2", PymeID: "p1", UnreadCountPyme: 2})

	rec := &intRecorder{}
	sub, err := f.unread.ObserveUnreadTotal(ctx, "owner", rec.record)
	require.NoError(t, err)
	defer sub.Cancel()

	require.Eventually(t, rec.lastIs(5), time.Second, 5*time.Millisecond)

	require.NoError(t, f.unread.BumpUnread(ctx, "u1-p1", "unreadCountPyme", 1))
	require.Eventually(t, rec.lastIs(6), time.Second, 5*time.Millisecond)

	require.NoError(t, f.unread.BumpUnread(ctx, "owner-p9", "unreadCountUser", 0))
	require.Eventually(t, rec.lastIs(4), time.Second, 5*time.Millisecond)

	total, err := f.unread.CurrentUnreadTotal(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}

func TestObserveUnreadTotalForClientIgnoresPymeCounters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.PutChat(&entity.Chat{ID: "u1-p1", UserID: "u1", PymeID: "p1", UnreadCountUser: 3, UnreadCountPyme: 9})

	rec := &intRecorder{}
	sub, err := f.unread.ObserveUnreadTotal(ctx, "u1", rec.record)
	require.NoError(t, err)

	require.Eventually(t, rec.lastIs(3), time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, f.store.ListenerCount())

	sub.Cancel()
	<-sub.Done()
	assert.Equal(t, 0, f.store.ListenerCount())
}

func TestObserveUnreadTotalSelfHealsAfterReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.chat.EnsureChat(ctx, "", "u1", "p1")
	require.NoError(t, err)

	rec := &intRecorder{}
	sub, err := f.unread.ObserveUnreadTotal(ctx, "u1", rec.record)
	require.NoError(t, err)
	defer sub.Cancel()
	require.Eventually(t, rec.lastIs(0), time.Second, 5*time.Millisecond)

	_, err = f.chat.SendMessage(ctx, "owner", "u1-p1", "¿Le puedo ayudar?")
	require.NoError(t, err)
	_, err = f.chat.SendMessage(ctx, "owner", "u1-p1", "Tenemos promoción")
	require.NoError(t, err)
	require.Eventually(t, rec.lastIs(2), time.Second, 5*time.Millisecond)

	require.NoError(t, f.chat.OpenChat(ctx, "u1", "u1-p1"))
	require.Eventually(t, rec.lastIs(0), time.Second, 5*time.Millisecond)
}

func TestObserveUnreadTotalRequiresUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.unread.ObserveUnreadTotal(context.Background(), "", func(int) {})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}
