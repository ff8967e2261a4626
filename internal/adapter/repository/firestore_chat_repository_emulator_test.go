//go:build emulator

package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ikam/internal/domain/entity"
	domainrepo "ikam/internal/domain/repository"
	"ikam/pkg/errors"
)

// Run with FIRESTORE_EMULATOR_HOST set and `go test -tags emulator`.
func newEmulatorChatRepo(t *testing.T) (domainrepo.ChatRepository, string) {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "ikam-emulator")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	// chat ids are unique per test so reruns against one emulator do not collide
	return NewFirestoreChatRepository(client), uuid.New().String()[:8]
}

func TestEmulatorCreateIfAbsentAndClaim(t *testing.T) {
	repo, prefix := newEmulatorChatRepo(t)
	ctx := context.Background()
	chat := &entity.Chat{ID: prefix + "-p1", UserID: prefix, PymeID: "p1"}

	created, err := repo.CreateIfAbsent(ctx, chat)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = repo.CreateIfAbsent(ctx, chat)
	require.NoError(t, err)
	assert.False(t, created)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		claims int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.ClaimDefaultMessage(ctx, chat.ID)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				claims++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, claims)
}

func TestEmulatorAppendMessageAndBump(t *testing.T) {
	repo, prefix := newEmulatorChatRepo(t)
	ctx := context.Background()
	chat := &entity.Chat{ID: prefix + "-p1", UserID: prefix, PymeID: "p1"}
	_, err := repo.CreateIfAbsent(ctx, chat)
	require.NoError(t, err)

	const n = 10
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			message := &entity.Message{ID: uuid.New().String(), ChatID: chat.ID, SenderID: prefix, Text: "hola", Timestamp: base.Add(time.Duration(i) * time.Second)}
			assert.NoError(t, repo.AppendMessageAndBump(ctx, message, entity.UnreadRolePyme))
		}(i)
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got.UnreadCountPyme)
	assert.Zero(t, got.UnreadCountUser)

	messages, err := repo.ListMessages(ctx, chat.ID)
	require.NoError(t, err)
	require.Len(t, messages, n)
	for i := 1; i < n; i++ {
		assert.False(t, messages[i].Timestamp.Before(messages[i-1].Timestamp))
	}

	// the counter update fails on a missing chat, so the message is not written either
	missing := prefix + "-missing"
	err = repo.AppendMessageAndBump(ctx, &entity.Message{ID: "m1", ChatID: missing, Text: "hola", Timestamp: base}, entity.UnreadRolePyme)
	assert.True(t, errors.IsNotFound(err))
	messages, err = repo.ListMessages(ctx, missing)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestEmulatorWatchMessages(t *testing.T) {
	repo, prefix := newEmulatorChatRepo(t)
	ctx := context.Background()
	chat := &entity.Chat{ID: prefix + "-p1", UserID: prefix, PymeID: "p1"}
	_, err := repo.CreateIfAbsent(ctx, chat)
	require.NoError(t, err)

	snapshots := make(chan []*entity.Message, 8)
	sub := repo.WatchMessages(ctx, chat.ID, func(m []*entity.Message) { snapshots <- m })
	defer sub.Cancel()

	select {
	case got := <-snapshots:
		assert.Empty(t, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no initial snapshot")
	}

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.AppendMessage(ctx, &entity.Message{ID: "b", ChatID: chat.ID, Text: "second", Timestamp: base.Add(time.Second)}))
	require.NoError(t, repo.AppendMessage(ctx, &entity.Message{ID: "a", ChatID: chat.ID, Text: "first", Timestamp: base}))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-snapshots:
			if len(got) == 2 {
				assert.Equal(t, "first", got[0].Text)
				assert.Equal(t, "second", got[1].Text)
				return
			}
		case <-deadline:
			t.Fatal("no snapshot with both messages")
		}
	}
}
