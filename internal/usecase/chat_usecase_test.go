package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ikam/internal/adapter/repository/memory"
	"ikam/internal/domain/entity"
	"ikam/internal/domain/service"
	"ikam/internal/infrastructure/ratelimit"
	"ikam/pkg/errors"
)

func TestEnsureChatCreatesChatWithWelcomeOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	chat, err := f.chat.EnsureChat(ctx, "", "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "u1-p1", chat.ID)
	assert.True(t, chat.DefaultMessageSent)
	assert.Zero(t, chat.UnreadCountUser)
	assert.Zero(t, chat.UnreadCountPyme)

	_, err = f.chat.EnsureChat(ctx, "u1-p1", "u1", "p1")
	require.NoError(t, err)

	messages := f.messages(t, "u1-p1")
	require.Len(t, messages, 1)
	assert.Equal(t, "owner", messages[0].SenderID)
	assert.Equal(t, "¡Hola! Buenos días. Estás en contacto con Tacos Lupita. Estamos listos para ayudarte. ¿En qué podemos asistirte hoy?", messages[0].Text)
}

func TestEnsureChatConcurrentCallers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.chat.EnsureChat(ctx, "", "u1", "p1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	chats, err := f.chats.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, chats, 1)
	assert.Len(t, f.messages(t, "u1-p1"), 1)
}

func TestEnsureChatSkipsWelcomeWithoutOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	chat, err := f.chat.EnsureChat(ctx, "", "u1", "p2")
	require.NoError(t, err)
	assert.False(t, chat.DefaultMessageSent)
	assert.Empty(t, f.messages(t, "u1-p2"))

	// once the business has an owner a later call writes the welcome
	f.store.PutUser(&entity.UserProfile{UID: "owner2", IsPyme: true, PymeID: "p2"})
	_, err = f.chat.EnsureChat(ctx, "", "u1", "p2")
	require.NoError(t, err)

	messages := f.messages(t, "u1-p2")
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].Text, "Estás en contacto con Pyme.")
}

func TestEnsureChatRejectsForeignChatID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.chat.EnsureChat(ctx, "", "u1", "p1")
	require.NoError(t, err)

	_, err = f.chat.EnsureChat(ctx, "u1-p1", "u2", "p1")
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestSendMessageConcurrentIncrements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.chat.EnsureChat(ctx, "", "u1", "p1")
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.chat.SendMessage(ctx, "u1", "u1-p1", "hola")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	f.chat.Wait()

	chat := f.getChat(t, "u1-p1")
	assert.Equal(t, n, chat.UnreadCountPyme)
	assert.Zero(t, chat.UnreadCountUser)
	assert.Len(t, f.messages(t, "u1-p1"), n+1)
	f.notifier.AssertNumberOfCalls(t, "Send", 2*n)
}

func TestSendMessageRoleFromEitherEntryPoint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// new-chat entry point, sent by the client
	chat, message, err := f.chat.StartChat(ctx, "u1", "p1", "¿Tienen servicio a domicilio?")
	require.NoError(t, err)
	require.NotNil(t, message)
	assert.Equal(t, 1, f.getChat(t, chat.ID).UnreadCountPyme)
	assert.Zero(t, f.getChat(t, chat.ID).UnreadCountUser)

	// existing-chat entry point, sent by the business owner
	_, err = f.chat.SendMessage(ctx, "owner", chat.ID, "Sí, claro")
	require.NoError(t, err)
	got := f.getChat(t, chat.ID)
	assert.Equal(t, 1, got.UnreadCountPyme)
	assert.Equal(t, 1, got.UnreadCountUser)
	assert.Equal(t, "Sí, claro", got.LastMessage)
	assert.Equal(t, "owner", got.LastSenderID)

	// existing-chat entry point, sent by the client
	_, err = f.chat.SendMessage(ctx, "u1", chat.ID, "Gracias")
	require.NoError(t, err)
	got = f.getChat(t, chat.ID)
	assert.Equal(t, 2, got.UnreadCountPyme)
	assert.Equal(t, 1, got.UnreadCountUser)
}

func TestSendMessageRejectsNonParticipant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.chat.EnsureChat(ctx, "", "u1", "p1")
	require.NoError(t, err)

	_, err = f.chat.SendMessage(ctx, "u2", "u1-p1", "hola")
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	chat := f.getChat(t, "u1-p1")
	assert.Zero(t, chat.UnreadCountPyme)
	assert.Zero(t, chat.UnreadCountUser)
}

func TestSendMessageRejectsBlankText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.chat.EnsureChat(ctx, "", "u1", "p1")
	require.NoError(t, err)

	_, err = f.chat.SendMessage(ctx, "u1", "u1-p1", "   \n\t")
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	assert.Zero(t, f.getChat(t, "u1-p1").UnreadCountPyme)
	assert.Len(t, f.messages(t, "u1-p1"), 1)
}

func TestSendMessageMissingChat(t *testing.T) {
	f := newFixture(t)

	_, err := f.chat.SendMessage(context.Background(), "u1", "u1-p1", "hola")
	assert.True(t, errors.IsNotFound(err))
}

func TestSendMessageStoreFailureLeavesCounterUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.chat.EnsureChat(ctx, "", "u1", "p1")
	require.NoError(t, err)

	failing := &failingSendRepo{ChatRepository: f.chats, err: errors.Internal("Failed to send message", nil)}
	chat := NewChatUseCase(failing, memory.NewPymeRepository(f.store), f.users, f.unread, f.notifier, ratelimit.NewRateLimiter(1000, 1000))

	_, err = chat.SendMessage(ctx, "u1", "u1-p1", "hola")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "INTERNAL_ERROR"))
	chat.Wait()

	got := f.getChat(t, "u1-p1")
	assert.Zero(t, got.UnreadCountPyme)
	assert.Zero(t, got.UnreadCountUser)
	assert.NotEqual(t, "hola", got.LastMessage)
	assert.Len(t, f.messages(t, "u1-p1"), 1)
}

func TestSendMessagePushesToReceiverDevices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.chat.EnsureChat(ctx, "", "u1", "p1")
	require.NoError(t, err)

	_, err = f.chat.SendMessage(ctx, "u1", "u1-p1", "hola")
	require.NoError(t, err)
	f.chat.Wait()

	var sent []service.PushMessage
	for _, call := range f.notifier.Calls {
		sent = append(sent, call.Arguments.Get(1).(service.PushMessage))
	}
	require.Len(t, sent, 2)
	tokens := []string{sent[0].To, sent[1].To}
	assert.ElementsMatch(t, []string{"tok-owner-a", "tok-owner-b"}, tokens)
	for _, m := range sent {
		assert.Equal(t, "Ana", m.Title)
		assert.Equal(t, "hola", m.Body)
		assert.Equal(t, "default", m.Sound)
		assert.Equal(t, "chat message", m.Data["someData"])
	}
}

func TestSendMessageSurvivesPushFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.chat.EnsureChat(ctx, "", "u1", "p1")
	require.NoError(t, err)

	failing := &mockNotifier{}
	failing.On("Send", mock.Anything, mock.Anything).Return(false)
	f.chat.notifier = failing

	_, err = f.chat.SendMessage(ctx, "owner", "u1-p1", "hola")
	require.NoError(t, err)
	f.chat.Wait()

	failing.AssertNumberOfCalls(t, "Send", 1)
	assert.Equal(t, 1, f.getChat(t, "u1-p1").UnreadCountUser)
}

func TestOpenChatResetsOwnCounterOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.chat.EnsureChat(ctx, "", "u1", "p1")
	require.NoError(t, err)
	require.NoError(t, f.unread.BumpUnread(ctx, "u1-p1", "unreadCountPyme", 1))
	require.NoError(t, f.unread.BumpUnread(ctx, "u1-p1", "unreadCountPyme", 1))
	require.NoError(t, f.unread.BumpUnread(ctx, "u1-p1", "unreadCountUser", 1))

	require.NoError(t, f.chat.OpenChat(ctx, "owner", "u1-p1"))
	chat := f.getChat(t, "u1-p1")
	assert.Zero(t, chat.UnreadCountPyme)
	assert.Equal(t, 1, chat.UnreadCountUser)

	require.NoError(t, f.chat.OpenChat(ctx, "u1", "u1-p1"))
	assert.Zero(t, f.getChat(t, "u1-p1").UnreadCountUser)

	assert.True(t, errors.Is(f.chat.OpenChat(ctx, "u2", "u1-p1"), "FORBIDDEN"))
}

func TestSubscribeToMessagesDeliversOrderedSnapshots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.chat.EnsureChat(ctx, "", "u1", "p1")
	require.NoError(t, err)

	var mu sync.Mutex
	var last []*entity.Message
	sub, err := f.chat.SubscribeToMessages(ctx, "u1-p1", func(messages []*entity.Message) {
		mu.Lock()
		last = messages
		mu.Unlock()
	})
	require.NoError(t, err)
	defer sub.Cancel()

	for _, text := range []string{"uno", "dos", "tres"} {
		_, err := f.chat.SendMessage(ctx, "u1", "u1-p1", text)
		require.NoError(t, err)
	}

	texts := func() string {
		mu.Lock()
		defer mu.Unlock()
		parts := make([]string, 0, len(last))
		for _, m := range last {
			parts = append(parts, m.Text)
		}
		return strings.Join(parts, ",")
	}
	require.Eventually(t, func() bool { return strings.HasSuffix(texts(), ",uno,dos,tres") }, time.Second, 5*time.Millisecond)
	assert.True(t, strings.HasPrefix(texts(), "¡Hola!"))
}

func TestSubscribeToMissingChatDeliversEmptyList(t *testing.T) {
	f := newFixture(t)

	delivered := make(chan []*entity.Message, 1)
	sub, err := f.chat.SubscribeToMessages(context.Background(), "nobody-p9", func(messages []*entity.Message) {
		select {
		case delivered <- messages:
		default:
		}
	})
	require.NoError(t, err)
	defer sub.Cancel()

	select {
	case messages := <-delivered:
		assert.Empty(t, messages)
	case <-time.After(time.Second):
		t.Fatal("no initial delivery")
	}
}

func TestSubscribeCancelStopsDeliveries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.chat.EnsureChat(ctx, "", "u1", "p1")
	require.NoError(t, err)

	var mu sync.Mutex
	calls := 0
	sub, err := f.chat.SubscribeToMessages(ctx, "u1-p1", func([]*entity.Message) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	}, time.Second, 5*time.Millisecond)

	sub.Cancel()
	sub.Cancel()

	_, err = f.chat.SendMessage(ctx, "u1", "u1-p1", "hola")
	require.NoError(t, err)
	time.Sleep(30 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestWatchChatAsChecksParticipants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	noop := func([]*entity.Message) {}

	// the canonical id of a chat that is about to be created
	sub, err := f.chat.WatchChatAs(ctx, "u1", "u1-p1", noop)
	require.NoError(t, err)
	sub.Cancel()

	_, err = f.chat.WatchChatAs(ctx, "u2", "u1-p1", noop)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = f.chat.EnsureChat(ctx, "", "u1", "p1")
	require.NoError(t, err)
	sub, err = f.chat.WatchChatAs(ctx, "owner", "u1-p1", noop)
	require.NoError(t, err)
	sub.Cancel()
}

func TestGetUserChatsMergesRolesNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.PutPyme(&entity.Pyme{ID: "p3", Name: "Papelería"})
	f.store.PutUser(&entity.UserProfile{UID: "owner3", IsPyme: true, PymeID: "p3"})

	_, _, err := f.chat.StartChat(ctx, "u1", "p1", "hola tacos")
	require.NoError(t, err)
	_, _, err = f.chat.StartChat(ctx, "owner", "p3", "hola papelería")
	require.NoError(t, err)
	_, err = f.chat.EnsureChat(ctx, "", "u2", "p2")
	require.NoError(t, err)

	items, err := f.chat.GetUserChats(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "owner-p3", items[0].ID)
	assert.Equal(t, entity.UnreadRoleUser, items[0].Role)
	assert.Equal(t, "u1-p1", items[1].ID)
	assert.Equal(t, entity.UnreadRolePyme, items[1].Role)
	assert.Equal(t, 1, items[1].Unread)

	// chats without a last message are not listed
	items, err = f.chat.GetUserChats(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSubscribeToChatListFollowsBothRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.PutPyme(&entity.Pyme{ID: "p3", Name: "Papelería"})
	f.store.PutUser(&entity.UserProfile{UID: "owner3", IsPyme: true, PymeID: "p3"})

	_, _, err := f.chat.StartChat(ctx, "owner", "p3", "hola papelería")
	require.NoError(t, err)

	var (
		mu   sync.Mutex
		last []*entity.ChatListItem
	)
	sub := f.chat.SubscribeToChatList(ctx, "owner", func(items []*entity.ChatListItem) {
		mu.Lock()
		defer mu.Unlock()
		last = items
	})
	defer sub.Cancel()

	ids := func() []string {
		mu.Lock()
		defer mu.Unlock()
		out := make([]string, 0, len(last))
		for _, item := range last {
			out = append(out, item.ID)
		}
		return out
	}
	require.Eventually(t, func() bool { return assert.ObjectsAreEqual([]string{"owner-p3"}, ids()) }, time.Second, 5*time.Millisecond)

	// a client writing to the owner's business shows up in the pyme role
	_, _, err = f.chat.StartChat(ctx, "u1", "p1", "hola tacos")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return assert.ObjectsAreEqual([]string{"u1-p1", "owner-p3"}, ids()) }, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, entity.UnreadRolePyme, last[0].Role)
	assert.Equal(t, 1, last[0].Unread)
	assert.Equal(t, entity.UnreadRoleUser, last[1].Role)
}
