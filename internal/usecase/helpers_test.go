package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"ikam/internal/adapter/repository/memory"
	"ikam/internal/domain/entity"
	"ikam/internal/domain/repository"
	"ikam/internal/domain/service"
	"ikam/internal/infrastructure/cache"
	"ikam/internal/infrastructure/ratelimit"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Send(ctx context.Context, message service.PushMessage) bool {
	args := m.Called(ctx, message)
	return args.Bool(0)
}

// stepClock returns strictly increasing times so message order is deterministic.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	store    *memory.Store
	chats    repository.ChatRepository
	cache    *cache.MemoryProfileCache
	users    *UserUseCase
	unread   *UnreadUseCase
	chat     *ChatUseCase
	notifier *mockNotifier
}

// newFixture seeds a client (u1), the owner of pyme p1 and a second client (u2).
func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	store.Seed(memory.Fixtures{
		Users: []*entity.UserProfile{
			{UID: "u1", DisplayName: "Ana", Tokens: []string{"tok-u1"}},
			{UID: "u2", DisplayName: "Beto"},
			{UID: "owner", DisplayName: "Lupita", IsPyme: true, PymeID: "p1", Tokens: []string{"tok-owner-a", "tok-owner-b"}},
		},
		Pymes: []*entity.Pyme{
			{ID: "p1", Name: "Tacos Lupita"},
			{ID: "p2"},
		},
	})

	chats := memory.NewChatRepository(store)
	profileCache := cache.NewMemoryProfileCache()
	users := NewUserUseCase(memory.NewUserRepository(store), profileCache)
	unread := NewUnreadUseCase(chats, users)

	notifier := &mockNotifier{}
	notifier.On("Send", mock.Anything, mock.Anything).Return(true).Maybe()

	chat := NewChatUseCase(chats, memory.NewPymeRepository(store), users, unread, notifier, ratelimit.NewRateLimiter(1000, 1000))
	clock := &stepClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	chat.now = clock.Now

	return &fixture{
		store:    store,
		chats:    chats,
		cache:    profileCache,
		users:    users,
		unread:   unread,
		chat:     chat,
		notifier: notifier,
	}
}

func (f *fixture) getChat(t *testing.T, id string) *entity.Chat {
	t.Helper()
	chat, err := f.chats.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get chat %s: %v", id, err)
	}
	return chat
}

func (f *fixture) messages(t *testing.T, chatID string) []*entity.Message {
	t.Helper()
	messages, err := f.chats.ListMessages(context.Background(), chatID)
	if err != nil {
		t.Fatalf("list messages %s: %v", chatID, err)
	}
	return messages
}

// failingSendRepo stores chats normally but rejects every sent message.
type failingSendRepo struct {
	repository.ChatRepository
	err error
}

func (r *failingSendRepo) AppendMessageAndBump(ctx context.Context, message *entity.Message, role entity.UnreadRole) error {
	return r.err
}

type intRecorder struct {
	mu     sync.Mutex
	values []int
}

func (r *intRecorder) record(v int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *intRecorder) last() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return 0, false
	}
	return r.values[len(r.values)-1], true
}

func (r *intRecorder) lastIs(want int) func() bool {
	return func() bool {
		v, ok := r.last()
		return ok && v == want
	}
}
