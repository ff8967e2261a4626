package memory

import (
	"context"
	"sort"

	"ikam/internal/domain/entity"
	"ikam/internal/domain/repository"
	"ikam/pkg/errors"
	"ikam/pkg/subscription"
)

type chatRepository struct {
	store *Store
}

func NewChatRepository(store *Store) repository.ChatRepository {
	return &chatRepository{store: store}
}

func (r *chatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	var chat *entity.Chat
	r.store.read(func() {
		if c, ok := r.store.chats[id]; ok {
			chat = copyOf(c)
		}
	})
	if chat == nil {
		return nil, errors.NotFound("Chat", nil)
	}
	return chat, nil
}

func (r *chatRepository) CreateIfAbsent(ctx context.Context, chat *entity.Chat) (bool, error) {
	created := false
	err := r.store.write(func() error {
		if _, ok := r.store.chats[chat.ID]; ok {
			return nil
		}
		r.store.chats[chat.ID] = copyOf(chat)
		created = true
		return nil
	})
	return created, err
}

func (r *chatRepository) chatsWhere(match func(*entity.Chat) bool) []*entity.Chat {
	chats := make([]*entity.Chat, 0)
	for _, c := range sortedValues(r.store.chats) {
		if match(c) {
			chats = append(chats, c)
		}
	}
	return chats
}

func (r *chatRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Chat, error) {
	var chats []*entity.Chat
	r.store.read(func() {
		chats = r.chatsWhere(func(c *entity.Chat) bool { return c.UserID == userID })
	})
	return chats, nil
}

func (r *chatRepository) ListByPyme(ctx context.Context, pymeID string) ([]*entity.Chat, error) {
	var chats []*entity.Chat
	r.store.read(func() {
		chats = r.chatsWhere(func(c *entity.Chat) bool { return c.PymeID == pymeID })
	})
	return chats, nil
}

func (r *chatRepository) WatchByUser(ctx context.Context, userID string, onUpdate func([]*entity.Chat)) *subscription.Subscription {
	view := func() []*entity.Chat {
		return r.chatsWhere(func(c *entity.Chat) bool { return c.UserID == userID })
	}
	return watch(r.store, ctx, "chats:user:"+userID, view, onUpdate)
}

func (r *chatRepository) WatchByPyme(ctx context.Context, pymeID string, onUpdate func([]*entity.Chat)) *subscription.Subscription {
	view := func() []*entity.Chat {
		return r.chatsWhere(func(c *entity.Chat) bool { return c.PymeID == pymeID })
	}
	return watch(r.store, ctx, "chats:pyme:"+pymeID, view, onUpdate)
}

// update applies fn to the stored chat, failing with NOT_FOUND when it is missing.
func (r *chatRepository) update(chatID string, fn func(*entity.Chat)) error {
	return r.store.write(func() error {
		chat, ok := r.store.chats[chatID]
		if !ok {
			return errors.NotFound("Chat", nil)
		}
		fn(chat)
		return nil
	})
}

func (r *chatRepository) ClaimDefaultMessage(ctx context.Context, chatID string) (bool, error) {
	claimed := false
	err := r.update(chatID, func(c *entity.Chat) {
		if !c.DefaultMessageSent {
			c.DefaultMessageSent = true
			claimed = true
		}
	})
	return claimed, err
}

func (r *chatRepository) ReleaseDefaultMessage(ctx context.Context, chatID string) error {
	return r.update(chatID, func(c *entity.Chat) { c.DefaultMessageSent = false })
}

func (r *chatRepository) IncrementUnread(ctx context.Context, chatID string, role entity.UnreadRole) error {
	return r.update(chatID, func(c *entity.Chat) {
		if role == entity.UnreadRolePyme {
			c.UnreadCountPyme++
		} else {
			c.UnreadCountUser++
		}
	})
}

func (r *chatRepository) ResetUnread(ctx context.Context, chatID string, role entity.UnreadRole) error {
	return r.update(chatID, func(c *entity.Chat) {
		if role == entity.UnreadRolePyme {
			c.UnreadCountPyme = 0
		} else {
			c.UnreadCountUser = 0
		}
	})
}

func (r *chatRepository) UpdateSummary(ctx context.Context, chatID string, summary entity.ChatSummary) error {
	return r.update(chatID, func(c *entity.Chat) {
		c.LastMessage = summary.LastMessage
		c.LastMessageAt = summary.LastMessageAt
		c.LastSenderID = summary.LastSenderID
	})
}

func (r *chatRepository) AppendMessage(ctx context.Context, message *entity.Message) error {
	return r.store.write(func() error {
		r.store.messages[message.ChatID] = append(r.store.messages[message.ChatID], copyOf(message))
		return nil
	})
}

func (r *chatRepository) AppendMessageAndBump(ctx context.Context, message *entity.Message, role entity.UnreadRole) error {
	return r.update(message.ChatID, func(c *entity.Chat) {
		if role == entity.UnreadRolePyme {
			c.UnreadCountPyme++
		} else {
			c.UnreadCountUser++
		}
		r.store.messages[message.ChatID] = append(r.store.messages[message.ChatID], copyOf(message))
	})
}

// orderedMessages sorts by timestamp; equal timestamps keep insertion order.
func (r *chatRepository) orderedMessages(chatID string) []*entity.Message {
	stored := r.store.messages[chatID]
	messages := make([]*entity.Message, 0, len(stored))
	for _, m := range stored {
		messages = append(messages, copyOf(m))
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
	return messages
}

func (r *chatRepository) ListMessages(ctx context.Context, chatID string) ([]*entity.Message, error) {
	var messages []*entity.Message
	r.store.read(func() { messages = r.orderedMessages(chatID) })
	return messages, nil
}

func (r *chatRepository) WatchMessages(ctx context.Context, chatID string, onUpdate func([]*entity.Message)) *subscription.Subscription {
	view := func() []*entity.Message { return r.orderedMessages(chatID) }
	return watch(r.store, ctx, "messages:"+chatID, view, onUpdate)
}
