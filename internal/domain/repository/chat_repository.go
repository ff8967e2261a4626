package repository

import (
	"context"

	"ikam/internal/domain/entity"
	"ikam/pkg/subscription"
)

type ChatRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	// CreateIfAbsent writes chat only when no document with its ID exists.
	CreateIfAbsent(ctx context.Context, chat *entity.Chat) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Chat, error)
	ListByPyme(ctx context.Context, pymeID string) ([]*entity.Chat, error)
	WatchByUser(ctx context.Context, userID string, onUpdate func([]*entity.Chat)) *subscription.Subscription
	WatchByPyme(ctx context.Context, pymeID string, onUpdate func([]*entity.Chat)) *subscription.Subscription

	// ClaimDefaultMessage flips mensajeEnviado from false to true atomically and
	// reports whether this caller performed the transition.
	ClaimDefaultMessage(ctx context.Context, chatID string) (bool, error)
	ReleaseDefaultMessage(ctx context.Context, chatID string) error

	// Unread counters are only ever incremented server-side or reset to zero.
	IncrementUnread(ctx context.Context, chatID string, role entity.UnreadRole) error
	ResetUnread(ctx context.Context, chatID string, role entity.UnreadRole) error
	UpdateSummary(ctx context.Context, chatID string, summary entity.ChatSummary) error

	// Message methods
	AppendMessage(ctx context.Context, message *entity.Message) error
	// AppendMessageAndBump stores the message and increments the role's
	// unread counter as one write; neither lands if the other fails.
	AppendMessageAndBump(ctx context.Context, message *entity.Message, role entity.UnreadRole) error
	ListMessages(ctx context.Context, chatID string) ([]*entity.Message, error)
	WatchMessages(ctx context.Context, chatID string, onUpdate func([]*entity.Message)) *subscription.Subscription
}
