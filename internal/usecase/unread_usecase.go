package usecase

import (
	"context"
	"log"
	"sync"

	"ikam/internal/domain/entity"
	"ikam/internal/domain/repository"
	"ikam/pkg/errors"
	"ikam/pkg/subscription"
)

type UnreadUseCase struct {
	chatRepo repository.ChatRepository
	users    *UserUseCase
}

func NewUnreadUseCase(chatRepo repository.ChatRepository, users *UserUseCase) *UnreadUseCase {
	return &UnreadUseCase{
		chatRepo: chatRepo,
		users:    users,
	}
}

// BumpUnread resets the role's counter when amountHint is 0 and otherwise
// increments it by exactly one on the store side.
func (uc *UnreadUseCase) BumpUnread(ctx context.Context, chatID, role string, amountHint int) error {
	field := entity.ParseUnreadRole(role)
	if amountHint == 0 {
		return uc.chatRepo.ResetUnread(ctx, chatID, field)
	}
	return uc.chatRepo.IncrementUnread(ctx, chatID, field)
}

func sumUnread(chats []*entity.Chat, role entity.UnreadRole) int {
	total := 0
	for _, chat := range chats {
		total += chat.Unread(role)
	}
	return total
}

// ObserveUnreadTotal reports the user's unread total across the chats they
// opened plus, for business owners, the chats addressed to their pyme. Each
// listener updates its own partial and reports the sum with the last known
// value of the other.
func (uc *UnreadUseCase) ObserveUnreadTotal(ctx context.Context, userID string, onTotal func(int)) (*subscription.Subscription, error) {
	if userID == "" {
		return nil, errors.Validation("User ID is required")
	}
	businessID := uc.users.resolveBusinessOrEmpty(ctx, userID)

	var (
		mu       sync.Mutex
		userPart int
		pymePart int
	)
	report := func(update func()) {
		mu.Lock()
		defer mu.Unlock()
		update()
		onTotal(userPart + pymePart)
	}

	subs := []*subscription.Subscription{
		uc.chatRepo.WatchByUser(ctx, userID, func(chats []*entity.Chat) {
			report(func() { userPart = sumUnread(chats, entity.UnreadRoleUser) })
		}),
	}
	if businessID != "" {
		subs = append(subs, uc.chatRepo.WatchByPyme(ctx, businessID, func(chats []*entity.Chat) {
			report(func() { pymePart = sumUnread(chats, entity.UnreadRolePyme) })
		}))
	}

	log.Printf("ObserveUnreadTotal: user %s (business %q) attached %d listeners", userID, businessID, len(subs))
	return subscription.Join(subs...), nil
}

// CurrentUnreadTotal is the one-shot form of ObserveUnreadTotal.
func (uc *UnreadUseCase) CurrentUnreadTotal(ctx context.Context, userID string) (int, error) {
	chats, err := uc.chatRepo.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	total := sumUnread(chats, entity.UnreadRoleUser)

	if businessID := uc.users.resolveBusinessOrEmpty(ctx, userID); businessID != "" {
		pymeChats, err := uc.chatRepo.ListByPyme(ctx, businessID)
		if err != nil {
			return 0, err
		}
		total += sumUnread(pymeChats, entity.UnreadRolePyme)
	}
	return total, nil
}
