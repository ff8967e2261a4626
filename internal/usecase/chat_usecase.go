package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ikam/internal/domain/entity"
	"ikam/internal/domain/repository"
	"ikam/internal/domain/service"
	"ikam/internal/infrastructure/ratelimit"
	"ikam/pkg/errors"
	"ikam/pkg/subscription"
)

const welcomeTemplate = "¡Hola! Buenos días. Estás en contacto con %s. Estamos listos para ayudarte. ¿En qué podemos asistirte hoy?"

func WelcomeMessage(pyme *entity.Pyme) string {
	return fmt.Sprintf(welcomeTemplate, pyme.DisplayName())
}

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	pymeRepo    repository.PymeRepository
	users       *UserUseCase
	unread      *UnreadUseCase
	notifier    service.PushNotifier
	rateLimiter *ratelimit.RateLimiter
	now         func() time.Time

	pushes sync.WaitGroup
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	pymeRepo repository.PymeRepository,
	users *UserUseCase,
	unread *UnreadUseCase,
	notifier service.PushNotifier,
	rateLimiter *ratelimit.RateLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		pymeRepo:    pymeRepo,
		users:       users,
		unread:      unread,
		notifier:    notifier,
		rateLimiter: rateLimiter,
		now:         time.Now,
	}
}

// EnsureChat creates chat/{chatID} when absent and makes sure the business
// welcome message is written exactly once. An empty chatID means the
// canonical {userID}-{pymeID} id.
func (uc *ChatUseCase) EnsureChat(ctx context.Context, chatID, userID, pymeID string) (*entity.Chat, error) {
	if userID == "" || pymeID == "" {
		return nil, errors.Validation("User ID and pyme ID are required")
	}
	if chatID == "" {
		chatID = entity.ChatID(userID, pymeID)
	}

	chat := &entity.Chat{
		ID:        chatID,
		UserID:    userID,
		PymeID:    pymeID,
		CreatedAt: uc.now(),
	}
	created, err := uc.chatRepo.CreateIfAbsent(ctx, chat)
	if err != nil {
		log.Printf("EnsureChat Error: failed to create chat %s: %v", chatID, err)
		return nil, err
	}
	if created {
		log.Printf("EnsureChat: created chat %s for user %s and pyme %s", chatID, userID, pymeID)
	} else {
		chat, err = uc.chatRepo.GetByID(ctx, chatID)
		if err != nil {
			return nil, err
		}
		if chat.UserID != userID || chat.PymeID != pymeID {
			return nil, errors.Conflict("Chat belongs to a different user and pyme")
		}
	}

	if uc.sendWelcome(ctx, chat) {
		if refreshed, err := uc.chatRepo.GetByID(ctx, chatID); err == nil {
			chat = refreshed
		}
	}
	return chat, nil
}

// sendWelcome claims the welcome flag and writes the message on behalf of the
// pyme's owner. The claim is released whenever the message cannot be written.
func (uc *ChatUseCase) sendWelcome(ctx context.Context, chat *entity.Chat) bool {
	claimed, err := uc.chatRepo.ClaimDefaultMessage(ctx, chat.ID)
	if err != nil {
		log.Printf("EnsureChat Error: failed to claim welcome message for chat %s: %v", chat.ID, err)
		return false
	}
	if !claimed {
		return false
	}

	release := func(reason string, err error) bool {
		log.Printf("EnsureChat: skipping welcome message for chat %s: %s: %v", chat.ID, reason, err)
		if err := uc.chatRepo.ReleaseDefaultMessage(ctx, chat.ID); err != nil {
			log.Printf("EnsureChat Error: failed to release welcome claim for chat %s: %v", chat.ID, err)
		}
		return false
	}

	pyme, err := uc.pymeRepo.GetByID(ctx, chat.PymeID)
	if err != nil {
		return release("pyme not found", err)
	}
	owner, err := uc.users.FindPymeOwner(ctx, chat.PymeID)
	if err != nil {
		return release("pyme owner not found", err)
	}

	message := &entity.Message{
		ID:        uuid.New().String(),
		ChatID:    chat.ID,
		SenderID:  owner.UID,
		Text:      WelcomeMessage(pyme),
		Timestamp: uc.now(),
	}
	if err := uc.chatRepo.AppendMessage(ctx, message); err != nil {
		return release("append failed", err)
	}
	uc.updateSummary(ctx, message)
	return true
}

func (uc *ChatUseCase) updateSummary(ctx context.Context, message *entity.Message) {
	summary := entity.ChatSummary{
		LastMessage:   message.Text,
		LastMessageAt: message.Timestamp,
		LastSenderID:  message.SenderID,
	}
	if err := uc.chatRepo.UpdateSummary(ctx, message.ChatID, summary); err != nil {
		log.Printf("Failed to update summary of chat %s: %v", message.ChatID, err)
	}
}

// sideOf decides which side of the chat uid speaks for: the chat's user, the
// owner of the chat's pyme, or neither.
func (uc *ChatUseCase) sideOf(ctx context.Context, chat *entity.Chat, uid string) (entity.UnreadRole, error) {
	if uid == chat.UserID {
		return entity.UnreadRoleUser, nil
	}
	if businessID := uc.users.resolveBusinessOrEmpty(ctx, uid); businessID != "" && businessID == chat.PymeID {
		return entity.UnreadRolePyme, nil
	}
	return "", errors.Forbidden("You are not a participant in this chat", nil)
}

// StartChat is the new-chat entry point: it provisions the canonical chat
// and, when text is not blank, sends it as the user's first message.
func (uc *ChatUseCase) StartChat(ctx context.Context, userID, pymeID, text string) (*entity.Chat, *entity.Message, error) {
	allowed, waitTime := uc.rateLimiter.Allow(userID, ratelimit.ActionEnsureChat)
	if !allowed {
		log.Printf("StartChat Rate Limited: User %s must wait %v", userID, waitTime)
		return nil, nil, errors.TooManyRequests("Rate limit exceeded. Please wait before starting another chat", waitTime)
	}

	chat, err := uc.EnsureChat(ctx, "", userID, pymeID)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(text) == "" {
		return chat, nil, nil
	}

	message, err := uc.SendMessage(ctx, userID, chat.ID, text)
	if err != nil {
		return chat, nil, err
	}
	return chat, message, nil
}

// SendMessage bumps the receiving side's counter, appends the message, updates
// the chat summary and notifies the receiver in the background.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID, chatID, text string) (*entity.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.Validation("Message text cannot be empty")
	}

	allowed, waitTime := uc.rateLimiter.Allow(senderID, ratelimit.ActionSendMessage)
	if !allowed {
		log.Printf("SendMessage Rate Limited: User %s must wait %v", senderID, waitTime)
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before sending another message", waitTime)
	}

	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	side, err := uc.sideOf(ctx, chat, senderID)
	if err != nil {
		log.Printf("SendMessage Error: user %s is not a participant of chat %s", senderID, chatID)
		return nil, err
	}

	message := &entity.Message{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		SenderID:  senderID,
		Text:      text,
		Timestamp: uc.now(),
	}
	if err := uc.chatRepo.AppendMessageAndBump(ctx, message, side.Other()); err != nil {
		log.Printf("SendMessage Error: failed to store message for chat %s: %v", chatID, err)
		return nil, err
	}
	uc.updateSummary(ctx, message)

	receiverID := chat.UserID
	if side == entity.UnreadRoleUser {
		receiverID = chat.PymeID
	}
	uc.notify(ctx, senderID, receiverID, text)

	return message, nil
}

// notify pushes text to every device of the receiver. Delivery outcome never
// affects the send.
func (uc *ChatUseCase) notify(ctx context.Context, senderID, receiverID, text string) {
	if uc.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	uc.pushes.Add(1)
	go func() {
		defer uc.pushes.Done()

		tokens, err := uc.users.GetReceiverTokens(ctx, receiverID)
		if err != nil {
			log.Printf("Push: failed to resolve tokens for %s: %v", receiverID, err)
			return
		}
		if len(tokens) == 0 {
			return
		}

		title := ""
		if sender, err := uc.users.GetProfile(ctx, senderID); err == nil {
			title = sender.DisplayName
		}

		var g errgroup.Group
		for _, token := range tokens {
			token := token
			g.Go(func() error {
				ok := uc.notifier.Send(ctx, service.PushMessage{
					To:    token,
					Sound: "default",
					Title: title,
					Body:  text,
					Data:  map[string]string{"someData": "chat message"},
				})
				if !ok {
					log.Printf("Push: notification to %s was not delivered", receiverID)
				}
				return nil
			})
		}
		g.Wait()
	}()
}

// Wait blocks until every background push has finished.
func (uc *ChatUseCase) Wait() {
	uc.pushes.Wait()
}

// OpenChat resets the viewer's own unread counter.
func (uc *ChatUseCase) OpenChat(ctx context.Context, viewerID, chatID string) error {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return err
	}
	side, err := uc.sideOf(ctx, chat, viewerID)
	if err != nil {
		return err
	}
	return uc.unread.BumpUnread(ctx, chatID, side.Field(), 0)
}

// canView allows participants of an existing chat, and the user a not yet
// provisioned canonical chat id belongs to.
func (uc *ChatUseCase) canView(ctx context.Context, viewerID, chatID string) error {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		if errors.IsNotFound(err) {
			if strings.HasPrefix(chatID, viewerID+"-") {
				return nil
			}
			return errors.Forbidden("You are not a participant in this chat", nil)
		}
		return err
	}
	_, err = uc.sideOf(ctx, chat, viewerID)
	return err
}

// SubscribeToMessages delivers the full ordered message list of chatID on
// every change. A chat that does not exist yet first delivers an empty list.
func (uc *ChatUseCase) SubscribeToMessages(ctx context.Context, chatID string, onUpdate func([]*entity.Message)) (*subscription.Subscription, error) {
	if chatID == "" {
		return nil, errors.Validation("Chat ID is required")
	}
	return uc.chatRepo.WatchMessages(ctx, chatID, onUpdate), nil
}

// WatchChatAs is SubscribeToMessages for a caller that must be allowed to read the chat.
func (uc *ChatUseCase) WatchChatAs(ctx context.Context, viewerID, chatID string, onUpdate func([]*entity.Message)) (*subscription.Subscription, error) {
	if chatID == "" {
		return nil, errors.Validation("Chat ID is required")
	}
	if err := uc.canView(ctx, viewerID, chatID); err != nil {
		return nil, err
	}
	return uc.SubscribeToMessages(ctx, chatID, onUpdate)
}

func (uc *ChatUseCase) GetChatMessages(ctx context.Context, viewerID, chatID string) ([]*entity.Message, error) {
	if err := uc.canView(ctx, viewerID, chatID); err != nil {
		return nil, err
	}
	return uc.chatRepo.ListMessages(ctx, chatID)
}

func (uc *ChatUseCase) SubscribeToUserChats(ctx context.Context, uid string, onUpdate func([]*entity.Chat)) *subscription.Subscription {
	return uc.chatRepo.WatchByUser(ctx, uid, onUpdate)
}

func (uc *ChatUseCase) SubscribeToPymeChats(ctx context.Context, businessID string, onUpdate func([]*entity.Chat)) *subscription.Subscription {
	return uc.chatRepo.WatchByPyme(ctx, businessID, onUpdate)
}

// chatList keeps chats that have a last message, newest first.
func chatList(userChats, pymeChats []*entity.Chat) []*entity.ChatListItem {
	items := make([]*entity.ChatListItem, 0, len(userChats)+len(pymeChats))
	add := func(chats []*entity.Chat, role entity.UnreadRole) {
		for _, chat := range chats {
			if !chat.HasLastMessage() {
				continue
			}
			items = append(items, &entity.ChatListItem{Chat: chat, Role: role, Unread: chat.Unread(role)})
		}
	}
	add(userChats, entity.UnreadRoleUser)
	add(pymeChats, entity.UnreadRolePyme)

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].LastMessageAt.After(items[j].LastMessageAt)
	})
	return items
}

// GetUserChats returns the chat list of uid for both roles.
func (uc *ChatUseCase) GetUserChats(ctx context.Context, uid string) ([]*entity.ChatListItem, error) {
	userChats, err := uc.chatRepo.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	var pymeChats []*entity.Chat
	if businessID := uc.users.resolveBusinessOrEmpty(ctx, uid); businessID != "" {
		pymeChats, err = uc.chatRepo.ListByPyme(ctx, businessID)
		if err != nil {
			return nil, err
		}
	}
	return chatList(userChats, pymeChats), nil
}

// SubscribeToChatList is the live form of GetUserChats.
func (uc *ChatUseCase) SubscribeToChatList(ctx context.Context, uid string, onUpdate func([]*entity.ChatListItem)) *subscription.Subscription {
	businessID := uc.users.resolveBusinessOrEmpty(ctx, uid)

	var (
		mu        sync.Mutex
		userChats []*entity.Chat
		pymeChats []*entity.Chat
	)
	report := func(update func()) {
		mu.Lock()
		defer mu.Unlock()
		update()
		onUpdate(chatList(userChats, pymeChats))
	}

	subs := []*subscription.Subscription{
		uc.SubscribeToUserChats(ctx, uid, func(chats []*entity.Chat) {
			report(func() { userChats = chats })
		}),
	}
	if businessID != "" {
		subs = append(subs, uc.SubscribeToPymeChats(ctx, businessID, func(chats []*entity.Chat) {
			report(func() { pymeChats = chats })
		}))
	}
	return subscription.Join(subs...)
}
