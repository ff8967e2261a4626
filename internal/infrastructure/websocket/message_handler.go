package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"ikam/internal/domain/entity"
	apperrors "ikam/pkg/errors"
	"ikam/pkg/subscription"
)

// WebSocket Message Types
const (
	MessageTypePing              = "ping"
	MessageTypePong              = "pong"
	MessageTypeSubscribeChat     = "subscribe_chat"
	MessageTypeUnsubscribeChat   = "unsubscribe_chat"
	MessageTypeSubscribeUnread   = "subscribe_unread"
	MessageTypeUnsubscribeUnread = "unsubscribe_unread"
	MessageTypeSubscribeChats    = "subscribe_chats"
	MessageTypeSubscribeCatalog  = "subscribe_catalog"
	MessageTypeSendMessage       = "send_message"
	MessageTypeOpenChat          = "open_chat"

	MessageTypeProfile     = "profile"
	MessageTypeMessages    = "messages"
	MessageTypeUnreadTotal = "unread_total"
	MessageTypeChats       = "chats"
	MessageTypeCatalog     = "catalog"
	MessageTypeError       = "error"
)

// ChatService is the chat side of the hub.
type ChatService interface {
	WatchChatAs(ctx context.Context, viewerID, chatID string, onUpdate func([]*entity.Message)) (*subscription.Subscription, error)
	SubscribeToChatList(ctx context.Context, uid string, onUpdate func([]*entity.ChatListItem)) *subscription.Subscription
	SendMessage(ctx context.Context, senderID, chatID, text string) (*entity.Message, error)
	OpenChat(ctx context.Context, viewerID, chatID string) error
}

type UnreadService interface {
	ObserveUnreadTotal(ctx context.Context, userID string, onTotal func(int)) (*subscription.Subscription, error)
}

type CatalogService interface {
	Subscribe(ctx context.Context, collection string, onUpdate func(interface{})) (*subscription.Subscription, error)
}

// ProfileService keeps the profile mirror of a connected user current.
type ProfileService interface {
	ListenToUserChanges(ctx context.Context, uid string, onProfile func(*entity.UserProfile)) *subscription.Subscription
}

type Services struct {
	Chats    ChatService
	Unread   UnreadService
	Catalog  CatalogService
	Profiles ProfileService
}

// WSMessage is the frame exchanged in both directions.
type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	ChatID    string      `json:"chat_id,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type inboundMessage struct {
	Type   string          `json:"type"`
	ChatID string          `json:"chat_id"`
	Data   json.RawMessage `json:"data"`
}

type SendMessageData struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"mensaje"`
}

type CatalogData struct {
	Collection string      `json:"collection"`
	Items      interface{} `json:"items,omitempty"`
}

type UnreadData struct {
	Total int `json:"total"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HandleClientMessage processes incoming WebSocket messages
func (m *Manager) HandleClientMessage(client *Client, messageBytes []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(messageBytes, &msg); err != nil {
		log.Printf("WebSocket: Failed to unmarshal message from client %s: %v", client.UserID, err)
		m.sendError(client, "", apperrors.BadRequest("Invalid message format", err))
		return
	}

	switch msg.Type {
	case MessageTypePing:
		m.sendToClient(client, WSMessage{Type: MessageTypePong, Data: map[string]string{"status": "alive"}})

	case MessageTypeSubscribeChat:
		m.handleSubscribeChat(client, m.chatIDOf(msg))

	case MessageTypeUnsubscribeChat:
		client.untrack("chat:" + m.chatIDOf(msg))

	case MessageTypeSubscribeUnread:
		m.handleSubscribeUnread(client)

	case MessageTypeUnsubscribeUnread:
		client.untrack("unread")

	case MessageTypeSubscribeChats:
		m.handleSubscribeChats(client)

	case MessageTypeSubscribeCatalog:
		var data CatalogData
		if len(msg.Data) > 0 {
			json.Unmarshal(msg.Data, &data)
		}
		m.handleSubscribeCatalog(client, data.Collection)

	case MessageTypeSendMessage:
		var data SendMessageData
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				m.sendError(client, msg.ChatID, apperrors.BadRequest("Invalid send message format", err))
				return
			}
		}
		if data.ChatID == "" {
			data.ChatID = msg.ChatID
		}
		m.handleSendMessage(client, data)

	case MessageTypeOpenChat:
		chatID := m.chatIDOf(msg)
		if err := m.services.Chats.OpenChat(m.ctx, client.UserID, chatID); err != nil {
			m.sendError(client, chatID, err)
		}

	default:
		log.Printf("WebSocket: Unknown message type '%s' from client %s", msg.Type, client.UserID)
		m.sendError(client, "", apperrors.BadRequest("Unknown message type", nil))
	}
}

// chatIDOf accepts the chat id either on the frame or inside data.
func (m *Manager) chatIDOf(msg inboundMessage) string {
	if msg.ChatID != "" {
		return msg.ChatID
	}
	var data struct {
		ChatID string `json:"chat_id"`
	}
	if len(msg.Data) > 0 {
		json.Unmarshal(msg.Data, &data)
	}
	return data.ChatID
}

func (m *Manager) handleSubscribeChat(client *Client, chatID string) {
	sub, err := m.services.Chats.WatchChatAs(m.ctx, client.UserID, chatID, func(messages []*entity.Message) {
		m.sendToClient(client, WSMessage{Type: MessageTypeMessages, ChatID: chatID, Data: messages})
	})
	if err != nil {
		m.sendError(client, chatID, err)
		return
	}
	m.watch(client, "chat:"+chatID, chatID, sub)
	log.Printf("WebSocket: Client %s subscribed to chat %s", client.UserID, chatID)
}

// handleSubscribeProfile runs for every registered connection: each change to
// users/{uid} rewrites the profile mirror and is pushed to the client.
func (m *Manager) handleSubscribeProfile(client *Client) {
	if m.services.Profiles == nil {
		return
	}
	sub := m.services.Profiles.ListenToUserChanges(m.ctx, client.UserID, func(profile *entity.UserProfile) {
		m.sendToClient(client, WSMessage{Type: MessageTypeProfile, Data: profile})
	})
	m.watch(client, "profile", "", sub)
}

func (m *Manager) handleSubscribeUnread(client *Client) {
	sub, err := m.services.Unread.ObserveUnreadTotal(m.ctx, client.UserID, func(total int) {
		m.sendToClient(client, WSMessage{Type: MessageTypeUnreadTotal, Data: UnreadData{Total: total}})
	})
	if err != nil {
		m.sendError(client, "", err)
		return
	}
	m.watch(client, "unread", "", sub)
}

func (m *Manager) handleSubscribeChats(client *Client) {
	sub := m.services.Chats.SubscribeToChatList(m.ctx, client.UserID, func(items []*entity.ChatListItem) {
		m.sendToClient(client, WSMessage{Type: MessageTypeChats, Data: items})
	})
	m.watch(client, "chats", "", sub)
}

func (m *Manager) handleSubscribeCatalog(client *Client, collection string) {
	sub, err := m.services.Catalog.Subscribe(m.ctx, collection, func(items interface{}) {
		m.sendToClient(client, WSMessage{Type: MessageTypeCatalog, Data: CatalogData{Collection: collection, Items: items}})
	})
	if err != nil {
		m.sendError(client, "", err)
		return
	}
	m.watch(client, "catalog:"+collection, "", sub)
}

func (m *Manager) handleSendMessage(client *Client, data SendMessageData) {
	message, err := m.services.Chats.SendMessage(m.ctx, client.UserID, data.ChatID, data.Text)
	if err != nil {
		m.sendError(client, data.ChatID, err)
		return
	}
	log.Printf("WebSocket: Message %s sent from %s to chat %s", message.ID, client.UserID, data.ChatID)
}

// watch tracks sub on the client and reports a listener failure to it.
func (m *Manager) watch(client *Client, key, chatID string, sub *subscription.Subscription) {
	client.track(key, sub)
	go func() {
		<-sub.Done()
		if err := sub.Err(); err != nil {
			m.sendError(client, chatID, apperrors.New("SUBSCRIPTION_FAILED", "Live updates stopped for "+key, http.StatusServiceUnavailable, err))
		}
	}()
}

func (m *Manager) sendToClient(client *Client, message WSMessage) {
	message.Timestamp = time.Now().Format(time.RFC3339)
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("WebSocket: Failed to marshal %s frame: %v", message.Type, err)
		return
	}
	client.trySend(data)
}

func (m *Manager) sendError(client *Client, chatID string, err error) {
	data := ErrorData{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		data = ErrorData{Code: appErr.Code, Message: appErr.Message}
	}
	m.sendToClient(client, WSMessage{Type: MessageTypeError, ChatID: chatID, Data: data})
}
