package repository

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"

	"ikam/internal/domain/entity"
	"ikam/internal/domain/repository"
	"ikam/pkg/errors"
	"ikam/pkg/subscription"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) chats() *firestore.CollectionRef {
	return r.client.Collection(chatCollection)
}

func (r *firestoreChatRepository) messages(chatID string) *firestore.CollectionRef {
	return r.chats().Doc(chatID).Collection(messageCollection)
}

func chatFromDoc(doc *firestore.DocumentSnapshot) (*entity.Chat, error) {
	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, err
	}
	chat.ID = doc.Ref.ID
	return &chat, nil
}

func messageFromDoc(doc *firestore.DocumentSnapshot) (*entity.Message, error) {
	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, err
	}
	message.ID = doc.Ref.ID
	message.ChatID = doc.Ref.Parent.Parent.ID
	return &message, nil
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	doc, err := r.chats().Doc(id).Get(ctx)
	if err != nil {
		if IsNotFound(err) {
			return nil, errors.NotFound("Chat", nil)
		}
		return nil, errors.Internal("Failed to get chat", err)
	}

	chat, err := chatFromDoc(doc)
	if err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}
	return chat, nil
}

func (r *firestoreChatRepository) CreateIfAbsent(ctx context.Context, chat *entity.Chat) (bool, error) {
	_, err := r.chats().Doc(chat.ID).Create(ctx, chat)
	if err != nil {
		if IsAlreadyExists(err) {
			return false, nil
		}
		return false, errors.Internal("Failed to create chat", err)
	}
	return true, nil
}

func (r *firestoreChatRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Chat, error) {
	chats, err := queryAll(ctx, r.chats().Where("idUser", "==", userID), chatFromDoc)
	if err != nil {
		log.Printf("Firestore error while fetching chats for user %s: %v", userID, err)
		return nil, errors.Internal("Failed to fetch chats", err)
	}
	return chats, nil
}

func (r *firestoreChatRepository) ListByPyme(ctx context.Context, pymeID string) ([]*entity.Chat, error) {
	chats, err := queryAll(ctx, r.chats().Where("idPyme", "==", pymeID), chatFromDoc)
	if err != nil {
		log.Printf("Firestore error while fetching chats for pyme %s: %v", pymeID, err)
		return nil, errors.Internal("Failed to fetch chats", err)
	}
	return chats, nil
}

func (r *firestoreChatRepository) WatchByUser(ctx context.Context, userID string, onUpdate func([]*entity.Chat)) *subscription.Subscription {
	return watchQuery(ctx, "chats:user:"+userID, r.chats().Where("idUser", "==", userID), chatFromDoc, onUpdate)
}

func (r *firestoreChatRepository) WatchByPyme(ctx context.Context, pymeID string, onUpdate func([]*entity.Chat)) *subscription.Subscription {
	return watchQuery(ctx, "chats:pyme:"+pymeID, r.chats().Where("idPyme", "==", pymeID), chatFromDoc, onUpdate)
}

func (r *firestoreChatRepository) ClaimDefaultMessage(ctx context.Context, chatID string) (bool, error) {
	ref := r.chats().Doc(chatID)
	claimed := false

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		claimed = false
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		sent, err := doc.DataAt("mensajeEnviado")
		if err == nil {
			if done, ok := sent.(bool); ok && done {
				return nil
			}
		}
		claimed = true
		return tx.Update(ref, []firestore.Update{{Path: "mensajeEnviado", Value: true}})
	})
	if err != nil {
		if IsNotFound(err) {
			return false, errors.NotFound("Chat", err)
		}
		return false, errors.Internal("Failed to claim default message", err)
	}
	return claimed, nil
}

func (r *firestoreChatRepository) ReleaseDefaultMessage(ctx context.Context, chatID string) error {
	_, err := r.chats().Doc(chatID).Update(ctx, []firestore.Update{{Path: "mensajeEnviado", Value: false}})
	if err != nil {
		if IsNotFound(err) {
			return errors.NotFound("Chat", err)
		}
		return errors.Internal("Failed to release default message", err)
	}
	return nil
}

func (r *firestoreChatRepository) IncrementUnread(ctx context.Context, chatID string, role entity.UnreadRole) error {
	_, err := r.chats().Doc(chatID).Update(ctx, []firestore.Update{{Path: role.Field(), Value: firestore.Increment(1)}})
	if err != nil {
		if IsNotFound(err) {
			return errors.NotFound("Chat", err)
		}
		return errors.Internal("Failed to increment unread count", err)
	}
	return nil
}

func (r *firestoreChatRepository) ResetUnread(ctx context.Context, chatID string, role entity.UnreadRole) error {
	_, err := r.chats().Doc(chatID).Update(ctx, []firestore.Update{{Path: role.Field(), Value: 0}})
	if err != nil {
		if IsNotFound(err) {
			return errors.NotFound("Chat", err)
		}
		return errors.Internal("Failed to reset unread count", err)
	}
	return nil
}

func (r *firestoreChatRepository) UpdateSummary(ctx context.Context, chatID string, summary entity.ChatSummary) error {
	_, err := r.chats().Doc(chatID).Update(ctx, []firestore.Update{
		{Path: "ultimoMensaje", Value: summary.LastMessage},
		{Path: "hora", Value: summary.LastMessageAt},
		{Path: "user", Value: summary.LastSenderID},
	})
	if err != nil {
		if IsNotFound(err) {
			return errors.NotFound("Chat", err)
		}
		return errors.Internal("Failed to update chat summary", err)
	}
	return nil
}

func (r *firestoreChatRepository) AppendMessage(ctx context.Context, message *entity.Message) error {
	_, err := r.messages(message.ChatID).Doc(message.ID).Create(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}
	return nil
}

func (r *firestoreChatRepository) AppendMessageAndBump(ctx context.Context, message *entity.Message, role entity.UnreadRole) error {
	batch := r.client.Batch()
	batch.Create(r.messages(message.ChatID).Doc(message.ID), message)
	batch.Update(r.chats().Doc(message.ChatID), []firestore.Update{{Path: role.Field(), Value: firestore.Increment(1)}})
	if _, err := batch.Commit(ctx); err != nil {
		if IsNotFound(err) {
			return errors.NotFound("Chat", err)
		}
		return errors.Internal("Failed to send message", err)
	}
	return nil
}

func (r *firestoreChatRepository) ListMessages(ctx context.Context, chatID string) ([]*entity.Message, error) {
	messages, err := queryAll(ctx, r.messages(chatID).OrderBy("timestamp", firestore.Asc), messageFromDoc)
	if err != nil {
		log.Printf("Firestore error while fetching messages for chat %s: %v", chatID, err)
		return nil, errors.Internal("Failed to fetch messages", err)
	}
	return messages, nil
}

func (r *firestoreChatRepository) WatchMessages(ctx context.Context, chatID string, onUpdate func([]*entity.Message)) *subscription.Subscription {
	q := r.messages(chatID).OrderBy("timestamp", firestore.Asc)
	return watchQuery(ctx, "messages:"+chatID, q, messageFromDoc, onUpdate)
}
