package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"ikam/internal/domain/entity"
	"ikam/internal/domain/repository"
	"ikam/pkg/errors"
	"ikam/pkg/subscription"
)

type firestoreSupportRepository struct {
	client *firestore.Client
}

func NewFirestoreSupportRepository(client *firestore.Client) repository.SupportRepository {
	return &firestoreSupportRepository{client: client}
}

func questionFromDoc(doc *firestore.DocumentSnapshot) (*entity.Question, error) {
	var q entity.Question
	if err := doc.DataTo(&q); err != nil {
		return nil, err
	}
	q.ID = doc.Ref.ID
	return &q, nil
}

func (r *firestoreSupportRepository) AddQuestion(ctx context.Context, question *entity.Question) error {
	_, err := r.client.Collection(questionCollection).Doc(question.ID).Set(ctx, question)
	if err != nil {
		return errors.Internal("Failed to save question", err)
	}
	return nil
}

func (r *firestoreSupportRepository) questions() firestore.Query {
	return r.client.Collection(questionCollection).OrderBy("created_time", firestore.Desc)
}

func (r *firestoreSupportRepository) ListQuestions(ctx context.Context) ([]*entity.Question, error) {
	questions, err := queryAll(ctx, r.questions(), questionFromDoc)
	if err != nil {
		return nil, errors.Internal("Failed to fetch questions", err)
	}
	return questions, nil
}

func (r *firestoreSupportRepository) WatchQuestions(ctx context.Context, onUpdate func([]*entity.Question)) *subscription.Subscription {
	return watchQuery(ctx, questionCollection, r.questions(), questionFromDoc, onUpdate)
}

func (r *firestoreSupportRepository) AddTicket(ctx context.Context, ticket *entity.SupportTicket) error {
	_, err := r.client.Collection(supportCollection).Doc(ticket.ID).Set(ctx, ticket)
	if err != nil {
		return errors.Internal("Failed to save support ticket", err)
	}
	return nil
}
