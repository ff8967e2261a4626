package repository

import (
	"context"

	"ikam/internal/domain/entity"
	"ikam/pkg/subscription"
)

type SupportRepository interface {
	AddQuestion(ctx context.Context, question *entity.Question) error
	ListQuestions(ctx context.Context) ([]*entity.Question, error)
	WatchQuestions(ctx context.Context, onUpdate func([]*entity.Question)) *subscription.Subscription
	AddTicket(ctx context.Context, ticket *entity.SupportTicket) error
}
