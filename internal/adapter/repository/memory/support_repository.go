package memory

import (
	"context"
	"sort"

	"ikam/internal/domain/entity"
	"ikam/internal/domain/repository"
	"ikam/pkg/subscription"
)

type supportRepository struct {
	store *Store
}

func NewSupportRepository(store *Store) repository.SupportRepository {
	return &supportRepository{store: store}
}

func (r *supportRepository) AddQuestion(ctx context.Context, question *entity.Question) error {
	return r.store.write(func() error {
		r.store.questions[question.ID] = copyOf(question)
		return nil
	})
}

// newestFirst matches the created_time descending order of the hosted store.
func (r *supportRepository) newestFirst() []*entity.Question {
	questions := sortedValues(r.store.questions)
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].CreatedAt.After(questions[j].CreatedAt)
	})
	return questions
}

func (r *supportRepository) ListQuestions(ctx context.Context) ([]*entity.Question, error) {
	var questions []*entity.Question
	r.store.read(func() { questions = r.newestFirst() })
	return questions, nil
}

func (r *supportRepository) WatchQuestions(ctx context.Context, onUpdate func([]*entity.Question)) *subscription.Subscription {
	return watch(r.store, ctx, "preguntas", r.newestFirst, onUpdate)
}

func (r *supportRepository) AddTicket(ctx context.Context, ticket *entity.SupportTicket) error {
	return r.store.write(func() error {
		r.store.tickets[ticket.ID] = copyOf(ticket)
		return nil
	})
}
