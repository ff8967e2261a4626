package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"ikam/internal/domain/entity"
	"ikam/internal/domain/repository"
	"ikam/pkg/errors"
)

type SupportUseCase struct {
	supportRepo repository.SupportRepository
}

func NewSupportUseCase(supportRepo repository.SupportRepository) *SupportUseCase {
	return &SupportUseCase{supportRepo: supportRepo}
}

func (uc *SupportUseCase) AskQuestion(ctx context.Context, email, text string) (*entity.Question, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.Validation("Question cannot be empty")
	}

	question := &entity.Question{
		ID:        uuid.New().String(),
		Email:     email,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := uc.supportRepo.AddQuestion(ctx, question); err != nil {
		log.Printf("AskQuestion Error: %v", err)
		return nil, err
	}
	return question, nil
}

func (uc *SupportUseCase) ListQuestions(ctx context.Context) ([]*entity.Question, error) {
	return uc.supportRepo.ListQuestions(ctx)
}

func (uc *SupportUseCase) OpenSupportTicket(ctx context.Context, email, subject, message string) (*entity.SupportTicket, error) {
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(message) == "" {
		return nil, errors.Validation("Subject and message are required")
	}

	ticket := &entity.SupportTicket{
		ID:        uuid.New().String(),
		Email:     email,
		Subject:   subject,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := uc.supportRepo.AddTicket(ctx, ticket); err != nil {
		log.Printf("OpenSupportTicket Error: %v", err)
		return nil, err
	}
	return ticket, nil
}
