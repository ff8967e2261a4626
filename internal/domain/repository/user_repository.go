package repository

import (
	"context"

	"ikam/internal/domain/entity"
	"ikam/pkg/subscription"
)

type UserRepository interface {
	GetByID(ctx context.Context, uid string) (*entity.UserProfile, error)
	// FindByPyme returns the first account whose "pyme" field references pymeID.
	FindByPyme(ctx context.Context, pymeID string) (*entity.UserProfile, error)
	// Watch delivers the profile on every change while the document exists.
	Watch(ctx context.Context, uid string, onUpdate func(*entity.UserProfile)) *subscription.Subscription
}
