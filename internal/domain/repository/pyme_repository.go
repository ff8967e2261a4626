package repository

import (
	"context"

	"ikam/internal/domain/entity"
	"ikam/pkg/subscription"
)

type PymeRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Pyme, error)
	GetMany(ctx context.Context, ids []string) ([]*entity.Pyme, error)
	List(ctx context.Context) ([]*entity.Pyme, error)
	Watch(ctx context.Context, onUpdate func([]*entity.Pyme)) *subscription.Subscription
}
