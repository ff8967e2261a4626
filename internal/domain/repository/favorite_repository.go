package repository

import (
	"context"

	"ikam/internal/domain/entity"
	"ikam/pkg/subscription"
)

type FavoriteRepository interface {
	// Add fails with CONFLICT when the pyme is already a favorite.
	Add(ctx context.Context, favorite *entity.Favorite) error
	// Remove fails with NOT_FOUND when the pyme is not a favorite.
	Remove(ctx context.Context, userID, pymeID string) error
	Exists(ctx context.Context, userID, pymeID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Favorite, error)
	WatchByUser(ctx context.Context, userID string, onUpdate func([]*entity.Favorite)) *subscription.Subscription
}
