package repository

import (
	"context"

	"ikam/internal/domain/entity"
	"ikam/pkg/subscription"
)

type CatalogRepository interface {
	ListCategorias(ctx context.Context) ([]*entity.Categoria, error)
	ListSubCategorias(ctx context.Context) ([]*entity.SubCategoria, error)
	ListColonias(ctx context.Context) ([]*entity.Colonia, error)

	WatchCategorias(ctx context.Context, onUpdate func([]*entity.Categoria)) *subscription.Subscription
	WatchSubCategorias(ctx context.Context, onUpdate func([]*entity.SubCategoria)) *subscription.Subscription
	WatchColonias(ctx context.Context, onUpdate func([]*entity.Colonia)) *subscription.Subscription
}
