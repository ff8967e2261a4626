package memory

import (
	"context"

	"ikam/internal/domain/entity"
	"ikam/internal/domain/repository"
	"ikam/pkg/subscription"
)

type catalogRepository struct {
	store *Store
}

func NewCatalogRepository(store *Store) repository.CatalogRepository {
	return &catalogRepository{store: store}
}

func (r *catalogRepository) ListCategorias(ctx context.Context) ([]*entity.Categoria, error) {
	var items []*entity.Categoria
	r.store.read(func() { items = sortedValues(r.store.categorias) })
	return items, nil
}

func (r *catalogRepository) ListSubCategorias(ctx context.Context) ([]*entity.SubCategoria, error) {
	var items []*entity.SubCategoria
	r.store.read(func() { items = sortedValues(r.store.subCategorias) })
	return items, nil
}

func (r *catalogRepository) ListColonias(ctx context.Context) ([]*entity.Colonia, error) {
	var items []*entity.Colonia
	r.store.read(func() { items = sortedValues(r.store.colonias) })
	return items, nil
}

func (r *catalogRepository) WatchCategorias(ctx context.Context, onUpdate func([]*entity.Categoria)) *subscription.Subscription {
	return watch(r.store, ctx, "categoria", func() []*entity.Categoria { return sortedValues(r.store.categorias) }, onUpdate)
}

func (r *catalogRepository) WatchSubCategorias(ctx context.Context, onUpdate func([]*entity.SubCategoria)) *subscription.Subscription {
	return watch(r.store, ctx, "subCategoria", func() []*entity.SubCategoria { return sortedValues(r.store.subCategorias) }, onUpdate)
}

func (r *catalogRepository) WatchColonias(ctx context.Context, onUpdate func([]*entity.Colonia)) *subscription.Subscription {
	return watch(r.store, ctx, "colonia", func() []*entity.Colonia { return sortedValues(r.store.colonias) }, onUpdate)
}
