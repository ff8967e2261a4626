package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"ikam/internal/domain/entity"
	"ikam/internal/domain/repository"
	"ikam/pkg/errors"
	"ikam/pkg/subscription"
)

type firestoreCatalogRepository struct {
	client *firestore.Client
}

func NewFirestoreCatalogRepository(client *firestore.Client) repository.CatalogRepository {
	return &firestoreCatalogRepository{client: client}
}

func categoriaFromDoc(doc *firestore.DocumentSnapshot) (*entity.Categoria, error) {
	var c entity.Categoria
	if err := doc.DataTo(&c); err != nil {
		return nil, err
	}
	c.ID = doc.Ref.ID
	return &c, nil
}

func subCategoriaFromDoc(doc *firestore.DocumentSnapshot) (*entity.SubCategoria, error) {
	var s entity.SubCategoria
	if err := doc.DataTo(&s); err != nil {
		return nil, err
	}
	s.ID = doc.Ref.ID
	return &s, nil
}

func coloniaFromDoc(doc *firestore.DocumentSnapshot) (*entity.Colonia, error) {
	var c entity.Colonia
	if err := doc.DataTo(&c); err != nil {
		return nil, err
	}
	c.ID = doc.Ref.ID
	return &c, nil
}

func (r *firestoreCatalogRepository) collection(name string) firestore.Query {
	return r.client.Collection(name).Query
}

func (r *firestoreCatalogRepository) ListCategorias(ctx context.Context) ([]*entity.Categoria, error) {
	items, err := queryAll(ctx, r.collection(categoriaCollection), categoriaFromDoc)
	if err != nil {
		return nil, errors.Internal("Failed to fetch categorias", err)
	}
	return items, nil
}

func (r *firestoreCatalogRepository) ListSubCategorias(ctx context.Context) ([]*entity.SubCategoria, error) {
	items, err := queryAll(ctx, r.collection(subCategoriaCollection), subCategoriaFromDoc)
	if err != nil {
		return nil, errors.Internal("Failed to fetch subcategorias", err)
	}
	return items, nil
}

func (r *firestoreCatalogRepository) ListColonias(ctx context.Context) ([]*entity.Colonia, error) {
	items, err := queryAll(ctx, r.collection(coloniaCollection), coloniaFromDoc)
	if err != nil {
		return nil, errors.Internal("Failed to fetch colonias", err)
	}
	return items, nil
}

func (r *firestoreCatalogRepository) WatchCategorias(ctx context.Context, onUpdate func([]*entity.Categoria)) *subscription.Subscription {
	return watchQuery(ctx, categoriaCollection, r.collection(categoriaCollection), categoriaFromDoc, onUpdate)
}

func (r *firestoreCatalogRepository) WatchSubCategorias(ctx context.Context, onUpdate func([]*entity.SubCategoria)) *subscription.Subscription {
	return watchQuery(ctx, subCategoriaCollection, r.collection(subCategoriaCollection), subCategoriaFromDoc, onUpdate)
}

func (r *firestoreCatalogRepository) WatchColonias(ctx context.Context, onUpdate func([]*entity.Colonia)) *subscription.Subscription {
	return watchQuery(ctx, coloniaCollection, r.collection(coloniaCollection), coloniaFromDoc, onUpdate)
}
