package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"ikam/internal/domain/entity"
	"ikam/internal/domain/repository"
	"ikam/pkg/errors"
	"ikam/pkg/subscription"
)

// Collections a client can subscribe to through the catalog.
const (
	CollectionPymes         = "pyme"
	CollectionCategorias    = "categoria"
	CollectionSubCategorias = "subCategoria"
	CollectionColonias      = "colonia"
	CollectionPreguntas     = "preguntas"
)

type CatalogUseCase struct {
	catalogRepo repository.CatalogRepository
	pymeRepo    repository.PymeRepository
	supportRepo repository.SupportRepository
}

func NewCatalogUseCase(
	catalogRepo repository.CatalogRepository,
	pymeRepo repository.PymeRepository,
	supportRepo repository.SupportRepository,
) *CatalogUseCase {
	return &CatalogUseCase{
		catalogRepo: catalogRepo,
		pymeRepo:    pymeRepo,
		supportRepo: supportRepo,
	}
}

type CatalogSnapshot struct {
	Pymes         []*entity.Pyme         `json:"pymes"`
	Categorias    []*entity.Categoria    `json:"categorias"`
	SubCategorias []*entity.SubCategoria `json:"subcategorias"`
	Colonias      []entity.ColoniaOption `json:"colonias"`
}

func coloniaOptions(colonias []*entity.Colonia) []entity.ColoniaOption {
	options := make([]entity.ColoniaOption, 0, len(colonias))
	for _, c := range colonias {
		options = append(options, c.Option())
	}
	return options
}

func (uc *CatalogUseCase) ListPymes(ctx context.Context) ([]*entity.Pyme, error) {
	return uc.pymeRepo.List(ctx)
}

func (uc *CatalogUseCase) GetPymeDetails(ctx context.Context, id string) (*entity.Pyme, error) {
	return uc.pymeRepo.GetByID(ctx, id)
}

func (uc *CatalogUseCase) ListCategorias(ctx context.Context) ([]*entity.Categoria, error) {
	return uc.catalogRepo.ListCategorias(ctx)
}

// ListSubCategorias optionally narrows the result to one categoria.
func (uc *CatalogUseCase) ListSubCategorias(ctx context.Context, categoriaID string) ([]*entity.SubCategoria, error) {
	all, err := uc.catalogRepo.ListSubCategorias(ctx)
	if err != nil || categoriaID == "" {
		return all, err
	}
	filtered := make([]*entity.SubCategoria, 0, len(all))
	for _, s := range all {
		if s.CategoryID == categoriaID {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

func (uc *CatalogUseCase) ListColonias(ctx context.Context) ([]entity.ColoniaOption, error) {
	colonias, err := uc.catalogRepo.ListColonias(ctx)
	if err != nil {
		return nil, err
	}
	return coloniaOptions(colonias), nil
}

// Bootstrap loads every catalog collection concurrently.
func (uc *CatalogUseCase) Bootstrap(ctx context.Context) (*CatalogSnapshot, error) {
	snapshot := &CatalogSnapshot{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snapshot.Pymes, err = uc.pymeRepo.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		snapshot.Categorias, err = uc.catalogRepo.ListCategorias(ctx)
		return err
	})
	g.Go(func() (err error) {
		snapshot.SubCategorias, err = uc.catalogRepo.ListSubCategorias(ctx)
		return err
	})
	g.Go(func() (err error) {
		snapshot.Colonias, err = uc.ListColonias(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Subscribe opens a full-snapshot listener on one catalog collection.
// Colonias are delivered as picker options.
func (uc *CatalogUseCase) Subscribe(ctx context.Context, collection string, onUpdate func(interface{})) (*subscription.Subscription, error) {
	switch collection {
	case CollectionPymes:
		return uc.pymeRepo.Watch(ctx, func(items []*entity.Pyme) { onUpdate(items) }), nil
	case CollectionCategorias:
		return uc.catalogRepo.WatchCategorias(ctx, func(items []*entity.Categoria) { onUpdate(items) }), nil
	case CollectionSubCategorias:
		return uc.catalogRepo.WatchSubCategorias(ctx, func(items []*entity.SubCategoria) { onUpdate(items) }), nil
	case CollectionColonias:
		return uc.catalogRepo.WatchColonias(ctx, func(items []*entity.Colonia) { onUpdate(coloniaOptions(items)) }), nil
	case CollectionPreguntas:
		return uc.supportRepo.WatchQuestions(ctx, func(items []*entity.Question) { onUpdate(items) }), nil
	default:
		return nil, errors.BadRequest("Unknown collection: "+collection, nil)
	}
}
