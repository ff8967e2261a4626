package memory

import (
	"context"

	"ikam/internal/domain/entity"
	"ikam/internal/domain/repository"
	"ikam/pkg/errors"
	"ikam/pkg/subscription"
)

type pymeRepository struct {
	store *Store
}

func NewPymeRepository(store *Store) repository.PymeRepository {
	return &pymeRepository{store: store}
}

func (r *pymeRepository) GetByID(ctx context.Context, id string) (*entity.Pyme, error) {
	var pyme *entity.Pyme
	r.store.read(func() {
		if p, ok := r.store.pymes[id]; ok {
			pyme = copyOf(p)
		}
	})
	if pyme == nil {
		return nil, errors.NotFound("Pyme", nil)
	}
	return pyme, nil
}

// GetMany silently omits ids that do not exist.
func (r *pymeRepository) GetMany(ctx context.Context, ids []string) ([]*entity.Pyme, error) {
	pymes := make([]*entity.Pyme, 0, len(ids))
	r.store.read(func() {
		for _, id := range ids {
			if p, ok := r.store.pymes[id]; ok {
				pymes = append(pymes, copyOf(p))
			}
		}
	})
	return pymes, nil
}

func (r *pymeRepository) List(ctx context.Context) ([]*entity.Pyme, error) {
	var pymes []*entity.Pyme
	r.store.read(func() { pymes = sortedValues(r.store.pymes) })
	return pymes, nil
}

func (r *pymeRepository) Watch(ctx context.Context, onUpdate func([]*entity.Pyme)) *subscription.Subscription {
	view := func() []*entity.Pyme { return sortedValues(r.store.pymes) }
	return watch(r.store, ctx, "pymes", view, onUpdate)
}
