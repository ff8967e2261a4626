package memory

import (
	"context"

	"ikam/internal/domain/entity"
	"ikam/internal/domain/repository"
	"ikam/pkg/errors"
	"ikam/pkg/subscription"
)

type favoriteRepository struct {
	store *Store
}

func NewFavoriteRepository(store *Store) repository.FavoriteRepository {
	return &favoriteRepository{store: store}
}

func (r *favoriteRepository) Add(ctx context.Context, favorite *entity.Favorite) error {
	if favorite.ID == "" {
		favorite.ID = entity.FavoriteID(favorite.UserID, favorite.PymeID)
	}
	return r.store.write(func() error {
		if _, ok := r.store.favorites[favorite.ID]; ok {
			return errors.Conflict("Pyme already in favorites")
		}
		r.store.favorites[favorite.ID] = copyOf(favorite)
		return nil
	})
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, pymeID string) error {
	id := entity.FavoriteID(userID, pymeID)
	return r.store.write(func() error {
		if _, ok := r.store.favorites[id]; !ok {
			return errors.NotFound("Favorite", nil)
		}
		delete(r.store.favorites, id)
		return nil
	})
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, pymeID string) (bool, error) {
	exists := false
	r.store.read(func() {
		_, exists = r.store.favorites[entity.FavoriteID(userID, pymeID)]
	})
	return exists, nil
}

func (r *favoriteRepository) byUser(userID string) []*entity.Favorite {
	favorites := make([]*entity.Favorite, 0)
	for _, f := range sortedValues(r.store.favorites) {
		if f.UserID == userID {
			favorites = append(favorites, f)
		}
	}
	return favorites
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Favorite, error) {
	var favorites []*entity.Favorite
	r.store.read(func() { favorites = r.byUser(userID) })
	return favorites, nil
}

func (r *favoriteRepository) WatchByUser(ctx context.Context, userID string, onUpdate func([]*entity.Favorite)) *subscription.Subscription {
	return watch(r.store, ctx, "favorites:"+userID, func() []*entity.Favorite { return r.byUser(userID) }, onUpdate)
}
