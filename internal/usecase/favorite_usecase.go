package usecase

import (
	"context"
	"log"
	"sort"
	"time"

	"ikam/internal/domain/entity"
	"ikam/internal/domain/repository"
	"ikam/pkg/errors"
	"ikam/pkg/subscription"
)

type FavoriteUseCase struct {
	favoriteRepo repository.FavoriteRepository
	pymeRepo     repository.PymeRepository
}

func NewFavoriteUseCase(
	favoriteRepo repository.FavoriteRepository,
	pymeRepo repository.PymeRepository,
) *FavoriteUseCase {
	return &FavoriteUseCase{
		favoriteRepo: favoriteRepo,
		pymeRepo:     pymeRepo,
	}
}

func (u *FavoriteUseCase) AddFavorite(ctx context.Context, userID, pymeID string) (*entity.Favorite, error) {
	log.Printf("Adding pyme %s to favorites for user %s", pymeID, userID)

	if _, err := u.pymeRepo.GetByID(ctx, pymeID); err != nil {
		return nil, err
	}

	favorite := &entity.Favorite{
		ID:        entity.FavoriteID(userID, pymeID),
		UserID:    userID,
		PymeID:    pymeID,
		CreatedAt: time.Now(),
	}
	if err := u.favoriteRepo.Add(ctx, favorite); err != nil {
		return nil, err
	}
	return favorite, nil
}

func (u *FavoriteUseCase) RemoveFavorite(ctx context.Context, userID, pymeID string) error {
	log.Printf("Removing pyme %s from favorites for user %s", pymeID, userID)
	return u.favoriteRepo.Remove(ctx, userID, pymeID)
}

func (u *FavoriteUseCase) IsFavorite(ctx context.Context, userID, pymeID string) (bool, error) {
	return u.favoriteRepo.Exists(ctx, userID, pymeID)
}

// ListFavoritePymes returns the liked pymes, most recently liked first, and
// the total count before paging. Likes whose pyme no longer exists are skipped.
func (u *FavoriteUseCase) ListFavoritePymes(ctx context.Context, userID string, limit, offset int) ([]*entity.Pyme, int64, error) {
	favorites, err := u.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(favorites, func(i, j int) bool {
		return favorites[i].CreatedAt.After(favorites[j].CreatedAt)
	})

	ids := make([]string, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.PymeID)
	}
	if len(ids) == 0 {
		return []*entity.Pyme{}, 0, nil
	}

	found, err := u.pymeRepo.GetMany(ctx, ids)
	if err != nil {
		return nil, 0, errors.Internal("Failed to load favorite pymes", err)
	}
	byID := make(map[string]*entity.Pyme, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	pymes := make([]*entity.Pyme, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			pymes = append(pymes, p)
		}
	}

	total := int64(len(pymes))
	if offset >= len(pymes) {
		return []*entity.Pyme{}, total, nil
	}
	end := len(pymes)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return pymes[offset:end], total, nil
}

// SubscribeToFavorites delivers the set of liked pyme ids on every change.
func (u *FavoriteUseCase) SubscribeToFavorites(ctx context.Context, userID string, onUpdate func([]string)) *subscription.Subscription {
	return u.favoriteRepo.WatchByUser(ctx, userID, func(favorites []*entity.Favorite) {
		ids := make([]string, 0, len(favorites))
		for _, f := range favorites {
			ids = append(ids, f.PymeID)
		}
		sort.Strings(ids)
		onUpdate(ids)
	})
}
