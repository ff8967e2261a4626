package repository

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"

	"ikam/internal/domain/entity"
	"ikam/internal/domain/repository"
	"ikam/pkg/errors"
	"ikam/pkg/subscription"
)

type firestoreFavoriteRepository struct {
	client *firestore.Client
}

func NewFirestoreFavoriteRepository(client *firestore.Client) repository.FavoriteRepository {
	return &firestoreFavoriteRepository{client: client}
}

func favoriteFromDoc(doc *firestore.DocumentSnapshot) (*entity.Favorite, error) {
	var favorite entity.Favorite
	if err := doc.DataTo(&favorite); err != nil {
		return nil, err
	}
	favorite.ID = doc.Ref.ID
	return &favorite, nil
}

func (r *firestoreFavoriteRepository) Add(ctx context.Context, favorite *entity.Favorite) error {
	if favorite.ID == "" {
		favorite.ID = entity.FavoriteID(favorite.UserID, favorite.PymeID)
	}

	_, err := r.client.Collection(likeCollection).Doc(favorite.ID).Create(ctx, favorite)
	if err != nil {
		if IsAlreadyExists(err) {
			return errors.Conflict("Pyme already in favorites")
		}
		return errors.Internal("Failed to add favorite", err)
	}

	log.Printf("Added pyme %s to favorites for user %s", favorite.PymeID, favorite.UserID)
	return nil
}

func (r *firestoreFavoriteRepository) Remove(ctx context.Context, userID, pymeID string) error {
	exists, err := r.Exists(ctx, userID, pymeID)
	if err != nil {
		return err
	}
	if !exists {
		return errors.NotFound("Favorite", nil)
	}

	_, err = r.client.Collection(likeCollection).Doc(entity.FavoriteID(userID, pymeID)).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to remove favorite", err)
	}

	log.Printf("Removed pyme %s from favorites for user %s", pymeID, userID)
	return nil
}

func (r *firestoreFavoriteRepository) Exists(ctx context.Context, userID, pymeID string) (bool, error) {
	doc, err := r.client.Collection(likeCollection).Doc(entity.FavoriteID(userID, pymeID)).Get(ctx)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, errors.Internal("Failed to check favorites", err)
	}
	return doc.Exists(), nil
}

func (r *firestoreFavoriteRepository) byUser(userID string) firestore.Query {
	return r.client.Collection(likeCollection).Where("userId", "==", userID)
}

func (r *firestoreFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Favorite, error) {
	favorites, err := queryAll(ctx, r.byUser(userID), favoriteFromDoc)
	if err != nil {
		return nil, errors.Internal("Failed to get favorites", err)
	}
	return favorites, nil
}

func (r *firestoreFavoriteRepository) WatchByUser(ctx context.Context, userID string, onUpdate func([]*entity.Favorite)) *subscription.Subscription {
	return watchQuery(ctx, "favorites:"+userID, r.byUser(userID), favoriteFromDoc, onUpdate)
}
