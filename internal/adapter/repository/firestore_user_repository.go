package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"ikam/internal/domain/entity"
	"ikam/internal/domain/repository"
	"ikam/pkg/errors"
	"ikam/pkg/subscription"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func userFromDoc(doc *firestore.DocumentSnapshot) (*entity.UserProfile, error) {
	var user entity.UserProfile
	if err := doc.DataTo(&user); err != nil {
		return nil, err
	}
	user.UID = doc.Ref.ID
	return &user, nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, uid string) (*entity.UserProfile, error) {
	doc, err := r.client.Collection(userCollection).Doc(uid).Get(ctx)
	if err != nil {
		if IsNotFound(err) {
			return nil, errors.NotFound("User", nil)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	user, err := userFromDoc(doc)
	if err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	return user, nil
}

func (r *firestoreUserRepository) FindByPyme(ctx context.Context, pymeID string) (*entity.UserProfile, error) {
	iter := r.client.Collection(userCollection).Where("pyme", "==", pymeID).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Pyme owner", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query users", err)
	}

	user, err := userFromDoc(doc)
	if err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	return user, nil
}

func (r *firestoreUserRepository) Watch(ctx context.Context, uid string, onUpdate func(*entity.UserProfile)) *subscription.Subscription {
	ref := r.client.Collection(userCollection).Doc(uid)

	open := func(ctx context.Context) (func() (*entity.UserProfile, error), func()) {
		it := ref.Snapshots(ctx)
		next := func() (*entity.UserProfile, error) {
			for {
				snap, err := it.Next()
				if err != nil {
					return nil, err
				}
				if !snap.Exists() {
					continue
				}
				return userFromDoc(snap)
			}
		}
		return next, it.Stop
	}
	return subscription.Start(ctx, "user:"+uid, open, onUpdate)
}
