package memory

import (
	"context"
	"sort"

	"ikam/internal/domain/entity"
	"ikam/internal/domain/repository"
	"ikam/pkg/errors"
	"ikam/pkg/subscription"
)

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) GetByID(ctx context.Context, uid string) (*entity.UserProfile, error) {
	var user *entity.UserProfile
	r.store.read(func() {
		if u, ok := r.store.users[uid]; ok {
			user = copyUser(u)
		}
	})
	if user == nil {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *userRepository) FindByPyme(ctx context.Context, pymeID string) (*entity.UserProfile, error) {
	var user *entity.UserProfile
	r.store.read(func() {
		uids := make([]string, 0, len(r.store.users))
		for uid := range r.store.users {
			uids = append(uids, uid)
		}
		sort.Strings(uids)
		for _, uid := range uids {
			if u := r.store.users[uid]; u.PymeID == pymeID {
				user = copyUser(u)
				return
			}
		}
	})
	if user == nil {
		return nil, errors.NotFound("Pyme owner", nil)
	}
	return user, nil
}

// Watch skips snapshots while the document does not exist.
func (r *userRepository) Watch(ctx context.Context, uid string, onUpdate func(*entity.UserProfile)) *subscription.Subscription {
	view := func() *entity.UserProfile {
		if u, ok := r.store.users[uid]; ok {
			return copyUser(u)
		}
		return nil
	}
	return watch(r.store, ctx, "user:"+uid, view, func(u *entity.UserProfile) {
		if u != nil {
			onUpdate(u)
		}
	})
}
