package usecase

import (
	"context"
	"log"

	"ikam/internal/domain/entity"
	"ikam/internal/domain/repository"
	"ikam/internal/domain/service"
	"ikam/pkg/errors"
	"ikam/pkg/subscription"
)

type UserUseCase struct {
	userRepo     repository.UserRepository
	profileCache service.ProfileCache
}

func NewUserUseCase(userRepo repository.UserRepository, profileCache service.ProfileCache) *UserUseCase {
	return &UserUseCase{
		userRepo:     userRepo,
		profileCache: profileCache,
	}
}

// ResolveBusinessOwner returns the pyme run by userID, or "" when the account is
// missing or is not flagged as a business owner.
func (uc *UserUseCase) ResolveBusinessOwner(ctx context.Context, userID string) (string, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return user.BusinessID(), nil
}

// resolveBusinessOrEmpty degrades lookup failures to "not a business owner".
func (uc *UserUseCase) resolveBusinessOrEmpty(ctx context.Context, userID string) string {
	businessID, err := uc.ResolveBusinessOwner(ctx, userID)
	if err != nil {
		log.Printf("ResolveBusinessOwner Error: user %s: %v", userID, err)
		return ""
	}
	return businessID
}

func (uc *UserUseCase) GetProfile(ctx context.Context, uid string) (*entity.UserProfile, error) {
	return uc.userRepo.GetByID(ctx, uid)
}

// FindPymeOwner returns the account that runs pymeID.
func (uc *UserUseCase) FindPymeOwner(ctx context.Context, pymeID string) (*entity.UserProfile, error) {
	return uc.userRepo.FindByPyme(ctx, pymeID)
}

// GetReceiverTokens finds the account whose id is id, or failing that the
// account whose pyme is id, and returns its push tokens.
func (uc *UserUseCase) GetReceiverTokens(ctx context.Context, id string) ([]string, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if errors.IsNotFound(err) {
		user, err = uc.userRepo.FindByPyme(ctx, id)
	}
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return user.Tokens, nil
}

// ListenToUserChanges mirrors users/{uid} into the profile cache before handing
// each snapshot to onProfile.
func (uc *UserUseCase) ListenToUserChanges(ctx context.Context, uid string, onProfile func(*entity.UserProfile)) *subscription.Subscription {
	return uc.userRepo.Watch(ctx, uid, func(profile *entity.UserProfile) {
		profile.UID = uid
		if err := uc.profileCache.Put(ctx, profile); err != nil {
			log.Printf("ListenToUserChanges: failed to cache profile %s: %v", uid, err)
		}
		onProfile(profile)
	})
}

func (uc *UserUseCase) GetCachedProfile(ctx context.Context, uid string) (*entity.UserProfile, error) {
	return uc.profileCache.Get(ctx, uid)
}

// GetProfileFast serves the mirror when present and falls back to the store.
func (uc *UserUseCase) GetProfileFast(ctx context.Context, uid string) (*entity.UserProfile, error) {
	profile, err := uc.profileCache.Get(ctx, uid)
	if err == nil {
		return profile, nil
	}
	if !errors.IsNotFound(err) {
		log.Printf("GetProfileFast: cache read failed for %s: %v", uid, err)
	}

	profile, err = uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := uc.profileCache.Put(ctx, profile); err != nil {
		log.Printf("GetProfileFast: failed to cache profile %s: %v", uid, err)
	}
	return profile, nil
}
