package service

import (
	"context"

	"ikam/internal/domain/entity"
)

// ProfileCache mirrors the signed-in user's profile for fast start. Entries are
// overwritten on change and never invalidated otherwise.
type ProfileCache interface {
	Put(ctx context.Context, profile *entity.UserProfile) error
	// Get fails with NOT_FOUND on a miss.
	Get(ctx context.Context, uid string) (*entity.UserProfile, error)
}
