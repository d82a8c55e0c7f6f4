package service

import (
	"context"

	"github.com/Payphone-Digital/accounts/internal/model"
)

// Storage interfaces consumed by the services. The gorm repositories
// satisfy them in production; tests swap in in-memory fakes.

type UserStore interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListWithDetails(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uint) (int64, error)
}

type UserDetailsStore interface {
	Upsert(ctx context.Context, userID uint, address string) (*model.UserDetails, error)
	DeleteByUserID(ctx context.Context, userID uint) error
}

type TokenStore interface {
	Create(ctx context.Context, token *model.AuthToken) error
	GetByDigest(ctx context.Context, digest string) (*model.AuthToken, error)
	Touch(ctx context.Context, id uint) error
}
