package repository

import (
	"context"

	"swapi/internal/domain/entity"
)

type UserRepository interface {
	// Create appends user to the user list. It fails with a DUPLICATE_EMAIL
	// error if the email is already registered.
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	// Modify applies fn to the stored user and persists the result.
	Modify(ctx context.Context, id string, fn func(user *entity.User)) (*entity.User, error)
}

// SessionRepository persists the single signed-in user of this client.
type SessionRepository interface {
	// Load returns nil without error when nobody is signed in.
	Load(ctx context.Context) (*entity.User, error)
	Save(ctx context.Context, user *entity.User) error
	Clear(ctx context.Context) error
	Exists(ctx context.Context) (bool, error)
}
