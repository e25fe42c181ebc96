package repository

import (
	"context"

	"swapi/internal/domain/entity"
	"swapi/internal/domain/repository"
	"swapi/internal/infrastructure/kvstore"
	"swapi/internal/normalize"
	"swapi/pkg/errors"
)

const (
	usersKey       = "users"
	currentUserKey = "currentUser"
)

type kvUserRepository struct {
	users *kvstore.Collection[entity.User]
}

func NewKVUserRepository(store *kvstore.Store) repository.UserRepository {
	return &kvUserRepository{
		users: kvstore.NewCollection[entity.User](store, usersKey),
	}
}

func (r *kvUserRepository) Create(ctx context.Context, user *entity.User) error {
	_, err := r.users.Update(ctx, func(doc *kvstore.Document[entity.User]) (bool, error) {
		email := normalize.Email(user.Email)
		for _, existing := range doc.Items {
			if normalize.Email(existing.Email) == email {
				return false, errors.DuplicateEmail(user.Email)
			}
		}
		doc.Append(user.ID, *user)
		return true, nil
	})
	return err
}

func (r *kvUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.users.Load(ctx)
	if err != nil {
		return nil, err
	}

	user, ok := doc.Get(id)
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return &user, nil
}

func (r *kvUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	doc, err := r.users.Load(ctx)
	if err != nil {
		return nil, err
	}

	email = normalize.Email(email)
	for _, user := range doc.List() {
		if normalize.Email(user.Email) == email {
			user := user
			return &user, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *kvUserRepository) List(ctx context.Context) ([]*entity.User, error) {
	doc, err := r.users.Load(ctx)
	if err != nil {
		return nil, err
	}

	items := doc.List()
	users := make([]*entity.User, len(items))
	for i := range items {
		users[i] = &items[i]
	}
	return users, nil
}

func (r *kvUserRepository) Modify(ctx context.Context, id string, fn func(user *entity.User)) (*entity.User, error) {
	var updated entity.User
	_, err := r.users.Update(ctx, func(doc *kvstore.Document[entity.User]) (bool, error) {
		user, ok := doc.Get(id)
		if !ok {
			return false, errors.NotFound("User", nil)
		}
		fn(&user)
		doc.Replace(id, user)
		updated = user
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

type kvSessionRepository struct {
	store *kvstore.Store
}

func NewKVSessionRepository(store *kvstore.Store) repository.SessionRepository {
	return &kvSessionRepository{store: store}
}

func (r *kvSessionRepository) Load(ctx context.Context) (*entity.User, error) {
	var user entity.User
	found, err := r.store.Get(ctx, currentUserKey, &user)
	if err != nil {
		return nil, err
	}
	// A stored null or an id-less record means nobody is signed in.
	if !found || user.ID == "" {
		return nil, nil
	}
	return &user, nil
}

func (r *kvSessionRepository) Save(ctx context.Context, user *entity.User) error {
	public := user.Public()
	return r.store.Set(ctx, currentUserKey, &public)
}

func (r *kvSessionRepository) Clear(ctx context.Context) error {
	return r.store.Remove(ctx, currentUserKey)
}

func (r *kvSessionRepository) Exists(ctx context.Context) (bool, error) {
	user, err := r.Load(ctx)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}
