package usecase

import (
	"context"
	"strings"

	"swapi/internal/domain/entity"
	"swapi/pkg/errors"
	"swapi/pkg/logger"
)

// ProfileUpdate carries the profile fields to change. Nil fields are kept.
type ProfileUpdate struct {
	Name     *string
	Photo    *string
	Location *entity.Location
}

func (p ProfileUpdate) apply(user *entity.User) {
	if p.Name != nil {
		user.Name = strings.TrimSpace(*p.Name)
	}
	if p.Photo != nil {
		user.Photo = *p.Photo
	}
	if p.Location != nil {
		location := *p.Location
		user.Location = &location
	}
}

// UpdateProfile merges update into both the stored user record and the
// current session.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, update ProfileUpdate) (*entity.User, error) {
	current := uc.session.Current()
	if current == nil {
		return nil, errors.NotAuthenticated()
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, errors.BadRequest("Name cannot be empty", nil)
	}

	_, err := uc.userRepo.Modify(ctx, current.ID, update.apply)
	switch {
	case errors.Is(err, errors.CodeNotFound):
		logger.Warn("UpdateProfile: user %s missing from user list, updating session only", current.ID)
	case err != nil:
		return nil, err
	}

	update.apply(current)
	if err := uc.sessionRepo.Save(ctx, current); err != nil {
		return nil, err
	}
	uc.session.Set(current)

	return current, nil
}
