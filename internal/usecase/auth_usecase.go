package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"swapi/internal/domain/entity"
	"swapi/internal/domain/repository"
	"swapi/internal/normalize"
	"swapi/internal/session"
	"swapi/pkg/errors"
	"swapi/pkg/logger"
)

const defaultRating = 5

type AuthUseCase struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	session     *session.Session
	now         func() time.Time
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	sess *session.Session,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		session:     sess,
		now:         time.Now,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Restore loads the persisted current user into the session. Until it
// completes, subscribers observe no user.
func (uc *AuthUseCase) Restore(ctx context.Context) error {
	user, err := uc.sessionRepo.Load(ctx)
	if err != nil {
		logger.Error("Restore session failed: %v", err)
		return err
	}

	uc.session.Set(user)
	if user != nil {
		logger.Info("Restored session for user %s", user.ID)
	}
	return nil
}

// Register stores a new user and signs them in with the same credentials.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	name := strings.TrimSpace(input.Name)
	email := normalize.Email(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, errors.BadRequest("Name, email and password are required", nil)
	}

	user := &entity.User{
		ID:            uuid.NewString(),
		Name:          name,
		Email:         email,
		Password:      input.Password,
		Rating:        defaultRating,
		ExchangeCount: 0,
		RegisteredAt:  uc.now(),
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		logger.Warn("Register failed for %s: %v", email, err)
		return nil, err
	}
	logger.Info("Registered user %s", user.ID)

	return uc.Login(ctx, email, input.Password)
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*entity.User, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	email = normalize.Email(email)
	var found *entity.User
	for _, u := range users {
		if normalize.Email(u.Email) == email && u.Password == password {
			found = u
			break
		}
	}
	if found == nil {
		logger.Warn("Login failed for %s", email)
		return nil, errors.InvalidCredentials()
	}

	public := found.Public()
	if err := uc.sessionRepo.Save(ctx, &public); err != nil {
		return nil, err
	}

	uc.session.Set(&public)
	uc.session.Navigate(session.NavigateAuthenticated)
	logger.Info("User %s signed in", public.ID)

	return &public, nil
}

func (uc *AuthUseCase) Logout(ctx context.Context) error {
	if err := uc.sessionRepo.Clear(ctx); err != nil {
		return err
	}

	uc.session.Set(nil)
	uc.session.Navigate(session.NavigateLogin)
	return nil
}

// IsAuthenticated reports whether a current user is persisted.
func (uc *AuthUseCase) IsAuthenticated(ctx context.Context) (bool, error) {
	return uc.sessionRepo.Exists(ctx)
}

func (uc *AuthUseCase) CurrentUser() *entity.User {
	return uc.session.Current()
}

// GetUser returns the public profile of any registered user.
func (uc *AuthUseCase) GetUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	public := user.Public()
	return &public, nil
}
