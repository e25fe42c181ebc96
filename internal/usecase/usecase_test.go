package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	kvrepo "swapi/internal/adapter/repository"
	"swapi/internal/domain/entity"
	"swapi/internal/domain/repository"
	"swapi/internal/infrastructure/kvstore"
	"swapi/internal/session"
)

type testApp struct {
	store        *kvstore.Store
	session      *session.Session
	users        repository.UserRepository
	sessions     repository.SessionRepository
	publications repository.PublicationRepository
	chats        repository.ChatRepository

	auth        *AuthUseCase
	publication *PublicationUseCase
	chat        *ChatUseCase
	seed        *SeedUseCase
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	store := kvstore.New(kvstore.NewMemoryBackend())
	t.Cleanup(func() { store.Close() })

	app := &testApp{
		store:        store,
		session:      session.New(),
		users:        kvrepo.NewKVUserRepository(store),
		sessions:     kvrepo.NewKVSessionRepository(store),
		publications: kvrepo.NewKVPublicationRepository(store),
		chats:        kvrepo.NewKVChatRepository(store),
	}
	app.auth = NewAuthUseCase(app.users, app.sessions, app.session)
	app.publication = NewPublicationUseCase(app.publications, app.session)
	app.chat = NewChatUseCase(app.chats, app.session)
	app.seed = NewSeedUseCase(app.users, app.publications, app.chats)
	return app
}

// register signs up a user and leaves them signed in.
func (a *testApp) register(t *testing.T, name, email, password string) *entity.User {
	t.Helper()
	user, err := a.auth.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: password})
	require.NoError(t, err)
	return user
}

// stepClock returns a clock that advances by step on every call.
func stepClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(step)
		return now
	}
}
