// Package session holds the identity a process is currently acting as.
package session

import (
	"sync"

	"swapi/internal/domain/entity"
	"swapi/internal/infrastructure/notify"
)

// Navigation targets emitted after sign-in and sign-out.
const (
	NavigateAuthenticated = "/tabs"
	NavigateLogin         = "/login"
)

// Session is the current-user slot. Services receive it explicitly instead of
// reading a process-wide global.
type Session struct {
	mu         sync.RWMutex
	current    *entity.User
	users      *notify.Broker[*entity.User]
	navigation *notify.Broker[string]
}

func New() *Session {
	return &Session{
		users:      notify.NewBroker[*entity.User](),
		navigation: notify.NewEventBroker[string](),
	}
}

// Current returns a copy of the signed-in user, or nil.
func (s *Session) Current() *entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	user := *s.current
	return &user
}

// Set replaces the current user and notifies subscribers. A nil user signs out.
func (s *Session) Set(user *entity.User) {
	var stored *entity.User
	if user != nil {
		public := user.Public()
		stored = &public
	}

	s.mu.Lock()
	s.current = stored
	s.mu.Unlock()

	s.users.Publish(s.Current())
}

// Subscribe registers fn for current-user changes. fn is called immediately
// with the present value once the session has been set at least once.
func (s *Session) Subscribe(fn func(user *entity.User)) (unsubscribe func()) {
	return s.users.Subscribe(fn)
}

// OnNavigate registers fn for navigation intents.
func (s *Session) OnNavigate(fn func(target string)) (unsubscribe func()) {
	return s.navigation.Subscribe(fn)
}

func (s *Session) Navigate(target string) {
	s.navigation.Publish(target)
}
