package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapi/internal/domain/entity"
)

func TestSessionSetStripsPassword(t *testing.T) {
	s := New()
	assert.Nil(t, s.Current())

	s.Set(&entity.User{ID: "u1", Email: "a@x.io", Password: "secret"})

	current := s.Current()
	require.NotNil(t, current)
	assert.Equal(t, "u1", current.ID)
	assert.Empty(t, current.Password)

	current.Name = "mutated"
	assert.Empty(t, s.Current().Name)
}

func TestSessionSubscribers(t *testing.T) {
	s := New()

	var seen []*entity.User
	unsubscribe := s.Subscribe(func(u *entity.User) { seen = append(seen, u) })
	assert.Empty(t, seen)

	s.Set(&entity.User{ID: "u1"})
	s.Set(nil)
	unsubscribe()
	s.Set(&entity.User{ID: "u2"})

	require.Len(t, seen, 2)
	assert.Equal(t, "u1", seen[0].ID)
	assert.Nil(t, seen[1])

	var late *entity.User
	s.Subscribe(func(u *entity.User) { late = u })
	require.NotNil(t, late)
	assert.Equal(t, "u2", late.ID)
}

func TestSessionNavigation(t *testing.T) {
	s := New()
	s.Navigate(NavigateLogin)

	var targets []string
	s.OnNavigate(func(target string) { targets = append(targets, target) })
	s.Navigate(NavigateAuthenticated)
	s.Navigate(NavigateLogin)

	assert.Equal(t, []string{NavigateAuthenticated, NavigateLogin}, targets)
}
