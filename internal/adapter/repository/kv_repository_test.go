package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapi/internal/domain/entity"
	"swapi/internal/infrastructure/kvstore"
	"swapi/pkg/errors"
)

func newTestStore(t *testing.T) *kvstore.Store {
	t.Helper()
	store := kvstore.New(kvstore.NewMemoryBackend())
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUserRepositoryCreateRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewKVUserRepository(newTestStore(t))

	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u1", Email: "a@x.io", Password: "p"}))

	err := repo.Create(ctx, &entity.User{ID: "u2", Email: "  A@X.io ", Password: "q"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeDuplicateEmail))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserRepositoryLookups(t *testing.T) {
	ctx := context.Background()
	repo := NewKVUserRepository(newTestStore(t))

	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u1", Name: "Ana", Email: "ana@x.io"}))
	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u2", Name: "Beto", Email: "beto@x.io"}))

	user, err := repo.GetByEmail(ctx, "BETO@x.io")
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)

	user, err = repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, "u2", users[1].ID)
}

func TestUserRepositoryModify(t *testing.T) {
	ctx := context.Background()
	repo := NewKVUserRepository(newTestStore(t))
	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u1", Name: "Ana", Email: "ana@x.io"}))

	updated, err := repo.Modify(ctx, "u1", func(u *entity.User) { u.Name = "Ana María" })
	require.NoError(t, err)
	assert.Equal(t, "Ana María", updated.Name)

	stored, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ana María", stored.Name)

	_, err = repo.Modify(ctx, "missing", func(u *entity.User) {})
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestSessionRepositoryNullIsSignedOut(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewKVSessionRepository(store)

	require.NoError(t, store.Set(ctx, currentUserKey, nil))

	user, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	exists, err := repo.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSessionRepositoryStoresPublicUser(t *testing.T) {
	ctx := context.Background()
	repo := NewKVSessionRepository(newTestStore(t))

	user, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	require.NoError(t, repo.Save(ctx, &entity.User{ID: "u1", Email: "a@x.io", Password: "secret"}))

	exists, err := repo.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	user, err = repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.Empty(t, user.Password)

	require.NoError(t, repo.Clear(ctx))
	require.NoError(t, repo.Clear(ctx))

	exists, err = repo.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPublicationRepositoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewKVPublicationRepository(newTestStore(t))

	for _, id := range []string{"p1", "p2", "p3"} {
		require.NoError(t, repo.Create(ctx, &entity.Publication{ID: id, Title: id, Active: true}))
	}

	publications, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, publications, 3)
	assert.Equal(t, "p3", publications[0].ID)
	assert.Equal(t, "p1", publications[2].ID)
}

func TestPublicationRepositoryModifyKeepsID(t *testing.T) {
	ctx := context.Background()
	repo := NewKVPublicationRepository(newTestStore(t))
	require.NoError(t, repo.Create(ctx, &entity.Publication{ID: "p1", Title: "Old", Active: true}))

	updated, err := repo.Modify(ctx, "p1", func(p *entity.Publication) {
		p.ID = "hijacked"
		p.Title = "New"
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", updated.ID)
	assert.Equal(t, "New", updated.Title)

	_, err = repo.GetByID(ctx, "hijacked")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestPublicationRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewKVPublicationRepository(newTestStore(t))
	require.NoError(t, repo.Create(ctx, &entity.Publication{ID: "p1"}))

	require.NoError(t, repo.Delete(ctx, "p1"))
	require.NoError(t, repo.Delete(ctx, "p1"))

	publications, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, publications)
}

func TestChatRepositoryFindOrCreateIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := NewKVChatRepository(newTestStore(t))

	match := func(c *entity.Conversation) bool { return c.IsBetween("a", "b") }

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = map[string]bool{}
		created int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conversation, isNew, err := repo.FindOrCreate(ctx, match, func() *entity.Conversation {
				return &entity.Conversation{
					ID:           "c" + string(rune('a'+i)),
					Participants: []entity.Participant{{UserID: "a"}, {UserID: "b"}},
				}
			})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			ids[conversation.ID] = true
			if isNew {
				created++
			}
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Len(t, ids, 1)
	assert.Equal(t, 1, created)

	conversations, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, conversations, 1)
}

func TestChatRepositoryMessages(t *testing.T) {
	ctx := context.Background()
	repo := NewKVChatRepository(newTestStore(t))
	now := time.Now()

	for i, id := range []string{"m1", "m2", "m3"} {
		conversationID := "c1"
		if id == "m3" {
			conversationID = "c2"
		}
		require.NoError(t, repo.CreateMessage(ctx, &entity.ChatMessage{
			ID:             id,
			ConversationID: conversationID,
			ReceiverID:     "b",
			Timestamp:      now.Add(time.Duration(i) * time.Second),
		}))
	}

	messages, err := repo.ListMessages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "m1", messages[0].ID)

	markRead := func(m *entity.ChatMessage) bool {
		if m.ConversationID != "c1" || m.Read {
			return false
		}
		m.Read = true
		return true
	}

	changed, err := repo.UpdateMessages(ctx, markRead)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	changed, err = repo.UpdateMessages(ctx, markRead)
	require.NoError(t, err)
	assert.Equal(t, 0, changed)

	deleted, err := repo.DeleteConversation(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	messages, err = repo.ListMessages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "m3", messages[0].ID)
	assert.False(t, messages[0].Read)
}

func TestChatRepositoryAppendMessageAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewKVChatRepository(newTestStore(t))

	_, _, err := repo.FindOrCreate(ctx,
		func(*entity.Conversation) bool { return false },
		func() *entity.Conversation { return &entity.Conversation{ID: "c1"} },
	)
	require.NoError(t, err)

	updated, err := repo.AppendMessage(ctx, &entity.ChatMessage{ID: "m1", ConversationID: "c1", Body: "hola"},
		func(c *entity.Conversation) { c.LastMessage = "hola" })
	require.NoError(t, err)
	assert.Equal(t, "hola", updated.LastMessage)

	deleted, err := repo.DeleteConversation(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	_, err = repo.GetByID(ctx, "c1")
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	_, err = repo.AppendMessage(ctx, &entity.ChatMessage{ID: "m2", ConversationID: "c1"}, func(*entity.Conversation) {})
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	messages, err := repo.ListMessages(ctx)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestChatRepositoryAppendRacingDeleteLeavesNoOrphans(t *testing.T) {
	ctx := context.Background()
	repo := NewKVChatRepository(newTestStore(t))

	_, _, err := repo.FindOrCreate(ctx,
		func(*entity.Conversation) bool { return false },
		func() *entity.Conversation { return &entity.Conversation{ID: "c1"} },
	)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.AppendMessage(ctx,
				&entity.ChatMessage{ID: "m" + string(rune('a'+i)), ConversationID: "c1"},
				func(*entity.Conversation) {})
			if err != nil {
				assert.True(t, errors.Is(err, errors.CodeNotFound), err)
			}
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := repo.DeleteConversation(ctx, "c1")
		assert.NoError(t, err)
	}()
	wg.Wait()

	_, err = repo.GetByID(ctx, "c1")
	require.True(t, errors.Is(err, errors.CodeNotFound))

	messages, err := repo.ListMessages(ctx)
	require.NoError(t, err)
	assert.Empty(t, messages, "every stored message must belong to an existing conversation")
}
