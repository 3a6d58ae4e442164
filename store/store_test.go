package store

import (
	"context"
	"path/filepath"
	"testing"

	"blogapi/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postUserStore interface {
	PostStore
	UserStore
}

func TestMemory(t *testing.T) {
	testStore(t, func(t *testing.T) postUserStore {
		return NewMemory()
	})
}

func TestSQLite(t *testing.T) {
	testStore(t, func(t *testing.T) postUserStore {
		s, err := OpenSQLite(filepath.Join(t.TempDir(), "blog.db"))
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		require.NoError(t, s.Migrate())
		// A second run finds nothing to do.
		require.NoError(t, s.Migrate())
		return s
	})
}

func testStore(t *testing.T, newStore func(t *testing.T) postUserStore) {
	ctx := context.Background()

	t.Run("get missing post", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetPost(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("put then get and scan in order", func(t *testing.T) {
		s := newStore(t)
		first := domain.Post{ID: "1", Email: "a@x.com", Message: "hello"}
		second := domain.Post{ID: "2", Email: "b@x.com", ImageURL: "https://img"}
		require.NoError(t, s.PutPost(ctx, first))
		require.NoError(t, s.PutPost(ctx, second))

		got, err := s.GetPost(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, first, got)

		all, err := s.ScanPosts(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.Post{first, second}, all)
	})

	t.Run("scan empty", func(t *testing.T) {
		s := newStore(t)
		all, err := s.ScanPosts(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("replace checks owner", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.PutPost(ctx, domain.Post{ID: "1", Email: "a@x.com", Message: "v1"}))

		err := s.ReplacePost(ctx, domain.Post{ID: "1", Email: "b@x.com", Message: "stolen"})
		assert.ErrorIs(t, err, ErrConditionFailed)

		err = s.ReplacePost(ctx, domain.Post{ID: "missing", Email: "a@x.com", Message: "v1"})
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.ReplacePost(ctx, domain.Post{ID: "1", Email: "a@x.com", Message: "v2"}))
		got, err := s.GetPost(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "v2", got.Message)
		assert.Equal(t, "a@x.com", got.Email)
	})

	t.Run("delete checks owner", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.PutPost(ctx, domain.Post{ID: "1", Email: "a@x.com"}))

		assert.ErrorIs(t, s.DeletePost(ctx, "1", "b@x.com"), ErrConditionFailed)
		assert.ErrorIs(t, s.DeletePost(ctx, "missing", "a@x.com"), ErrNotFound)

		_, err := s.GetPost(ctx, "1")
		require.NoError(t, err)

		require.NoError(t, s.DeletePost(ctx, "1", "a@x.com"))
		_, err = s.GetPost(ctx, "1")
		assert.ErrorIs(t, err, ErrNotFound)

		all, err := s.ScanPosts(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("users", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetUser(ctx, "a@x.com")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.CreateUser(ctx, domain.User{Email: "a@x.com", Password: "d1"}))
		assert.ErrorIs(t, s.CreateUser(ctx, domain.User{Email: "a@x.com", Password: "d2"}), ErrConflict)

		u, err := s.GetUser(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "d1", u.Password)

		require.NoError(t, s.PutUser(ctx, domain.User{Email: "a@x.com", Password: "d3"}))
		u, err = s.GetUser(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "d3", u.Password)
	})
}
