package main

import (
	"context"
	"path/filepath"
	"testing"

	"blogapi/domain"
	"blogapi/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCommand(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "blog.db")

	for i := 0; i < 2; i++ {
		cmd := migrateCmd()
		cmd.SetArgs([]string{"--dsn", dsn})
		require.NoError(t, cmd.Execute())
	}

	db, err := store.OpenSQLite(dsn)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.PutPost(ctx, domain.Post{ID: "1", Email: "a@x.com", Message: "hi"}))
	posts, err := db.ScanPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestMigrateCommandReadsEnv(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("SQLITE_DSN", dsn)

	cmd := migrateCmd()
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	db, err := store.OpenSQLite(dsn)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.GetUser(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
