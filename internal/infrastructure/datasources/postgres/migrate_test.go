package postgres

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	body, err := fs.ReadFile(migrationsFS, files[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), "-- +goose Up")
	assert.Contains(t, string(body), "chk_comments_single_parent")
}

func TestMigrate_DispatchesCommands(t *testing.T) {
	origUp, origDown, origStatus := gooseUpContext, gooseDownContext, gooseStatusContext
	t.Cleanup(func() {
		gooseUpContext, gooseDownContext, gooseStatusContext = origUp, origDown, origStatus
	})

	var called []string
	record := func(name string) func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
			assert.Equal(t, "migrations", dir)
			called = append(called, name)
			return nil
		}
	}
	gooseUpContext = record("up")
	gooseDownContext = record("down")
	gooseStatusContext = record("status")

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, nil, "up"))
	require.NoError(t, Migrate(ctx, nil, "down"))
	require.NoError(t, Migrate(ctx, nil, "status"))
	assert.Equal(t, []string{"up", "down", "status"}, called)

	assert.Error(t, Migrate(ctx, nil, "redo"))
}

func TestMigrate_WrapsFailure(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("relation exists")
	}

	err := Migrate(context.Background(), nil, "up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration up failed")
}
