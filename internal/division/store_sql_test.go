package division_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aksamedia/aksamedia-admin/internal/db/dbtest"
	"github.com/aksamedia/aksamedia-admin/internal/division"
)

var names = []string{"Mobile Apps", "QA", "Full Stack", "Backend", "Frontend", "UI/UX Designer"}

func seed(t *testing.T, store *division.SQLStore) {
	t.Helper()
	for _, n := range names {
		_, _, err := store.EnsureByName(context.Background(), n)
		require.NoError(t, err)
	}
}

func TestListPagesInNameOrder(t *testing.T) {
	ctx := context.Background()
	store := division.NewSQLStore(dbtest.Open(t))
	seed(t, store)

	page1, total, err := store.List(ctx, division.ListOpts{Page: 1, PerPage: 4})
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	require.Len(t, page1, 4)
	assert.Equal(t, "Backend", page1[0].Name)
	assert.Equal(t, "Frontend", page1[1].Name)

	page2, _, err := store.List(ctx, division.ListOpts{Page: 2, PerPage: 4})
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, "QA", page2[0].Name)
	assert.Equal(t, "UI/UX Designer", page2[1].Name)

	page9, total, err := store.List(ctx, division.ListOpts{Page: 9, PerPage: 4})
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	assert.Empty(t, page9)
}

func TestListFiltersByNameCaseInsensitively(t *testing.T) {
	store := division.NewSQLStore(dbtest.Open(t))
	seed(t, store)

	items, total, err := store.List(context.Background(), division.ListOpts{Name: "end", Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Backend", items[0].Name)
	assert.Equal(t, "Frontend", items[1].Name)

	items, total, err = store.List(context.Background(), division.ListOpts{Name: "qa", Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "QA", items[0].Name)
}

func TestEnsureByNameIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := division.NewSQLStore(dbtest.Open(t))

	d1, created, err := store.EnsureByName(ctx, "QA")
	require.NoError(t, err)
	assert.True(t, created)

	d2, created, err := store.EnsureByName(ctx, "QA")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, d1.ID, d2.ID)

	got, err := store.Get(ctx, d1.ID)
	require.NoError(t, err)
	assert.Equal(t, "QA", got.Name)

	_, err = store.Get(ctx, "nope")
	assert.ErrorIs(t, err, division.ErrNotFound)
}
