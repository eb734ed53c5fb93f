package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/nhood/internal/entity"
)

func TestRepository_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("insert assigns sequential ids", func(t *testing.T) {
		repo := NewDataURLRepository()

		first, err := repo.Save(ctx, &entity.DataURL{Key: []string{"K1"}, URL: "http://a"})
		require.NoError(t, err)
		second, err := repo.Save(ctx, &entity.DataURL{Key: []string{"K2"}, URL: "http://b"})
		require.NoError(t, err)

		assert.Equal(t, int64(1), first.ID)
		assert.Equal(t, int64(2), second.ID)
	})

	t.Run("overwrite existing", func(t *testing.T) {
		repo := NewLocationRepository()

		saved, err := repo.Save(ctx, &entity.Location{Message: "a", Latitude: 1, Longitude: 2})
		require.NoError(t, err)

		saved.Message = "b"
		_, err = repo.Save(ctx, saved)
		require.NoError(t, err)

		got, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, &entity.Location{ID: saved.ID, Message: "b", Latitude: 1, Longitude: 2}, got)
	})

	t.Run("overwrite missing", func(t *testing.T) {
		repo := NewLocationRepository()

		got, err := repo.Save(ctx, &entity.Location{ID: 10, Message: "a"})

		assert.ErrorIs(t, err, entity.ErrEntryNotFound)
		assert.Nil(t, got)
	})

	t.Run("stored entry is a copy", func(t *testing.T) {
		repo := NewDataURLRepository()

		in := &entity.DataURL{Key: []string{"K1"}, URL: "http://a"}
		saved, err := repo.Save(ctx, in)
		require.NoError(t, err)

		in.Key[0] = "changed"
		saved.Key[0] = "changed"

		got, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"K1"}, got.Key)
	})
}

func TestRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewDataURLRepository()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	for _, u := range []string{"http://a", "http://b", "http://c"} {
		_, err := repo.Save(ctx, &entity.DataURL{Key: []string{"K"}, URL: u})
		require.NoError(t, err)
	}

	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "http://a", all[0].URL)
	assert.Equal(t, "http://c", all[2].URL)
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewLocationRepository()

	saved, err := repo.Save(ctx, &entity.Location{Message: "a"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, saved))

	_, err = repo.FindByID(ctx, saved.ID)
	assert.ErrorIs(t, err, entity.ErrEntryNotFound)

	err = repo.Delete(ctx, saved)
	assert.ErrorIs(t, err, entity.ErrEntryNotFound)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
