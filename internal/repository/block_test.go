package repository

import (
	"context"
	"testing"

	"weave/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBlockRepository(db)
	ctx := context.Background()

	block := &models.Block{UserID: 1, BlockedID: 2}
	require.NoError(t, repo.Create(ctx, block))

	t.Run("DuplicatePairConflicts", func(t *testing.T) {
		err := repo.Create(ctx, &models.Block{UserID: 1, BlockedID: 2})
		require.Error(t, err)

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "CONFLICT", appErr.Code)
	})

	t.Run("BlockIsDirectional", func(t *testing.T) {
		ok, err := repo.Exists(ctx, 1, 2)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Exists(ctx, 2, 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("GetByPair", func(t *testing.T) {
		got, err := repo.GetByPair(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, block.ID, got.ID)

		_, err = repo.GetByPair(ctx, 2, 1)
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("ListTouchingMatchesBothEnds", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &models.Block{UserID: 3, BlockedID: 1}))

		mine, err := repo.ListByUser(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, mine, 1)

		touching, err := repo.ListTouching(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, touching, 2)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, block.ID))
		ok, err := repo.Exists(ctx, 1, 2)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
