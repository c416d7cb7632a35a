package service

import (
	"context"
	"testing"

	"weave/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPost(t *testing.T, env *testEnv, userID uint) *models.Post {
	t.Helper()
	post, err := env.postService.CreatePost(context.Background(), userID, "hello", "first post")
	require.NoError(t, err)
	return post
}

func TestCreateLike(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env, "alice")
	bob := createTestUser(t, env, "bob")
	post := createTestPost(t, env, bob.ID)

	like, err := env.likeService.CreateLike(ctx, alice.ID, post.ID, models.LikeKindPost)
	require.NoError(t, err)
	assert.Equal(t, "alice", like.User.Username)

	t.Run("UpdatesBothAdjacencyLists", func(t *testing.T) {
		stored, err := env.posts.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, models.IDList{like.ID}, stored.Likes)

		liker, err := env.users.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, models.IDList{like.ID}, liker.Likes)
	})

	t.Run("RepeatLikeIsIdempotent", func(t *testing.T) {
		again, err := env.likeService.CreateLike(ctx, alice.ID, post.ID, models.LikeKindPost)
		require.NoError(t, err)
		assert.Equal(t, like.ID, again.ID)

		stored, err := env.posts.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, models.IDList{like.ID}, stored.Likes)
	})

	t.Run("InvalidKind", func(t *testing.T) {
		_, err := env.likeService.CreateLike(ctx, alice.ID, post.ID, models.LikeKind("SHRUG"))
		assertErrCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, err := env.likeService.CreateLike(ctx, 99999, post.ID, models.LikeKindPost)
		assertErrCode(t, err, "NOT_FOUND")
	})
}

func TestDeleteLike(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env, "alice")
	bob := createTestUser(t, env, "bob")
	post := createTestPost(t, env, bob.ID)

	_, err := env.likeService.CreateLike(ctx, alice.ID, post.ID, models.LikeKindPost)
	require.NoError(t, err)

	require.NoError(t, env.likeService.DeleteLike(ctx, alice.ID, post.ID, models.LikeKindPost))

	t.Run("RemovalIsSymmetric", func(t *testing.T) {
		stored, err := env.posts.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.Likes)

		liker, err := env.users.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, liker.Likes)
	})

	t.Run("MissingLikeIsNotFound", func(t *testing.T) {
		err := env.likeService.DeleteLike(ctx, alice.ID, post.ID, models.LikeKindPost)
		assert.True(t, models.IsNotFound(err))
	})
}

func TestLikeQueries(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env, "alice")
	bob := createTestUser(t, env, "bob")
	post := createTestPost(t, env, bob.ID)

	_, err := env.likeService.CreateLike(ctx, alice.ID, post.ID, models.LikeKindPost)
	require.NoError(t, err)
	_, err = env.likeService.CreateLike(ctx, alice.ID, bob.ID, models.LikeKindUser)
	require.NoError(t, err)

	forPost, err := env.likeService.LikesForTarget(ctx, post.ID, models.LikeKindPost)
	require.NoError(t, err)
	assert.Len(t, forPost, 1)

	byAlice, err := env.likeService.LikesByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, byAlice, 2)

	profileLikes, err := env.likeService.LikesByUserAndKind(ctx, alice.ID, models.LikeKindUser)
	require.NoError(t, err)
	require.Len(t, profileLikes, 1)
	assert.Equal(t, bob.ID, profileLikes[0].AssociatedID)
}
