package service

import (
	"context"
	"fmt"
	"testing"

	"weave/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env, "alice")

	post, err := env.postService.CreatePost(ctx, alice.ID, "hello", "first post")
	require.NoError(t, err)

	t.Run("AuthorListTracksPost", func(t *testing.T) {
		author, err := env.users.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, models.IDList{post.ID}, author.Posts)
	})

	t.Run("BlankTitle", func(t *testing.T) {
		_, err := env.postService.CreatePost(ctx, alice.ID, "  ", "content")
		assertErrCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("UnknownAuthor", func(t *testing.T) {
		_, err := env.postService.CreatePost(ctx, 99999, "t", "c")
		assertErrCode(t, err, "NOT_FOUND")
	})
}

func TestListPostsByUser(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env, "alice")
	for i := 0; i < 5; i++ {
		_, err := env.postService.CreatePost(ctx, alice.ID, fmt.Sprintf("post %d", i), "body")
		require.NoError(t, err)
	}

	page, err := env.postService.ListPostsByUser(ctx, alice.ID, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := env.postService.ListPostsByUser(ctx, alice.ID, 10, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 3)
}

func TestCreateComment(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env, "alice")
	bob := createTestUser(t, env, "bob")
	post := createTestPost(t, env, alice.ID)

	comment, err := env.commentService.CreateComment(ctx, bob.ID, post.ID, nil, "hello")
	require.NoError(t, err)

	t.Run("PostListTracksRootComment", func(t *testing.T) {
		stored, err := env.posts.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, models.IDList{comment.ID}, stored.Comments)
	})

	t.Run("ReplyLinksToParentNotPost", func(t *testing.T) {
		reply, err := env.commentService.CreateComment(ctx, alice.ID, post.ID, &comment.ID, "hi back")
		require.NoError(t, err)

		parent, err := env.comments.GetByID(ctx, comment.ID)
		require.NoError(t, err)
		assert.Equal(t, models.IDList{reply.ID}, parent.ChildIDs)

		stored, err := env.posts.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, models.IDList{comment.ID}, stored.Comments)
	})

	t.Run("AuthorListTracksComment", func(t *testing.T) {
		author, err := env.users.GetByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.Contains(t, author.Comments, comment.ID)
	})

	t.Run("ParentOnAnotherPostIsInvalid", func(t *testing.T) {
		other := createTestPost(t, env, alice.ID)
		_, err := env.commentService.CreateComment(ctx, bob.ID, other.ID, &comment.ID, "lost")
		assertErrCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("UnknownPost", func(t *testing.T) {
		_, err := env.commentService.CreateComment(ctx, bob.ID, 99999, nil, "void")
		assertErrCode(t, err, "NOT_FOUND")
	})
}
