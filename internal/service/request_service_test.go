package service

import (
	"context"
	"fmt"
	"testing"

	"weave/internal/models"
	"weave/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, env *testEnv, name string) *models.User {
	t.Helper()
	user, err := env.userService.CreateUser(context.Background(), name, fmt.Sprintf("%s@example.com", name), "")
	require.NoError(t, err)
	return user
}

func assertErrCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestSendFollowRequestToUser(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env, "alice")
	bob := createTestUser(t, env, "bob")

	t.Run("FollowableTargetIsPreAccepted", func(t *testing.T) {
		req, err := env.requestService.SendRequest(ctx, alice.ID, bob.ID, models.EntityTypeUser, models.RequestTypeFollow)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusAccepted, req.Status)
		require.NotNil(t, req.AcceptedAt)

		target, err := env.users.GetByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.Contains(t, target.Followers, alice.ID)

		follower, err := env.users.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Contains(t, follower.Following, bob.ID)
	})

	t.Run("DuplicatePairConflicts", func(t *testing.T) {
		_, err := env.requestService.SendRequest(ctx, alice.ID, bob.ID, models.EntityTypeUser, models.RequestTypeFollow)
		assertErrCode(t, err, "CONFLICT")
	})

	t.Run("SelfRequestIsRejected", func(t *testing.T) {
		_, err := env.requestService.SendRequest(ctx, alice.ID, alice.ID, models.EntityTypeUser, models.RequestTypeFollow)
		assertErrCode(t, err, "VALIDATION_ERROR")
	})
}

func TestFollowRedirectsToFriendRequest(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env, "alice")
	carol := createTestUser(t, env, "carol")

	on := true
	_, err := env.settingsService.UpdatePrivacySettings(ctx, carol.ID, PrivacyPatch{RequireFriendRequests: &on})
	require.NoError(t, err)

	req, err := env.requestService.SendRequest(ctx, alice.ID, carol.ID, models.EntityTypeUser, models.RequestTypeFollow)
	require.NoError(t, err)
	assert.Equal(t, models.RequestTypeFriend, req.RequestType)
	assert.Equal(t, models.RequestStatusPending, req.Status)

	// No adjacency until the target accepts.
	target, err := env.users.GetByID(ctx, carol.ID)
	require.NoError(t, err)
	assert.Empty(t, target.Followers)
	assert.Empty(t, target.Friends)
}

func TestFollowDeniedByPrivacy(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env, "alice")
	dave := createTestUser(t, env, "dave")

	off := false
	_, err := env.settingsService.UpdatePrivacySettings(ctx, dave.ID, PrivacyPatch{CanBeFollowed: &off})
	require.NoError(t, err)

	_, err = env.requestService.SendRequest(ctx, alice.ID, dave.ID, models.EntityTypeUser, models.RequestTypeFollow)
	assertErrCode(t, err, "PERMISSION_DENIED")
}

func TestFollowDeniedWhenBlocked(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env, "alice")
	eve := createTestUser(t, env, "eve")

	_, err := env.blockService.BlockUser(ctx, eve.ID, alice.ID)
	require.NoError(t, err)

	_, err = env.requestService.SendRequest(ctx, alice.ID, eve.ID, models.EntityTypeUser, models.RequestTypeFollow)
	assertErrCode(t, err, "PERMISSION_DENIED")
}

func TestFriendRequestLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env, "alice")
	bob := createTestUser(t, env, "bob")

	req, err := env.requestService.SendRequest(ctx, alice.ID, bob.ID, models.EntityTypeUser, models.RequestTypeFriend)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, req.Status)

	t.Run("AcceptGrantsMutualFriendship", func(t *testing.T) {
		accepted, err := env.requestService.UpdateRequestStatus(ctx, req.ID, models.RequestStatusAccepted)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusAccepted, accepted.Status)
		require.NotNil(t, accepted.AcceptedAt)

		a, err := env.users.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		b, err := env.users.GetByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.Contains(t, a.Friends, bob.ID)
		assert.Contains(t, b.Friends, alice.ID)
	})

	t.Run("ResetReturnsToPending", func(t *testing.T) {
		reset, err := env.requestService.UpdateRequestStatus(ctx, req.ID, models.RequestStatusPending)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusPending, reset.Status)
		assert.Nil(t, reset.AcceptedAt)
	})
}

func TestRejectionRevertsAdjacency(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env, "alice")
	bob := createTestUser(t, env, "bob")

	req, err := env.requestService.SendRequest(ctx, alice.ID, bob.ID, models.EntityTypeUser, models.RequestTypeFollow)
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusAccepted, req.Status)

	_, err = env.requestService.UpdateRequestStatus(ctx, req.ID, models.RequestStatusRejected)
	require.NoError(t, err)

	// The record is removed, not retained as REJECTED.
	_, err = env.requestService.GetRequest(ctx, req.ID)
	assert.True(t, models.IsNotFound(err))

	target, err := env.users.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.NotContains(t, target.Followers, alice.ID)

	follower, err := env.users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.NotContains(t, follower.Following, bob.ID)
}

func TestFollowOrganization(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env, "alice")

	t.Run("FollowablePage", func(t *testing.T) {
		org, err := env.orgService.CreateOrganization(ctx, "open-team", models.OrganizationKindTeam, true)
		require.NoError(t, err)

		req, err := env.requestService.SendRequest(ctx, alice.ID, org.ID, models.EntityTypeTeam, models.RequestTypeFollow)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusAccepted, req.Status)

		stored, err := env.orgs.GetByID(ctx, org.ID)
		require.NoError(t, err)
		assert.Contains(t, stored.Followers, alice.ID)
	})

	t.Run("ClosedPageIsDenied", func(t *testing.T) {
		org, err := env.orgService.CreateOrganization(ctx, "closed-biz", models.OrganizationKindBusiness, false)
		require.NoError(t, err)

		_, err = env.requestService.SendRequest(ctx, alice.ID, org.ID, models.EntityTypeBusiness, models.RequestTypeFollow)
		assertErrCode(t, err, "PERMISSION_DENIED")
	})

	t.Run("FriendRequestToOrganizationIsInvalid", func(t *testing.T) {
		org, err := env.orgService.CreateOrganization(ctx, "another-team", models.OrganizationKindTeam, true)
		require.NoError(t, err)

		_, err = env.requestService.SendRequest(ctx, alice.ID, org.ID, models.EntityTypeTeam, models.RequestTypeFriend)
		assertErrCode(t, err, "VALIDATION_ERROR")
	})
}

func TestDeleteRequestRevertsAdjacency(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env, "alice")
	bob := createTestUser(t, env, "bob")

	req, err := env.requestService.SendRequest(ctx, alice.ID, bob.ID, models.EntityTypeUser, models.RequestTypeFollow)
	require.NoError(t, err)

	require.NoError(t, env.requestService.DeleteRequest(ctx, req.ID))

	target, err := env.users.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, target.Followers)
}

func TestRelationshipListings(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env, "alice")
	bob := createTestUser(t, env, "bob")
	carol := createTestUser(t, env, "carol")

	_, err := env.requestService.SendRequest(ctx, alice.ID, bob.ID, models.EntityTypeUser, models.RequestTypeFollow)
	require.NoError(t, err)
	friendReq, err := env.requestService.SendRequest(ctx, alice.ID, carol.ID, models.EntityTypeUser, models.RequestTypeFriend)
	require.NoError(t, err)
	_, err = env.requestService.UpdateRequestStatus(ctx, friendReq.ID, models.RequestStatusAccepted)
	require.NoError(t, err)

	followers, err := env.requestService.Followers(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].Username)

	following, err := env.requestService.Following(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)

	friends, err := env.requestService.Friends(ctx, carol.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "alice", friends[0].Username)

	sent, err := env.requestService.ListRequests(ctx, alice.ID, models.RequestTypeFollow, repository.DirectionSent)
	require.NoError(t, err)
	assert.Len(t, sent, 1)
}
