package service

import (
	"context"
	"testing"

	"weave/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMember(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env, "alice")
	org, err := env.orgService.CreateOrganization(ctx, "acme", models.OrganizationKindBusiness, true)
	require.NoError(t, err)

	member, err := env.memberService.AddMember(ctx, alice.ID, org.ID, org.Kind, models.MemberRoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.MemberStatusActive, member.Status)

	t.Run("OrganizationListTracksMemberID", func(t *testing.T) {
		stored, err := env.orgs.GetByID(ctx, org.ID)
		require.NoError(t, err)
		assert.Equal(t, models.IDList{member.ID}, stored.Members)
	})

	t.Run("DuplicateMembershipConflicts", func(t *testing.T) {
		_, err := env.memberService.AddMember(ctx, alice.ID, org.ID, org.Kind, models.MemberRoleMember)
		assertErrCode(t, err, "CONFLICT")
	})

	t.Run("UnknownOrganization", func(t *testing.T) {
		_, err := env.memberService.AddMember(ctx, alice.ID, 99999, models.OrganizationKindTeam, models.MemberRoleMember)
		assertErrCode(t, err, "NOT_FOUND")
	})

	t.Run("InvalidRole", func(t *testing.T) {
		_, err := env.memberService.AddMember(ctx, alice.ID, org.ID, org.Kind, models.MemberRole("overlord"))
		assertErrCode(t, err, "VALIDATION_ERROR")
	})
}

func TestUpdateMember(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env, "alice")
	org, err := env.orgService.CreateOrganization(ctx, "acme", models.OrganizationKindTeam, true)
	require.NoError(t, err)

	member, err := env.memberService.AddMember(ctx, alice.ID, org.ID, org.Kind, models.MemberRoleMember)
	require.NoError(t, err)

	role := models.MemberRoleAdmin
	status := models.MemberStatusSuspended
	updated, err := env.memberService.UpdateMember(ctx, member.ID, MemberPatch{Role: &role, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.MemberRoleAdmin, updated.Role)
	assert.Equal(t, models.MemberStatusSuspended, updated.Status)

	t.Run("InvalidStatus", func(t *testing.T) {
		bad := models.MemberStatus("hibernating")
		_, err := env.memberService.UpdateMember(ctx, member.ID, MemberPatch{Status: &bad})
		assertErrCode(t, err, "VALIDATION_ERROR")
	})
}

func TestRemoveMember(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env, "alice")
	org, err := env.orgService.CreateOrganization(ctx, "acme", models.OrganizationKindTeam, true)
	require.NoError(t, err)

	member, err := env.memberService.AddMember(ctx, alice.ID, org.ID, org.Kind, models.MemberRoleMember)
	require.NoError(t, err)

	require.NoError(t, env.memberService.RemoveMember(ctx, member.ID))

	stored, err := env.orgs.GetByID(ctx, org.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Members)

	memberships, err := env.memberService.ListMemberships(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, memberships)
}

func TestListMembers(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env, "alice")
	bob := createTestUser(t, env, "bob")
	org, err := env.orgService.CreateOrganization(ctx, "acme", models.OrganizationKindBusiness, true)
	require.NoError(t, err)

	_, err = env.memberService.AddMember(ctx, alice.ID, org.ID, org.Kind, models.MemberRoleAdmin)
	require.NoError(t, err)
	_, err = env.memberService.AddMember(ctx, bob.ID, org.ID, org.Kind, models.MemberRoleMember)
	require.NoError(t, err)

	members, err := env.memberService.ListMembers(ctx, org.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}
