package service

import (
	"context"

	"weave/internal/models"
	"weave/internal/observability"
	"weave/internal/repository"

	"gorm.io/gorm"
)

// MemberService owns organization membership: one Member record per
// (user, organization) pair, mirrored by the organization's members list.
// Creation and removal keep both in step inside one transaction.
type MemberService struct {
	db         *gorm.DB
	memberRepo repository.MemberRepository
	userRepo   repository.UserRepository
	orgRepo    repository.OrganizationRepository
}

// NewMemberService returns a new MemberService.
func NewMemberService(db *gorm.DB, memberRepo repository.MemberRepository, userRepo repository.UserRepository, orgRepo repository.OrganizationRepository) *MemberService {
	return &MemberService{
		db:         db,
		memberRepo: memberRepo,
		userRepo:   userRepo,
		orgRepo:    orgRepo,
	}
}

// AddMember enrolls the user in the organization with the given role.
// A second enrollment for the same pair fails with Conflict.
func (s *MemberService) AddMember(ctx context.Context, userID, orgID uint, orgType models.OrganizationKind, role models.MemberRole) (*models.Member, error) {
	span, ctx := observability.StartEngineSpan(ctx, "member", "add", userID, orgID)
	defer span.End()

	if !models.ValidMemberRole(role) {
		return nil, models.NewValidationError("invalid member role")
	}
	if !models.ValidOrganizationKind(orgType) {
		return nil, models.NewValidationError("invalid organization type")
	}
	if exists, err := s.userRepo.Exists(ctx, userID); err != nil {
		return nil, err
	} else if !exists {
		return nil, models.NewNotFoundError("User", userID)
	}
	if exists, err := s.orgRepo.Exists(ctx, orgID); err != nil {
		return nil, err
	} else if !exists {
		return nil, models.NewNotFoundError("Organization", orgID)
	}
	if existing, err := s.memberRepo.GetByPair(ctx, userID, orgID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("user is already a member of this organization", nil)
	}

	member := &models.Member{
		UserID:           userID,
		OrganizationID:   orgID,
		OrganizationType: orgType,
		Role:             role,
		Status:           models.MemberStatusActive,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewMemberRepository(tx).Create(ctx, member); err != nil {
			return err
		}
		return repository.NewOrganizationRepository(tx).PushList(ctx, orgID, repository.OrganizationMembers, member.ID)
	})
	if err != nil {
		recordMutationError("member", err)
		span.SetError(err)
		return nil, err
	}
	recordMutation("member", "add")
	return member, nil
}

// RemoveMember deletes the member record and filters its id out of the
// organization's members list.
func (s *MemberService) RemoveMember(ctx context.Context, memberID uint) error {
	span, ctx := observability.StartEngineSpan(ctx, "member", "remove", memberID)
	defer span.End()

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewMemberRepository(tx).Delete(ctx, member.ID); err != nil {
			return err
		}
		return repository.NewOrganizationRepository(tx).PullList(ctx, member.OrganizationID, repository.OrganizationMembers, member.ID)
	})
	if err != nil {
		recordMutationError("member", err)
		span.SetError(err)
		return err
	}
	recordMutation("member", "remove")
	return nil
}

// MemberPatch carries the in-place editable membership fields.
type MemberPatch struct {
	Role   *models.MemberRole   `json:"role"`
	Status *models.MemberStatus `json:"status"`
}

// UpdateMember changes the member's role or status. No adjacency effects.
func (s *MemberService) UpdateMember(ctx context.Context, memberID uint, patch MemberPatch) (*models.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if patch.Role != nil {
		if !models.ValidMemberRole(*patch.Role) {
			return nil, models.NewValidationError("invalid member role")
		}
		member.Role = *patch.Role
	}
	if patch.Status != nil {
		if !models.ValidMemberStatus(*patch.Status) {
			return nil, models.NewValidationError("invalid member status")
		}
		member.Status = *patch.Status
	}
	if err := s.memberRepo.Save(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// ListMembers returns the organization's members with user profiles loaded.
func (s *MemberService) ListMembers(ctx context.Context, orgID uint) ([]models.Member, error) {
	if exists, err := s.orgRepo.Exists(ctx, orgID); err != nil {
		return nil, err
	} else if !exists {
		return nil, models.NewNotFoundError("Organization", orgID)
	}
	return s.memberRepo.ListByOrganization(ctx, orgID)
}

// ListMemberships returns every organization membership the user holds.
func (s *MemberService) ListMemberships(ctx context.Context, userID uint) ([]models.Member, error) {
	return s.memberRepo.ListByUser(ctx, userID)
}
