package service

import (
	"context"
	"strings"

	"weave/internal/cache"
	"weave/internal/models"
	"weave/internal/repository"

	"gorm.io/gorm"
)

// OrganizationService provides team and business page CRUD. Deletion also
// clears memberships and reverts accepted follows so no user keeps a
// dangling reference to the page.
type OrganizationService struct {
	db      *gorm.DB
	orgRepo repository.OrganizationRepository
}

// NewOrganizationService returns a new OrganizationService.
func NewOrganizationService(db *gorm.DB, orgRepo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{db: db, orgRepo: orgRepo}
}

// CreateOrganization stores a new team or business page.
func (s *OrganizationService) CreateOrganization(ctx context.Context, name string, kind models.OrganizationKind, canBeFollowed bool) (*models.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("name is required")
	}
	if !models.ValidOrganizationKind(kind) {
		return nil, models.NewValidationError("invalid organization kind")
	}
	org := &models.Organization{
		Name:          name,
		Kind:          kind,
		CanBeFollowed: canBeFollowed,
		Followers:     models.IDList{},
		Members:       models.IDList{},
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// GetOrganization returns a single organization by id.
func (s *OrganizationService) GetOrganization(ctx context.Context, orgID uint) (*models.Organization, error) {
	return s.orgRepo.GetByID(ctx, orgID)
}

// SetVisibility flips the page-level follow flag and invalidates its
// cached copy.
func (s *OrganizationService) SetVisibility(ctx context.Context, orgID uint, canBeFollowed bool) (*models.Organization, error) {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	org.CanBeFollowed = canBeFollowed
	if err := s.db.WithContext(ctx).Save(org).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.InvalidatePageVisibility(ctx, orgID)
	return org, nil
}

// DeleteOrganization removes the page, its membership records, and the
// follow requests targeting it, pulling the page out of each follower's
// following list.
func (s *OrganizationService) DeleteOrganization(ctx context.Context, orgID uint) error {
	if _, err := s.orgRepo.GetByID(ctx, orgID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		members := repository.NewMemberRepository(tx)
		requests := repository.NewRequestRepository(tx)

		memberships, err := members.ListByOrganization(ctx, orgID)
		if err != nil {
			return err
		}
		for _, m := range memberships {
			if err := members.Delete(ctx, m.ID); err != nil {
				return err
			}
		}

		touching, err := requests.ListTouching(ctx, orgID)
		if err != nil {
			return err
		}
		for _, req := range touching {
			if req.RequesteeID != orgID || !req.RequesteeType.IsOrganization() {
				continue
			}
			_, ops, err := Transition(&req, EventReject)
			if err != nil {
				return err
			}
			if err := applyAdjacencyOps(tx.WithContext(ctx), ops); err != nil {
				return err
			}
			if err := requests.Delete(ctx, req.ID); err != nil {
				return err
			}
		}

		return repository.NewOrganizationRepository(tx).Delete(ctx, orgID)
	})
	if err != nil {
		return err
	}
	cache.InvalidatePageVisibility(ctx, orgID)
	return nil
}
