package repository

import (
	"context"
	"errors"

	"weave/internal/models"

	"gorm.io/gorm"
)

// OrganizationList names one of the organization's adjacency list columns.
type OrganizationList string

const (
	OrganizationFollowers OrganizationList = "followers"
	OrganizationMembers   OrganizationList = "members"
)

// OrganizationRepository defines the interface for organization data operations
type OrganizationRepository interface {
	Create(ctx context.Context, org *models.Organization) error
	GetByID(ctx context.Context, id uint) (*models.Organization, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Delete(ctx context.Context, id uint) error
	PushList(ctx context.Context, orgID uint, list OrganizationList, value uint) error
	PullList(ctx context.Context, orgID uint, list OrganizationList, value uint) error
}

type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) Create(ctx context.Context, org *models.Organization) error {
	if err := r.db.WithContext(ctx).Create(org).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *organizationRepository) GetByID(ctx context.Context, id uint) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).First(&org, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Organization", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &org, nil
}

func (r *organizationRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&models.Organization{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return cnt > 0, nil
}

func (r *organizationRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Organization{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *organizationRepository) PushList(ctx context.Context, orgID uint, list OrganizationList, value uint) error {
	return pushListID(ctx, r.db, &models.Organization{}, orgID, string(list), value)
}

func (r *organizationRepository) PullList(ctx context.Context, orgID uint, list OrganizationList, value uint) error {
	return pullListID(ctx, r.db, &models.Organization{}, orgID, string(list), value)
}
