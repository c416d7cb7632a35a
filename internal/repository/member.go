package repository

import (
	"context"
	"errors"

	"weave/internal/models"

	"gorm.io/gorm"
)

// MemberRepository defines the interface for membership data operations
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id uint) (*models.Member, error)
	GetByPair(ctx context.Context, userID, organizationID uint) (*models.Member, error)
	Save(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, id uint) error
	ListByOrganization(ctx context.Context, organizationID uint) ([]models.Member, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Member, error)
}

// memberRepository implements MemberRepository
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *memberRepository) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).Preload("User").First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Member", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &member, nil
}

func (r *memberRepository) GetByPair(ctx context.Context, userID, organizationID uint) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ?", userID, organizationID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // no membership exists
		}
		return nil, models.NewInternalError(err)
	}
	return &member, nil
}

func (r *memberRepository) Save(ctx context.Context, member *models.Member) error {
	if err := r.db.WithContext(ctx).Save(member).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *memberRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Member{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *memberRepository) ListByOrganization(ctx context.Context, organizationID uint) ([]models.Member, error) {
	var members []models.Member
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("organization_id = ?", organizationID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return members, nil
}

func (r *memberRepository) ListByUser(ctx context.Context, userID uint) ([]models.Member, error) {
	var members []models.Member
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&members).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return members, nil
}
