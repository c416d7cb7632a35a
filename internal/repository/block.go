package repository

import (
	"context"
	"errors"

	"weave/internal/models"

	"gorm.io/gorm"
)

// BlockRepository defines the interface for block data operations
type BlockRepository interface {
	Create(ctx context.Context, block *models.Block) error
	GetByPair(ctx context.Context, userID, blockedID uint) (*models.Block, error)
	Exists(ctx context.Context, userID, blockedID uint) (bool, error)
	Delete(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID uint) ([]models.Block, error)
	ListTouching(ctx context.Context, userID uint) ([]models.Block, error)
}

// blockRepository implements BlockRepository
type blockRepository struct {
	db *gorm.DB
}

// NewBlockRepository creates a new block repository
func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{db: db}
}

func (r *blockRepository) Create(ctx context.Context, block *models.Block) error {
	if err := r.db.WithContext(ctx).Create(block).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("user is already blocked", err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *blockRepository) GetByPair(ctx context.Context, userID, blockedID uint) (*models.Block, error) {
	var block models.Block
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND blocked_id = ?", userID, blockedID).
		First(&block).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Block", blockedID)
		}
		return nil, models.NewInternalError(err)
	}
	return &block, nil
}

func (r *blockRepository) Exists(ctx context.Context, userID, blockedID uint) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&models.Block{}).
		Where("user_id = ? AND blocked_id = ?", userID, blockedID).
		Count(&cnt).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return cnt > 0, nil
}

func (r *blockRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Block{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *blockRepository) ListByUser(ctx context.Context, userID uint) ([]models.Block, error) {
	var blocks []models.Block
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&blocks).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return blocks, nil
}

func (r *blockRepository) ListTouching(ctx context.Context, userID uint) ([]models.Block, error) {
	var blocks []models.Block
	err := r.db.WithContext(ctx).
		Where("user_id = ? OR blocked_id = ?", userID, userID).
		Find(&blocks).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return blocks, nil
}
