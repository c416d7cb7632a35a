package service

import (
	"context"

	"weave/internal/cache"
	"weave/internal/models"
	"weave/internal/observability"
	"weave/internal/repository"

	"gorm.io/gorm"
)

// BlockService owns the block engine. A block is one record plus one entry
// in the blocker's privacy-settings block list; the pair is written and
// removed inside a single transaction so neither can exist alone.
type BlockService struct {
	db           *gorm.DB
	blockRepo    repository.BlockRepository
	settingsRepo repository.SettingsRepository
	userRepo     repository.UserRepository
}

// NewBlockService returns a new BlockService.
func NewBlockService(db *gorm.DB, blockRepo repository.BlockRepository, settingsRepo repository.SettingsRepository, userRepo repository.UserRepository) *BlockService {
	return &BlockService{
		db:           db,
		blockRepo:    blockRepo,
		settingsRepo: settingsRepo,
		userRepo:     userRepo,
	}
}

// BlockUser records that blocker blocks target. Blocking an already
// blocked user surfaces as Conflict.
func (s *BlockService) BlockUser(ctx context.Context, blockerID, targetID uint) (*models.Block, error) {
	span, ctx := observability.StartEngineSpan(ctx, "block", "block", blockerID, targetID)
	defer span.End()

	if blockerID == targetID {
		return nil, models.NewValidationError("cannot block yourself")
	}
	for _, id := range []uint{blockerID, targetID} {
		if exists, err := s.userRepo.Exists(ctx, id); err != nil {
			return nil, err
		} else if !exists {
			return nil, models.NewNotFoundError("User", id)
		}
	}

	block := &models.Block{UserID: blockerID, BlockedID: targetID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewBlockRepository(tx).Create(ctx, block); err != nil {
			return err
		}
		return repository.NewSettingsRepository(tx).PushBlockList(ctx, blockerID, block.ID)
	})
	if err != nil {
		recordMutationError("block", err)
		span.SetError(err)
		return nil, err
	}

	cache.InvalidatePrivacySettings(ctx, blockerID)
	cache.InvalidateBlocked(ctx, blockerID, targetID)
	cache.InvalidateBlocked(ctx, targetID, blockerID)
	recordMutation("block", "block")
	return block, nil
}

// UnblockUser removes the block record and its block-list entry.
func (s *BlockService) UnblockUser(ctx context.Context, blockerID, targetID uint) error {
	span, ctx := observability.StartEngineSpan(ctx, "block", "unblock", blockerID, targetID)
	defer span.End()

	block, err := s.blockRepo.GetByPair(ctx, blockerID, targetID)
	if err != nil {
		return err
	}
	if block == nil {
		return models.NewNotFoundError("Block", targetID)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewBlockRepository(tx).Delete(ctx, block.ID); err != nil {
			return err
		}
		return repository.NewSettingsRepository(tx).PullBlockList(ctx, blockerID, block.ID)
	})
	if err != nil {
		recordMutationError("block", err)
		span.SetError(err)
		return err
	}

	cache.InvalidatePrivacySettings(ctx, blockerID)
	cache.InvalidateBlocked(ctx, blockerID, targetID)
	cache.InvalidateBlocked(ctx, targetID, blockerID)
	recordMutation("block", "unblock")
	return nil
}

// IsBlocked reports whether a block exists between the two users in either
// direction. It is a query primitive; enforcement belongs to the callers.
func (s *BlockService) IsBlocked(ctx context.Context, viewerID, ownerID uint) (bool, error) {
	var blocked bool
	err := cache.Aside(ctx, cache.BlockedKey(viewerID, ownerID), &blocked, cache.BlockedTTL, func() error {
		exists, err := s.blockRepo.Exists(ctx, viewerID, ownerID)
		if err != nil {
			return err
		}
		if !exists {
			exists, err = s.blockRepo.Exists(ctx, ownerID, viewerID)
			if err != nil {
				return err
			}
		}
		blocked = exists
		return nil
	})
	if err != nil {
		return false, err
	}
	return blocked, nil
}

// ListBlocks returns every block the user has placed.
func (s *BlockService) ListBlocks(ctx context.Context, userID uint) ([]models.Block, error) {
	return s.blockRepo.ListByUser(ctx, userID)
}
