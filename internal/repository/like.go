package repository

import (
	"context"
	"errors"

	"weave/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	// Upsert inserts the like if no record with the same
	// (user, target, kind) key exists, otherwise leaves the store
	// untouched. The returned like is always the stored record, and
	// created reports whether this call inserted it.
	Upsert(ctx context.Context, like *models.Like) (stored *models.Like, created bool, err error)
	GetByKey(ctx context.Context, userID, associatedID uint, kind models.LikeKind) (*models.Like, error)
	GetByID(ctx context.Context, id uint) (*models.Like, error)
	Delete(ctx context.Context, id uint) error
	DeleteByIDs(ctx context.Context, ids []uint) error
	ListByTarget(ctx context.Context, associatedID uint, kind models.LikeKind) ([]models.Like, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Like, error)
	ListByUserAndKind(ctx context.Context, userID uint, kind models.LikeKind) ([]models.Like, error)
	FindByTargets(ctx context.Context, associatedIDs []uint, kinds []models.LikeKind) ([]models.Like, error)
}

// likeRepository implements LikeRepository
type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Upsert(ctx context.Context, like *models.Like) (*models.Like, bool, error) {
	// ON CONFLICT DO NOTHING keyed on (user_id, associated_id, kind):
	// concurrent creates converge to exactly one stored record without a
	// check-then-act race.
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "associated_id"}, {Name: "kind"}},
			DoNothing: true,
		}).
		Create(like)
	if res.Error != nil {
		return nil, false, models.NewInternalError(res.Error)
	}

	created := res.RowsAffected > 0
	stored, err := r.GetByKey(ctx, like.UserID, like.AssociatedID, like.Kind)
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

func (r *likeRepository) GetByKey(ctx context.Context, userID, associatedID uint, kind models.LikeKind) (*models.Like, error) {
	var like models.Like
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ? AND associated_id = ? AND kind = ?", userID, associatedID, kind).
		First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Like", associatedID)
		}
		return nil, models.NewInternalError(err)
	}
	return &like, nil
}

func (r *likeRepository) GetByID(ctx context.Context, id uint) (*models.Like, error) {
	var like models.Like
	if err := r.db.WithContext(ctx).Preload("User").First(&like, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Like", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &like, nil
}

func (r *likeRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Like{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *likeRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Like{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *likeRepository) ListByTarget(ctx context.Context, associatedID uint, kind models.LikeKind) ([]models.Like, error) {
	var likes []models.Like
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("associated_id = ? AND kind = ?", associatedID, kind).
		Order("created_at DESC").
		Find(&likes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return likes, nil
}

func (r *likeRepository) ListByUser(ctx context.Context, userID uint) ([]models.Like, error) {
	var likes []models.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&likes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return likes, nil
}

func (r *likeRepository) ListByUserAndKind(ctx context.Context, userID uint, kind models.LikeKind) ([]models.Like, error) {
	var likes []models.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND kind = ?", userID, kind).
		Order("created_at DESC").
		Find(&likes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return likes, nil
}

func (r *likeRepository) FindByTargets(ctx context.Context, associatedIDs []uint, kinds []models.LikeKind) ([]models.Like, error) {
	if len(associatedIDs) == 0 || len(kinds) == 0 {
		return nil, nil
	}
	var likes []models.Like
	err := r.db.WithContext(ctx).
		Where("associated_id IN ? AND kind IN ?", associatedIDs, kinds).
		Find(&likes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return likes, nil
}
