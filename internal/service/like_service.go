package service

import (
	"context"

	"weave/internal/models"
	"weave/internal/observability"
	"weave/internal/repository"

	"gorm.io/gorm"
)

// LikeService owns the like engine: idempotent creation keyed on
// (user, target, kind), symmetric deletion, and the likes adjacency lists
// on users and posts.
//
// Target existence is deliberately not verified here; callers own that
// check, and the cascade coordinator repairs any dangling like when the
// target is deleted.
type LikeService struct {
	db       *gorm.DB
	likeRepo repository.LikeRepository
	userRepo repository.UserRepository
}

// NewLikeService returns a new LikeService.
func NewLikeService(db *gorm.DB, likeRepo repository.LikeRepository, userRepo repository.UserRepository) *LikeService {
	return &LikeService{
		db:       db,
		likeRepo: likeRepo,
		userRepo: userRepo,
	}
}

// CreateLike records that the user likes the target. Calling it twice for
// the same key returns the already-stored like unchanged. On first insert
// the like's id is pushed into the user's likes list and, for post likes,
// into the post's likes list, all inside one transaction.
func (s *LikeService) CreateLike(ctx context.Context, userID, targetID uint, kind models.LikeKind) (*models.Like, error) {
	span, ctx := observability.StartEngineSpan(ctx, "like", "create", userID, targetID)
	defer span.End()

	if !models.ValidLikeKind(kind) {
		return nil, models.NewValidationError("invalid like kind")
	}
	if userID == 0 || targetID == 0 {
		return nil, models.NewValidationError("user and target ids are required")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var stored *models.Like
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := &models.Like{UserID: userID, AssociatedID: targetID, Kind: kind}
		var created bool
		var err error
		stored, created, err = repository.NewLikeRepository(tx).Upsert(ctx, like)
		if err != nil {
			return err
		}
		if !created {
			return nil
		}
		if err := repository.NewUserRepository(tx).PushList(ctx, userID, repository.UserLikes, stored.ID); err != nil {
			return err
		}
		if kind == models.LikeKindPost {
			return repository.NewPostRepository(tx).PushList(ctx, targetID, repository.PostLikes, stored.ID)
		}
		return nil
	})
	if err != nil {
		recordMutationError("like", err)
		span.SetError(err)
		return nil, err
	}
	stored.User = *user
	recordMutation("like", "create")
	return stored, nil
}

// DeleteLike removes the exact (user, target, kind) like and pulls its id
// from the user's and, for post likes, the post's likes list.
func (s *LikeService) DeleteLike(ctx context.Context, userID, targetID uint, kind models.LikeKind) error {
	span, ctx := observability.StartEngineSpan(ctx, "like", "delete", userID, targetID)
	defer span.End()

	if !models.ValidLikeKind(kind) {
		return models.NewValidationError("invalid like kind")
	}
	like, err := s.likeRepo.GetByKey(ctx, userID, targetID, kind)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewLikeRepository(tx).Delete(ctx, like.ID); err != nil {
			return err
		}
		if err := repository.NewUserRepository(tx).PullList(ctx, userID, repository.UserLikes, like.ID); err != nil {
			return err
		}
		if kind == models.LikeKindPost {
			return repository.NewPostRepository(tx).PullList(ctx, targetID, repository.PostLikes, like.ID)
		}
		return nil
	})
	if err != nil {
		recordMutationError("like", err)
		span.SetError(err)
		return err
	}
	recordMutation("like", "delete")
	return nil
}

// LikesForTarget returns all likes of the given kind on the target.
func (s *LikeService) LikesForTarget(ctx context.Context, targetID uint, kind models.LikeKind) ([]models.Like, error) {
	if !models.ValidLikeKind(kind) {
		return nil, models.NewValidationError("invalid like kind")
	}
	return s.likeRepo.ListByTarget(ctx, targetID, kind)
}

// LikesByUser returns every like the user has recorded.
func (s *LikeService) LikesByUser(ctx context.Context, userID uint) ([]models.Like, error) {
	return s.likeRepo.ListByUser(ctx, userID)
}

// LikesByUserAndKind returns the user's likes restricted to one kind.
func (s *LikeService) LikesByUserAndKind(ctx context.Context, userID uint, kind models.LikeKind) ([]models.Like, error) {
	if !models.ValidLikeKind(kind) {
		return nil, models.NewValidationError("invalid like kind")
	}
	return s.likeRepo.ListByUserAndKind(ctx, userID, kind)
}
