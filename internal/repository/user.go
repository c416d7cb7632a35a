package repository

import (
	"context"
	"errors"

	"weave/internal/models"

	"gorm.io/gorm"
)

// UserList names one of the user's denormalized adjacency list columns.
type UserList string

const (
	UserFollowers UserList = "followers"
	UserFollowing UserList = "following"
	UserFriends   UserList = "friends"
	UserLikes     UserList = "likes"
	UserPosts     UserList = "posts"
	UserComments  UserList = "comments"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Delete(ctx context.Context, id uint) error
	PushList(ctx context.Context, userID uint, list UserList, value uint) error
	PullList(ctx context.Context, userID uint, list UserList, value uint) error
	PullListAll(ctx context.Context, userID uint, list UserList, values []uint) error
}

// userRepository implements UserRepository
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("username or email already taken", err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return cnt > 0, nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) PushList(ctx context.Context, userID uint, list UserList, value uint) error {
	return pushListID(ctx, r.db, &models.User{}, userID, string(list), value)
}

func (r *userRepository) PullList(ctx context.Context, userID uint, list UserList, value uint) error {
	return pullListID(ctx, r.db, &models.User{}, userID, string(list), value)
}

func (r *userRepository) PullListAll(ctx context.Context, userID uint, list UserList, values []uint) error {
	return pullListIDs(ctx, r.db, &models.User{}, userID, string(list), values)
}
