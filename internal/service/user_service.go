package service

import (
	"context"
	"strings"

	"weave/internal/models"
	"weave/internal/repository"

	"gorm.io/gorm"
)

// UserService provides user CRUD. Creation seeds the settings documents
// and profile page; deletion hands off to the cascade coordinator.
type UserService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	cascade  *CascadeService
}

// NewUserService returns a new UserService.
func NewUserService(db *gorm.DB, userRepo repository.UserRepository, cascade *CascadeService) *UserService {
	return &UserService{
		db:       db,
		userRepo: userRepo,
		cascade:  cascade,
	}
}

// CreateUser registers a user together with their default settings and
// profile page. Duplicate usernames or emails surface as Conflict.
func (s *UserService) CreateUser(ctx context.Context, username, email, bio string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if username == "" {
		return nil, models.NewValidationError("username is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, models.NewValidationError("a valid email is required")
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		Bio:       bio,
		Followers: models.IDList{},
		Following: models.IDList{},
		Friends:   models.IDList{},
		Likes:     models.IDList{},
		Posts:     models.IDList{},
		Comments:  models.IDList{},
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewUserRepository(tx).Create(ctx, user); err != nil {
			return err
		}
		return repository.NewSettingsRepository(tx).CreateDefaults(ctx, user.ID)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser returns the full user document, adjacency lists included.
func (s *UserService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// GetProfile returns just the public profile fields.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.PublicProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := user.Public()
	return &profile, nil
}

// DeleteUser removes the user and every record referencing them.
func (s *UserService) DeleteUser(ctx context.Context, userID uint) error {
	return s.cascade.DeleteUser(ctx, userID)
}
