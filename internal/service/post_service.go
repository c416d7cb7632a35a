package service

import (
	"context"
	"strings"

	"weave/internal/models"
	"weave/internal/repository"

	"gorm.io/gorm"
)

// PostService provides post CRUD. Deletion hands off to the cascade
// coordinator so no like or comment survives the post.
type PostService struct {
	db       *gorm.DB
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	cascade  *CascadeService
}

// NewPostService returns a new PostService.
func NewPostService(db *gorm.DB, postRepo repository.PostRepository, userRepo repository.UserRepository, cascade *CascadeService) *PostService {
	return &PostService{
		db:       db,
		postRepo: postRepo,
		userRepo: userRepo,
		cascade:  cascade,
	}
}

// CreatePost stores the post and pushes its id into the author's posts
// list within one transaction.
func (s *PostService) CreatePost(ctx context.Context, userID uint, title, content string) (*models.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" {
		return nil, models.NewValidationError("title is required")
	}
	if content == "" {
		return nil, models.NewValidationError("content is required")
	}
	if exists, err := s.userRepo.Exists(ctx, userID); err != nil {
		return nil, err
	} else if !exists {
		return nil, models.NewNotFoundError("User", userID)
	}

	post := &models.Post{
		UserID:   userID,
		Title:    title,
		Content:  content,
		Likes:    models.IDList{},
		Comments: models.IDList{},
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewPostRepository(tx).Create(ctx, post); err != nil {
			return err
		}
		return repository.NewUserRepository(tx).PushList(ctx, userID, repository.UserPosts, post.ID)
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost returns a single post by id.
func (s *PostService) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// ListPostsByUser returns the user's posts, newest first.
func (s *PostService) ListPostsByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.postRepo.ListByUser(ctx, userID, limit, offset)
}

// DeletePost removes the post and everything attached to it.
func (s *PostService) DeletePost(ctx context.Context, postID uint) error {
	return s.cascade.DeletePost(ctx, postID)
}
