package service

import (
	"context"
	"strings"

	"weave/internal/models"
	"weave/internal/repository"

	"gorm.io/gorm"
)

// CommentService provides comment and reply CRUD. A reply is a comment
// whose ParentID points at another comment on the same post; the parent
// tracks it in its children list instead of the post.
type CommentService struct {
	db          *gorm.DB
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	cascade     *CascadeService
}

// NewCommentService returns a new CommentService.
func NewCommentService(db *gorm.DB, commentRepo repository.CommentRepository, postRepo repository.PostRepository, userRepo repository.UserRepository, cascade *CascadeService) *CommentService {
	return &CommentService{
		db:          db,
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		cascade:     cascade,
	}
}

// CreateComment stores the comment and links it into the post's comments
// list, or the parent comment's children list when it is a reply, plus the
// author's comments list, all in one transaction.
func (s *CommentService) CreateComment(ctx context.Context, userID, postID uint, parentID *uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("content is required")
	}
	if exists, err := s.userRepo.Exists(ctx, userID); err != nil {
		return nil, err
	} else if !exists {
		return nil, models.NewNotFoundError("User", userID)
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	if parentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, models.NewValidationError("parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		UserID:   userID,
		PostID:   postID,
		ParentID: parentID,
		Content:  content,
		ChildIDs: models.IDList{},
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewCommentRepository(tx).Create(ctx, comment); err != nil {
			return err
		}
		if parentID != nil {
			if err := repository.NewCommentRepository(tx).PushChild(ctx, *parentID, comment.ID); err != nil {
				return err
			}
		} else {
			if err := repository.NewPostRepository(tx).PushList(ctx, postID, repository.PostComments, comment.ID); err != nil {
				return err
			}
		}
		return repository.NewUserRepository(tx).PushList(ctx, userID, repository.UserComments, comment.ID)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// GetComment returns a single comment by id.
func (s *CommentService) GetComment(ctx context.Context, commentID uint) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, commentID)
}

// ListCommentsByPost returns every comment on the post, replies included,
// oldest first.
func (s *CommentService) ListCommentsByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

// DeleteComment removes the comment and its reply subtree.
func (s *CommentService) DeleteComment(ctx context.Context, commentID uint) error {
	return s.cascade.DeleteComment(ctx, commentID)
}
