package service

import (
	"context"
	"time"

	"weave/internal/cache"
	"weave/internal/models"
	"weave/internal/observability"
	"weave/internal/repository"

	"gorm.io/gorm"
)

// CascadeService is the cascade coordinator. It runs whenever a post,
// comment or user is deleted and removes every dependent record plus the
// adjacency entries pointing at them, all inside a single transaction.
type CascadeService struct {
	db *gorm.DB
}

// NewCascadeService returns a new CascadeService.
func NewCascadeService(db *gorm.DB) *CascadeService {
	return &CascadeService{db: db}
}

// DeletePost removes the post, every like and comment attached to it
// (including reply subtrees and their likes), and all ids referencing them
// in user adjacency lists.
func (s *CascadeService) DeletePost(ctx context.Context, postID uint) error {
	span, ctx := observability.StartEngineSpan(ctx, "cascade", "delete_post", postID)
	defer span.End()
	start := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deletePostTx(ctx, tx, postID)
	})
	if err != nil {
		recordMutationError("cascade", err)
		span.SetError(err)
		return err
	}
	observability.ObserveCascade("post", start)
	recordMutation("cascade", "delete_post")
	return nil
}

// DeleteComment removes the comment, its reply subtree, every like on any
// comment in that subtree, and the ids referencing them.
func (s *CascadeService) DeleteComment(ctx context.Context, commentID uint) error {
	span, ctx := observability.StartEngineSpan(ctx, "cascade", "delete_comment", commentID)
	defer span.End()
	start := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comment, err := repository.NewCommentRepository(tx).GetByID(ctx, commentID)
		if err != nil {
			return err
		}
		return deleteCommentTreeTx(ctx, tx, comment, true)
	})
	if err != nil {
		recordMutationError("cascade", err)
		span.SetError(err)
		return err
	}
	observability.ObserveCascade("comment", start)
	recordMutation("cascade", "delete_comment")
	return nil
}

// DeleteUser removes the user and every record referencing them: authored
// posts and comments with their full cascades, likes in both directions,
// requests (reverting accepted adjacency on the surviving party), blocks,
// memberships, the profile page and all settings documents.
func (s *CascadeService) DeleteUser(ctx context.Context, userID uint) error {
	span, ctx := observability.StartEngineSpan(ctx, "cascade", "delete_user", userID)
	defer span.End()
	start := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteUserTx(ctx, tx, userID)
	})
	if err != nil {
		recordMutationError("cascade", err)
		span.SetError(err)
		return err
	}

	cache.InvalidatePrivacySettings(ctx, userID)
	observability.ObserveCascade("user", start)
	recordMutation("cascade", "delete_user")
	return nil
}

func deletePostTx(ctx context.Context, tx *gorm.DB, postID uint) error {
	posts := repository.NewPostRepository(tx)
	comments := repository.NewCommentRepository(tx)
	likes := repository.NewLikeRepository(tx)
	users := repository.NewUserRepository(tx)

	post, err := posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	// Replies carry the post id too, so this is the whole comment tree.
	tree, err := comments.ListByPost(ctx, postID)
	if err != nil {
		return err
	}
	commentIDs := make([]uint, 0, len(tree))
	for _, c := range tree {
		commentIDs = append(commentIDs, c.ID)
	}

	postLikes, err := likes.ListByTarget(ctx, postID, models.LikeKindPost)
	if err != nil {
		return err
	}
	commentLikes, err := likes.FindByTargets(ctx, commentIDs, []models.LikeKind{models.LikeKindComment, models.LikeKindReply})
	if err != nil {
		return err
	}
	if err := releaseLikesTx(ctx, tx, append(postLikes, commentLikes...)); err != nil {
		return err
	}

	byAuthor := map[uint][]uint{}
	for _, c := range tree {
		byAuthor[c.UserID] = append(byAuthor[c.UserID], c.ID)
	}
	for authorID, ids := range byAuthor {
		if err := users.PullListAll(ctx, authorID, repository.UserComments, ids); err != nil {
			return err
		}
	}
	if err := comments.DeleteByIDs(ctx, commentIDs); err != nil {
		return err
	}
	observability.CascadeDeletedRecords.WithLabelValues("comments").Add(float64(len(commentIDs)))

	if err := users.PullList(ctx, post.UserID, repository.UserPosts, postID); err != nil {
		return err
	}
	if err := posts.Delete(ctx, postID); err != nil {
		return err
	}
	observability.CascadeDeletedRecords.WithLabelValues("posts").Inc()
	return nil
}

// deleteCommentTreeTx removes the comment and its reply subtree. When
// detach is true the root is also pulled from its parent's list (the
// post's comments or the parent comment's children); a post cascade skips
// that because the parent is being deleted anyway.
func deleteCommentTreeTx(ctx context.Context, tx *gorm.DB, root *models.Comment, detach bool) error {
	comments := repository.NewCommentRepository(tx)
	likes := repository.NewLikeRepository(tx)
	users := repository.NewUserRepository(tx)
	posts := repository.NewPostRepository(tx)

	// Worklist traversal instead of recursion; reply chains can be deep.
	subtree := []*models.Comment{root}
	stack := []uint(root.ChildIDs)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		child, err := comments.GetByID(ctx, id)
		if err != nil {
			if models.IsNotFound(err) {
				continue
			}
			return err
		}
		subtree = append(subtree, child)
		stack = append(stack, child.ChildIDs...)
	}

	ids := make([]uint, 0, len(subtree))
	for _, c := range subtree {
		ids = append(ids, c.ID)
	}

	treeLikes, err := likes.FindByTargets(ctx, ids, []models.LikeKind{models.LikeKindComment, models.LikeKindReply})
	if err != nil {
		return err
	}
	if err := releaseLikesTx(ctx, tx, treeLikes); err != nil {
		return err
	}

	if detach {
		if root.IsReply() {
			if err := comments.PullChild(ctx, *root.ParentID, root.ID); err != nil {
				return err
			}
		} else {
			if err := posts.PullList(ctx, root.PostID, repository.PostComments, root.ID); err != nil {
				return err
			}
		}
	}

	byAuthor := map[uint][]uint{}
	for _, c := range subtree {
		byAuthor[c.UserID] = append(byAuthor[c.UserID], c.ID)
	}
	for authorID, authorIDs := range byAuthor {
		if err := users.PullListAll(ctx, authorID, repository.UserComments, authorIDs); err != nil {
			return err
		}
	}

	if err := comments.DeleteByIDs(ctx, ids); err != nil {
		return err
	}
	observability.CascadeDeletedRecords.WithLabelValues("comments").Add(float64(len(ids)))
	return nil
}

// releaseLikesTx deletes like records and pulls their ids out of each
// liking user's likes list.
func releaseLikesTx(ctx context.Context, tx *gorm.DB, toRelease []models.Like) error {
	if len(toRelease) == 0 {
		return nil
	}
	users := repository.NewUserRepository(tx)
	likes := repository.NewLikeRepository(tx)

	byUser := map[uint][]uint{}
	ids := make([]uint, 0, len(toRelease))
	for _, l := range toRelease {
		byUser[l.UserID] = append(byUser[l.UserID], l.ID)
		ids = append(ids, l.ID)
	}
	for userID, likeIDs := range byUser {
		if err := users.PullListAll(ctx, userID, repository.UserLikes, likeIDs); err != nil {
			return err
		}
	}
	if err := likes.DeleteByIDs(ctx, ids); err != nil {
		return err
	}
	observability.CascadeDeletedRecords.WithLabelValues("likes").Add(float64(len(ids)))
	return nil
}

func deleteUserTx(ctx context.Context, tx *gorm.DB, userID uint) error {
	users := repository.NewUserRepository(tx)
	posts := repository.NewPostRepository(tx)
	comments := repository.NewCommentRepository(tx)
	likes := repository.NewLikeRepository(tx)
	requests := repository.NewRequestRepository(tx)
	blocks := repository.NewBlockRepository(tx)
	members := repository.NewMemberRepository(tx)
	settings := repository.NewSettingsRepository(tx)
	orgs := repository.NewOrganizationRepository(tx)

	if _, err := users.GetByID(ctx, userID); err != nil {
		return err
	}

	// Authored posts first: their cascades also clear the user's comments
	// and likes within those posts.
	authored, err := posts.ListByUser(ctx, userID, -1, 0)
	if err != nil {
		return err
	}
	for _, post := range authored {
		if err := deletePostTx(ctx, tx, post.ID); err != nil {
			return err
		}
	}

	// Comments left on other users' posts survive the step above.
	remaining, err := comments.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, c := range remaining {
		fresh, err := comments.GetByID(ctx, c.ID)
		if err != nil {
			if models.IsNotFound(err) {
				continue
			}
			return err
		}
		if err := deleteCommentTreeTx(ctx, tx, fresh, true); err != nil {
			return err
		}
	}

	// Likes the user gave elsewhere.
	given, err := likes.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, l := range given {
		if l.Kind == models.LikeKindPost {
			if err := posts.PullList(ctx, l.AssociatedID, repository.PostLikes, l.ID); err != nil {
				return err
			}
		}
	}
	givenIDs := make([]uint, 0, len(given))
	for _, l := range given {
		givenIDs = append(givenIDs, l.ID)
	}
	if err := likes.DeleteByIDs(ctx, givenIDs); err != nil {
		return err
	}
	observability.CascadeDeletedRecords.WithLabelValues("likes").Add(float64(len(givenIDs)))

	// Likes on the user's profile.
	received, err := likes.ListByTarget(ctx, userID, models.LikeKindUser)
	if err != nil {
		return err
	}
	if err := releaseLikesTx(ctx, tx, received); err != nil {
		return err
	}

	// Requests in either direction. Reverting the grant pulls this user's
	// id from the surviving party's adjacency lists; pulls on the user
	// being deleted are skipped once the row is gone.
	touching, err := requests.ListTouching(ctx, userID)
	if err != nil {
		return err
	}
	for _, req := range touching {
		// Requestee ids are polymorphic; an organization's id colliding
		// with this user's is not a match.
		if req.RequesterID != userID && !(req.RequesteeID == userID && req.RequesteeType == models.EntityTypeUser) {
			continue
		}
		_, ops, err := Transition(&req, EventReject)
		if err != nil {
			return err
		}
		if err := applyAdjacencyOps(tx.WithContext(ctx), ops); err != nil {
			return err
		}
		if err := requests.Delete(ctx, req.ID); err != nil {
			return err
		}
		observability.CascadeDeletedRecords.WithLabelValues("requests").Inc()
	}

	// Blocks in either direction; blocks placed by others keep their
	// settings block list in step.
	blocked, err := blocks.ListTouching(ctx, userID)
	if err != nil {
		return err
	}
	for _, b := range blocked {
		if b.UserID != userID {
			if err := settings.PullBlockList(ctx, b.UserID, b.ID); err != nil {
				return err
			}
			cache.InvalidatePrivacySettings(ctx, b.UserID)
		}
		if err := blocks.Delete(ctx, b.ID); err != nil {
			return err
		}
		observability.CascadeDeletedRecords.WithLabelValues("blocks").Inc()
	}

	// Memberships.
	memberships, err := members.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, m := range memberships {
		if err := orgs.PullList(ctx, m.OrganizationID, repository.OrganizationMembers, m.ID); err != nil {
			return err
		}
		if err := members.Delete(ctx, m.ID); err != nil {
			return err
		}
		observability.CascadeDeletedRecords.WithLabelValues("members").Inc()
	}

	// Profile page and settings documents.
	if err := settings.DeleteProfilePage(ctx, userID); err != nil {
		return err
	}
	if err := settings.DeleteAll(ctx, userID); err != nil {
		return err
	}

	if err := users.Delete(ctx, userID); err != nil {
		return err
	}
	observability.CascadeDeletedRecords.WithLabelValues("users").Inc()
	return nil
}
