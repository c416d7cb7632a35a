package server

import (
	"weave/internal/models"

	"github.com/gofiber/fiber/v2"
)

type createCommentBody struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id"`
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var body createCommentBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, svcErr := s.commentService.CreateComment(ctx, userID, postID, body.ParentID, body.Content)
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetPostComments handles GET /api/posts/:id/comments
func (s *Server) GetPostComments(c *fiber.Ctx) error {
	ctx := c.Context()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, svcErr := s.commentService.ListCommentsByPost(ctx, postID)
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.JSON(fiber.Map{"comments": comments, "count": len(comments)})
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, svcErr := s.commentService.GetComment(ctx, commentID)
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	if comment.UserID != userID {
		return models.RespondWithAppError(c,
			models.NewPermissionDeniedError("only the author can delete a comment"))
	}

	if svcErr := s.commentService.DeleteComment(ctx, commentID); svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
