package server

import (
	"weave/internal/models"

	"github.com/gofiber/fiber/v2"
)

type likeRequest struct {
	TargetID uint            `json:"target_id"`
	Kind     models.LikeKind `json:"kind"`
}

// CreateLike handles POST /api/likes
func (s *Server) CreateLike(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var body likeRequest
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	like, err := s.likeService.CreateLike(ctx, userID, body.TargetID, body.Kind)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(like)
}

// DeleteLike handles DELETE /api/likes
func (s *Server) DeleteLike(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var body likeRequest
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.likeService.DeleteLike(ctx, userID, body.TargetID, body.Kind); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetTargetLikes handles GET /api/posts/:id/likes
func (s *Server) GetTargetLikes(c *fiber.Ctx) error {
	ctx := c.Context()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	likes, svcErr := s.likeService.LikesForTarget(ctx, postID, models.LikeKindPost)
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.JSON(fiber.Map{"likes": likes, "count": len(likes)})
}

// GetTargetLikesByQuery handles GET /api/likes?target_id=&kind=
func (s *Server) GetTargetLikesByQuery(c *fiber.Ctx) error {
	ctx := c.Context()
	targetID := uint(c.QueryInt("target_id", 0))
	kind := models.LikeKind(c.Query("kind"))
	if targetID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("target_id is required"))
	}

	likes, err := s.likeService.LikesForTarget(ctx, targetID, kind)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"likes": likes, "count": len(likes)})
}

// GetUserLikes handles GET /api/users/:id/likes?kind=
func (s *Server) GetUserLikes(c *fiber.Ctx) error {
	ctx := c.Context()
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var likes []models.Like
	var svcErr error
	if kind := c.Query("kind"); kind != "" {
		likes, svcErr = s.likeService.LikesByUserAndKind(ctx, userID, models.LikeKind(kind))
	} else {
		likes, svcErr = s.likeService.LikesByUser(ctx, userID)
	}
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.JSON(fiber.Map{"likes": likes, "count": len(likes)})
}
