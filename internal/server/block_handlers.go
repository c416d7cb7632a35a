package server

import (
	"weave/internal/models"

	"github.com/gofiber/fiber/v2"
)

// BlockUser handles POST /api/blocks/:userId
func (s *Server) BlockUser(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	block, svcErr := s.blockService.BlockUser(ctx, userID, targetID)
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.Status(fiber.StatusCreated).JSON(block)
}

// UnblockUser handles DELETE /api/blocks/:userId
func (s *Server) UnblockUser(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if svcErr := s.blockService.UnblockUser(ctx, userID, targetID); svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetBlockStatus handles GET /api/blocks/status/:userId
func (s *Server) GetBlockStatus(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	blocked, svcErr := s.blockService.IsBlocked(ctx, userID, targetID)
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.JSON(fiber.Map{"blocked": blocked})
}

// ListBlocks handles GET /api/blocks
func (s *Server) ListBlocks(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	blocks, err := s.blockService.ListBlocks(ctx, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"blocks": blocks, "count": len(blocks)})
}
