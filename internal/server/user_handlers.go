package server

import (
	"weave/internal/models"
	"weave/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createUserBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
}

// CreateUser handles POST /api/users
func (s *Server) CreateUser(c *fiber.Ctx) error {
	ctx := c.Context()

	var body createUserBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.CreateUser(ctx, body.Username, body.Email, body.Bio)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetUser handles GET /api/users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	ctx := c.Context()
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, svcErr := s.userService.GetUser(ctx, userID)
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.JSON(user)
}

// DeleteMe handles DELETE /api/me
func (s *Server) DeleteMe(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	if err := s.userService.DeleteUser(ctx, userID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetMyPrivacySettings handles GET /api/me/settings/privacy
func (s *Server) GetMyPrivacySettings(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	settings, err := s.settingsService.GetPrivacySettings(ctx, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(settings)
}

// UpdateMyPrivacySettings handles PUT /api/me/settings/privacy
func (s *Server) UpdateMyPrivacySettings(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var patch service.PrivacyPatch
	if err := c.BodyParser(&patch); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	settings, err := s.settingsService.UpdatePrivacySettings(ctx, userID, patch)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(settings)
}
