package server

import (
	"weave/internal/models"

	"github.com/gofiber/fiber/v2"
)

type createOrganizationBody struct {
	Name          string                  `json:"name"`
	Kind          models.OrganizationKind `json:"kind"`
	CanBeFollowed *bool                   `json:"can_be_followed"`
}

// CreateOrganization handles POST /api/organizations
func (s *Server) CreateOrganization(c *fiber.Ctx) error {
	ctx := c.Context()

	var body createOrganizationBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	canBeFollowed := true
	if body.CanBeFollowed != nil {
		canBeFollowed = *body.CanBeFollowed
	}

	org, err := s.orgService.CreateOrganization(ctx, body.Name, body.Kind, canBeFollowed)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(org)
}

// GetOrganization handles GET /api/organizations/:id
func (s *Server) GetOrganization(c *fiber.Ctx) error {
	ctx := c.Context()
	orgID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	org, svcErr := s.orgService.GetOrganization(ctx, orgID)
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.JSON(org)
}

type visibilityBody struct {
	CanBeFollowed bool `json:"can_be_followed"`
}

// SetOrganizationVisibility handles PUT /api/organizations/:id/visibility
func (s *Server) SetOrganizationVisibility(c *fiber.Ctx) error {
	ctx := c.Context()
	orgID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var body visibilityBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	org, svcErr := s.orgService.SetVisibility(ctx, orgID, body.CanBeFollowed)
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.JSON(org)
}

// DeleteOrganization handles DELETE /api/organizations/:id
func (s *Server) DeleteOrganization(c *fiber.Ctx) error {
	ctx := c.Context()
	orgID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.orgService.DeleteOrganization(ctx, orgID); svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
