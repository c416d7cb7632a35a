package server

import (
	"weave/internal/models"
	"weave/internal/service"

	"github.com/gofiber/fiber/v2"
)

type addMemberBody struct {
	UserID uint              `json:"user_id"`
	Role   models.MemberRole `json:"role"`
}

// AddMember handles POST /api/organizations/:id/members
//
// Without a user_id in the body the authenticated caller joins themselves.
func (s *Server) AddMember(c *fiber.Ctx) error {
	ctx := c.Context()
	orgID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var body addMemberBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if body.UserID == 0 {
		body.UserID = currentUserID(c)
	}
	if body.Role == "" {
		body.Role = models.MemberRoleMember
	}

	org, svcErr := s.orgService.GetOrganization(ctx, orgID)
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}

	member, svcErr := s.memberService.AddMember(ctx, body.UserID, orgID, org.Kind, body.Role)
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.Status(fiber.StatusCreated).JSON(member)
}

// RemoveMember handles DELETE /api/members/:id
func (s *Server) RemoveMember(c *fiber.Ctx) error {
	ctx := c.Context()
	memberID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.memberService.RemoveMember(ctx, memberID); svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateMember handles PUT /api/members/:id
func (s *Server) UpdateMember(c *fiber.Ctx) error {
	ctx := c.Context()
	memberID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var patch service.MemberPatch
	if err := c.BodyParser(&patch); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	member, svcErr := s.memberService.UpdateMember(ctx, memberID, patch)
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.JSON(member)
}

// GetMembers handles GET /api/organizations/:id/members
func (s *Server) GetMembers(c *fiber.Ctx) error {
	ctx := c.Context()
	orgID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	members, svcErr := s.memberService.ListMembers(ctx, orgID)
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.JSON(fiber.Map{"members": members, "count": len(members)})
}

// GetMyMemberships handles GET /api/me/memberships
func (s *Server) GetMyMemberships(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	memberships, err := s.memberService.ListMemberships(ctx, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"memberships": memberships, "count": len(memberships)})
}
