package server

import (
	"weave/internal/models"
	"weave/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type sendRequestBody struct {
	RequesteeID   uint               `json:"requestee_id"`
	RequesteeType models.EntityType  `json:"requestee_type"`
	RequestType   models.RequestType `json:"request_type"`
}

// SendRequest handles POST /api/requests
//
// A FOLLOW aimed at a user who requires friend requests comes back as a
// FRIEND request; clients should read request_type from the response
// rather than assume it matches what they sent.
func (s *Server) SendRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var body sendRequestBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if body.RequesteeType == "" {
		body.RequesteeType = models.EntityTypeUser
	}

	request, err := s.requestService.SendRequest(ctx, userID, body.RequesteeID, body.RequesteeType, body.RequestType)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

// ListRequests handles GET /api/requests?kind=&direction=&accepted=
func (s *Server) ListRequests(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	kind := models.RequestType(c.Query("kind", string(models.RequestTypeFollow)))
	direction := repository.RequestDirection(c.Query("direction", string(repository.DirectionReceived)))
	if direction != repository.DirectionSent && direction != repository.DirectionReceived {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("direction must be sent or received"))
	}

	var requests []models.Request
	var err error
	if c.QueryBool("accepted", false) {
		requests, err = s.requestService.ListAcceptedRequests(ctx, userID, kind, direction)
	} else {
		requests, err = s.requestService.ListRequests(ctx, userID, kind, direction)
	}
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"requests": requests, "count": len(requests)})
}

type updateStatusBody struct {
	Status models.RequestStatus `json:"status"`
}

// UpdateRequestStatus handles PUT /api/requests/:id/status
func (s *Server) UpdateRequestStatus(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	requestID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var body updateStatusBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	request, svcErr := s.requestService.GetRequest(ctx, requestID)
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	// Only the receiving side decides acceptance; either side may reject.
	if body.Status == models.RequestStatusAccepted &&
		!(request.RequesteeType == models.EntityTypeUser && request.RequesteeID == userID) {
		return models.RespondWithAppError(c,
			models.NewPermissionDeniedError("only the requestee can accept a request"))
	}
	if request.RequesterID != userID &&
		!(request.RequesteeType == models.EntityTypeUser && request.RequesteeID == userID) {
		return models.RespondWithAppError(c,
			models.NewPermissionDeniedError("you are not a party to this request"))
	}

	updated, svcErr := s.requestService.UpdateRequestStatus(ctx, requestID, body.Status)
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.JSON(updated)
}

// DeleteRequest handles DELETE /api/requests/:id
func (s *Server) DeleteRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	requestID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	request, svcErr := s.requestService.GetRequest(ctx, requestID)
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	if request.RequesterID != userID &&
		!(request.RequesteeType == models.EntityTypeUser && request.RequesteeID == userID) {
		return models.RespondWithAppError(c,
			models.NewPermissionDeniedError("you are not a party to this request"))
	}

	if err := s.requestService.DeleteRequest(ctx, requestID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	ctx := c.Context()
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	profiles, svcErr := s.requestService.Followers(ctx, userID)
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.JSON(fiber.Map{"users": profiles, "count": len(profiles)})
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	ctx := c.Context()
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	profiles, svcErr := s.requestService.Following(ctx, userID)
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.JSON(fiber.Map{"users": profiles, "count": len(profiles)})
}

// GetFriends handles GET /api/users/:id/friends
func (s *Server) GetFriends(c *fiber.Ctx) error {
	ctx := c.Context()
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	profiles, svcErr := s.requestService.Friends(ctx, userID)
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.JSON(fiber.Map{"users": profiles, "count": len(profiles)})
}
