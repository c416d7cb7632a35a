package service

import (
	"context"
	"time"

	"weave/internal/models"
	"weave/internal/observability"
	"weave/internal/repository"

	"gorm.io/gorm"
)

// BlockChecker reports whether a block exists between two users in either
// direction. The request engine consults it to suppress follow eligibility.
type BlockChecker interface {
	IsBlocked(ctx context.Context, viewerID, ownerID uint) (bool, error)
}

// RequestService owns the relationship state machine: follow and friend
// requests, their acceptance, rejection and deletion, and the adjacency
// lists they maintain on both parties.
type RequestService struct {
	db          *gorm.DB
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
	orgRepo     repository.OrganizationRepository
	privacy     PrivacyReader
	blocks      BlockChecker
}

// NewRequestService returns a new RequestService.
func NewRequestService(
	db *gorm.DB,
	requestRepo repository.RequestRepository,
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	privacy PrivacyReader,
	blocks BlockChecker,
) *RequestService {
	return &RequestService{
		db:          db,
		requestRepo: requestRepo,
		userRepo:    userRepo,
		orgRepo:     orgRepo,
		privacy:     privacy,
		blocks:      blocks,
	}
}

// SendRequest creates a relationship request from requester to requestee.
//
// A FOLLOW against a user who requires friend requests is silently
// reinterpreted as a FRIEND request; the caller receives the FRIEND record.
// A FOLLOW against a followable target is created already ACCEPTED with the
// adjacency applied in the same transaction. Duplicate pairs surface as
// Conflict from the store.
func (s *RequestService) SendRequest(ctx context.Context, requesterID uint, requesteeID uint, requesteeType models.EntityType, kind models.RequestType) (*models.Request, error) {
	span, ctx := observability.StartEngineSpan(ctx, "request", "send", requesterID, requesteeID)
	defer span.End()

	if !models.ValidRequestType(kind) {
		return nil, models.NewValidationError("invalid request type")
	}
	if !models.ValidEntityType(requesteeType) {
		return nil, models.NewValidationError("invalid requestee type")
	}
	if requesterID == requesteeID && requesteeType == models.EntityTypeUser {
		return nil, models.NewValidationError("cannot send a request to yourself")
	}
	if exists, err := s.userRepo.Exists(ctx, requesterID); err != nil {
		return nil, err
	} else if !exists {
		return nil, models.NewNotFoundError("User", requesterID)
	}

	req := &models.Request{
		RequesterID:   requesterID,
		RequesterType: models.EntityTypeUser,
		RequesteeID:   requesteeID,
		RequesteeType: requesteeType,
		RequestType:   kind,
		Status:        models.RequestStatusPending,
		RequestedAt:   time.Now(),
	}

	switch {
	case kind == models.RequestTypeFollow && requesteeType == models.EntityTypeUser:
		if err := s.prepareUserFollow(ctx, req); err != nil {
			return nil, err
		}
	case kind == models.RequestTypeFollow && requesteeType.IsOrganization():
		canFollow, err := s.privacy.GetPageVisibility(ctx, requesteeID)
		if err != nil {
			return nil, err
		}
		if !canFollow {
			return nil, models.NewPermissionDeniedError("this page does not accept followers")
		}
		req.Status = models.RequestStatusAccepted
	case kind == models.RequestTypeFriend:
		if requesteeType != models.EntityTypeUser {
			return nil, models.NewValidationError("friend requests are only valid between users")
		}
		if err := s.checkFriendTarget(ctx, requesterID, requesteeID); err != nil {
			return nil, err
		}
	default:
		return nil, models.NewValidationError("unsupported requestee type for this request")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewRequestRepository(tx).Create(ctx, req); err != nil {
			return err
		}
		if req.Status == models.RequestStatusAccepted {
			now := time.Now()
			req.AcceptedAt = &now
			if err := repository.NewRequestRepository(tx).Save(ctx, req); err != nil {
				return err
			}
			return applyAdjacencyOps(tx.WithContext(ctx), grantOps(req))
		}
		return nil
	})
	if err != nil {
		recordMutationError("request", err)
		span.SetError(err)
		return nil, err
	}
	recordMutation("request", "send")
	return req, nil
}

// prepareUserFollow routes a user-to-user follow through the target's
// privacy settings, mutating req in place.
func (s *RequestService) prepareUserFollow(ctx context.Context, req *models.Request) error {
	if exists, err := s.userRepo.Exists(ctx, req.RequesteeID); err != nil {
		return err
	} else if !exists {
		return models.NewNotFoundError("User", req.RequesteeID)
	}
	if blocked, err := s.blocks.IsBlocked(ctx, req.RequesterID, req.RequesteeID); err != nil {
		return err
	} else if blocked {
		return models.NewPermissionDeniedError("this user cannot be followed")
	}

	settings, err := s.privacy.GetPrivacySettings(ctx, req.RequesteeID)
	if err != nil {
		return err
	}
	switch {
	case !settings.CanBeFollowed:
		return models.NewPermissionDeniedError("this user cannot be followed")
	case settings.RequireFriendRequests:
		// Redirected into the friend flow; the caller gets a FRIEND
		// request where a FOLLOW might have been expected.
		req.RequestType = models.RequestTypeFriend
	default:
		req.Status = models.RequestStatusAccepted
	}
	return nil
}

func (s *RequestService) checkFriendTarget(ctx context.Context, requesterID, requesteeID uint) error {
	if exists, err := s.userRepo.Exists(ctx, requesteeID); err != nil {
		return err
	} else if !exists {
		return models.NewNotFoundError("User", requesteeID)
	}
	if blocked, err := s.blocks.IsBlocked(ctx, requesterID, requesteeID); err != nil {
		return err
	} else if blocked {
		return models.NewPermissionDeniedError("this user does not accept friend requests")
	}
	return nil
}

// UpdateRequestStatus drives the state machine. ACCEPTED applies the
// adjacency grant, REJECTED deletes the record and reverts any adjacency it
// produced, PENDING is a bare status reset clearing stale timestamps.
func (s *RequestService) UpdateRequestStatus(ctx context.Context, requestID uint, status models.RequestStatus) (*models.Request, error) {
	span, ctx := observability.StartEngineSpan(ctx, "request", "update_status", requestID)
	defer span.End()

	if !models.ValidRequestStatus(status) {
		return nil, models.NewValidationError("invalid request status")
	}
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	switch status {
	case models.RequestStatusAccepted:
		next, ops, err := Transition(req, EventAccept)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		req.Status = next
		req.AcceptedAt = &now
		req.RejectedAt = nil
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := repository.NewRequestRepository(tx).Save(ctx, req); err != nil {
				return err
			}
			return applyAdjacencyOps(tx.WithContext(ctx), ops)
		})
		if err != nil {
			recordMutationError("request", err)
			span.SetError(err)
			return nil, err
		}
		recordMutation("request", "accept")
		return req, nil

	case models.RequestStatusRejected:
		// Rejection is deletion: the record goes away and its adjacency
		// effects are reverted.
		if err := s.deleteRequestRecord(ctx, req); err != nil {
			span.SetError(err)
			return nil, err
		}
		now := time.Now()
		req.Status = models.RequestStatusRejected
		req.RejectedAt = &now
		return req, nil

	case models.RequestStatusPending:
		req.Status = models.RequestStatusPending
		req.AcceptedAt = nil
		req.RejectedAt = nil
		if err := s.requestRepo.Save(ctx, req); err != nil {
			return nil, err
		}
		return req, nil
	}
	return nil, models.NewValidationError("invalid request status")
}

// DeleteRequest removes the request and reverts the adjacency entries it
// created on both parties.
func (s *RequestService) DeleteRequest(ctx context.Context, requestID uint) error {
	span, ctx := observability.StartEngineSpan(ctx, "request", "delete", requestID)
	defer span.End()

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if err := s.deleteRequestRecord(ctx, req); err != nil {
		span.SetError(err)
		return err
	}
	return nil
}

// deleteRequestRecord reverts adjacency and deletes the record in one
// transaction. Adjacency pulls tolerate parties that no longer exist.
func (s *RequestService) deleteRequestRecord(ctx context.Context, req *models.Request) error {
	_, ops, err := Transition(req, EventReject)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyAdjacencyOps(tx.WithContext(ctx), ops); err != nil {
			return err
		}
		return repository.NewRequestRepository(tx).Delete(ctx, req.ID)
	})
	if err != nil {
		recordMutationError("request", err)
		return err
	}
	recordMutation("request", "delete")
	return nil
}

// GetRequest returns a single request by id.
func (s *RequestService) GetRequest(ctx context.Context, requestID uint) (*models.Request, error) {
	return s.requestRepo.GetByID(ctx, requestID)
}

// ListRequests returns the user's requests of the given kind and direction.
func (s *RequestService) ListRequests(ctx context.Context, userID uint, kind models.RequestType, direction repository.RequestDirection) ([]models.Request, error) {
	if !models.ValidRequestType(kind) {
		return nil, models.NewValidationError("invalid request type")
	}
	return s.requestRepo.List(ctx, userID, kind, direction)
}

// ListAcceptedRequests returns only the accepted subset, used to
// materialize follower and friend views on demand.
func (s *RequestService) ListAcceptedRequests(ctx context.Context, userID uint, kind models.RequestType, direction repository.RequestDirection) ([]models.Request, error) {
	if !models.ValidRequestType(kind) {
		return nil, models.NewValidationError("invalid request type")
	}
	return s.requestRepo.ListAccepted(ctx, userID, kind, direction)
}

// Followers resolves the user's followers adjacency list to public profiles.
func (s *RequestService) Followers(ctx context.Context, userID uint) ([]models.PublicProfile, error) {
	return s.resolveList(ctx, userID, repository.UserFollowers)
}

// Following resolves the user's following adjacency list to public profiles.
// Organization ids in the list are skipped.
func (s *RequestService) Following(ctx context.Context, userID uint) ([]models.PublicProfile, error) {
	return s.resolveList(ctx, userID, repository.UserFollowing)
}

// Friends resolves the user's friends adjacency list to public profiles.
func (s *RequestService) Friends(ctx context.Context, userID uint) ([]models.PublicProfile, error) {
	return s.resolveList(ctx, userID, repository.UserFriends)
}

func (s *RequestService) resolveList(ctx context.Context, userID uint, list repository.UserList) ([]models.PublicProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	var ids models.IDList
	switch list {
	case repository.UserFollowers:
		ids = user.Followers
	case repository.UserFollowing:
		ids = user.Following
	case repository.UserFriends:
		ids = user.Friends
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	profiles := make([]models.PublicProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Public())
	}
	return profiles, nil
}
