package service

import (
	"fmt"

	"weave/internal/models"
	"weave/internal/repository"

	"gorm.io/gorm"
)

// ListAction says whether an adjacency op adds or removes an id.
type ListAction string

const (
	ListPush ListAction = "push"
	ListPull ListAction = "pull"
)

// ListOwner selects the collection whose document the op patches.
type ListOwner string

const (
	OwnerUser         ListOwner = "user"
	OwnerOrganization ListOwner = "organization"
)

// AdjacencyOp is one atomic array patch on a single document. The request
// state machine emits these instead of touching the store, so every status
// change's side effects can be inspected and tested on their own.
type AdjacencyOp struct {
	Action  ListAction
	Owner   ListOwner
	OwnerID uint
	List    string
	Value   uint
}

// RequestEvent is an external action applied to a request.
type RequestEvent string

const (
	// EventAccept confirms a pending request.
	EventAccept RequestEvent = "accept"
	// EventReject removes the request and reverts any adjacency it granted.
	// Deletion uses the same path.
	EventReject RequestEvent = "reject"
	// EventReset returns the status to PENDING without side effects.
	EventReset RequestEvent = "reset"
)

// grantOps returns the adjacency patches that materialize an accepted
// request on both parties.
func grantOps(req *models.Request) []AdjacencyOp {
	switch req.RequestType {
	case models.RequestTypeFollow:
		target := OwnerUser
		if req.RequesteeType.IsOrganization() {
			target = OwnerOrganization
		}
		return []AdjacencyOp{
			{Action: ListPush, Owner: target, OwnerID: req.RequesteeID, List: string(repository.UserFollowers), Value: req.RequesterID},
			{Action: ListPush, Owner: OwnerUser, OwnerID: req.RequesterID, List: string(repository.UserFollowing), Value: req.RequesteeID},
		}
	case models.RequestTypeFriend:
		return []AdjacencyOp{
			{Action: ListPush, Owner: OwnerUser, OwnerID: req.RequesterID, List: string(repository.UserFriends), Value: req.RequesteeID},
			{Action: ListPush, Owner: OwnerUser, OwnerID: req.RequesteeID, List: string(repository.UserFriends), Value: req.RequesterID},
		}
	}
	return nil
}

// revokeOps returns the inverse of grantOps.
func revokeOps(req *models.Request) []AdjacencyOp {
	ops := grantOps(req)
	for i := range ops {
		ops[i].Action = ListPull
	}
	return ops
}

// Transition is the request state machine: given the stored request and an
// event, it returns the next status and the adjacency patches to apply.
// It never touches the store.
func Transition(req *models.Request, event RequestEvent) (models.RequestStatus, []AdjacencyOp, error) {
	switch event {
	case EventAccept:
		if req.Status != models.RequestStatusPending {
			return req.Status, nil, models.NewValidationError("only pending requests can be accepted")
		}
		return models.RequestStatusAccepted, grantOps(req), nil
	case EventReject:
		if req.Status == models.RequestStatusAccepted {
			return models.RequestStatusRejected, revokeOps(req), nil
		}
		return models.RequestStatusRejected, nil, nil
	case EventReset:
		return models.RequestStatusPending, nil, nil
	}
	return req.Status, nil, models.NewValidationError(fmt.Sprintf("unknown request event %q", event))
}

// applyAdjacencyOps replays a batch of patches against the store. Patches
// on documents that no longer exist are skipped, so reverting an edge
// touching a deleted user cannot fail the surrounding transaction.
func applyAdjacencyOps(tx *gorm.DB, ops []AdjacencyOp) error {
	users := repository.NewUserRepository(tx)
	orgs := repository.NewOrganizationRepository(tx)
	ctx := tx.Statement.Context

	for _, op := range ops {
		var err error
		switch op.Owner {
		case OwnerUser:
			if op.Action == ListPush {
				err = users.PushList(ctx, op.OwnerID, repository.UserList(op.List), op.Value)
			} else {
				err = users.PullList(ctx, op.OwnerID, repository.UserList(op.List), op.Value)
			}
		case OwnerOrganization:
			if op.Action == ListPush {
				err = orgs.PushList(ctx, op.OwnerID, repository.OrganizationList(op.List), op.Value)
			} else {
				err = orgs.PullList(ctx, op.OwnerID, repository.OrganizationList(op.List), op.Value)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}
