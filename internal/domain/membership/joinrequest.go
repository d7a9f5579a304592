package membership

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/etaskify/server/internal/model"
)

// PendingJoinRequest is a pending join request enriched with the
// requester's username.
type PendingJoinRequest struct {
	Request  *model.JoinRequest
	Username string
}

// RequestToJoin creates a pending join request from the actor to a public
// organization.
func (d *Domain) RequestToJoin(ctx context.Context, orgID, actorID int64) (*model.JoinRequest, error) {
	org, err := d.orgDB.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if !org.IsPublic() {
		return nil, ErrNotPublicOrganization
	}

	isMember, err := d.memberDB.Exists(ctx, actorID, orgID)
	if err != nil {
		return nil, err
	}
	if isMember {
		return nil, ErrAlreadyMember
	}

	hasPending, err := d.requestDB.HasPending(ctx, orgID, actorID)
	if err != nil {
		return nil, err
	}
	if hasPending {
		return nil, ErrJoinRequestAlreadyPending
	}

	request := &model.JoinRequest{
		OrganizationID: orgID,
		UserID:         actorID,
		Status:         model.RequestStatusPending,
		CreatedAt:      time.Now(),
	}

	if err := d.requestDB.Create(ctx, request); err != nil {
		return nil, err
	}

	d.logger.Info("join request created",
		zap.Int64("request_id", request.ID),
		zap.Int64("organization_id", orgID),
		zap.Int64("user_id", actorID),
	)

	d.publisher.Publish(NewJoinRequestCreatedEvent(request.ID, orgID, org.Name, org.OwnerID, actorID))

	return request, nil
}

// ListPendingJoinRequests lists an organization's pending join requests for
// its owner, newest first, each enriched with the requester's username.
func (d *Domain) ListPendingJoinRequests(ctx context.Context, orgID, actorID int64) ([]*PendingJoinRequest, error) {
	org, err := d.orgDB.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if !org.IsOwnedBy(actorID) {
		return nil, ErrNotAuthorized
	}

	requests, err := d.requestDB.FindPendingByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	out := make([]*PendingJoinRequest, 0, len(requests))
	for _, request := range requests {
		out = append(out, &PendingJoinRequest{
			Request:  request,
			Username: d.lookupUsername(ctx, request.UserID),
		})
	}

	return out, nil
}

// ApproveJoinRequest approves a pending join request, creating the
// membership and marking the request approved in one transaction. If the
// requester became a member through another path in the meantime, the
// request stays pending and the call fails with ErrAlreadyMember so the
// owner can reject the stale request explicitly.
func (d *Domain) ApproveJoinRequest(ctx context.Context, requestID, actorID int64) error {
	request, err := d.requestDB.FindByID(ctx, requestID)
	if err != nil {
		return err
	}

	org, err := d.orgDB.FindByID(ctx, request.OrganizationID)
	if err != nil {
		return err
	}

	if !org.IsOwnedBy(actorID) {
		return ErrNotAuthorized
	}

	if err := ensureProcessable(request.Status, ErrJoinRequestNotProcessable); err != nil {
		return err
	}

	err = d.txPort.RunInTransaction(ctx, func(txCtx context.Context) error {
		isMember, err := d.memberDB.Exists(txCtx, request.UserID, request.OrganizationID)
		if err != nil {
			return err
		}
		if isMember {
			return ErrAlreadyMember
		}

		member := &model.Membership{
			UserID:         request.UserID,
			OrganizationID: request.OrganizationID,
			Role:           model.MembershipRoleMember,
			CreatedAt:      time.Now(),
		}

		if err := d.memberDB.Add(txCtx, member); err != nil {
			return err
		}

		return d.requestDB.UpdateStatus(txCtx, request.ID, model.RequestStatusAccepted)
	})

	if err != nil {
		return err
	}

	d.logger.Info("join request approved",
		zap.Int64("request_id", request.ID),
		zap.Int64("organization_id", request.OrganizationID),
		zap.Int64("user_id", request.UserID),
		zap.Int64("approved_by", actorID),
	)

	d.publisher.Publish(NewJoinRequestApprovedEvent(request.ID, request.OrganizationID, org.Name, request.UserID))

	return nil
}

// RejectJoinRequest rejects a pending join request. Owner only.
func (d *Domain) RejectJoinRequest(ctx context.Context, requestID, actorID int64) error {
	request, err := d.requestDB.FindByID(ctx, requestID)
	if err != nil {
		return err
	}

	org, err := d.orgDB.FindByID(ctx, request.OrganizationID)
	if err != nil {
		return err
	}

	if !org.IsOwnedBy(actorID) {
		return ErrNotAuthorized
	}

	if err := ensureProcessable(request.Status, ErrJoinRequestNotProcessable); err != nil {
		return err
	}

	if err := d.requestDB.UpdateStatus(ctx, request.ID, model.RequestStatusRejected); err != nil {
		return err
	}

	d.logger.Info("join request rejected",
		zap.Int64("request_id", request.ID),
		zap.Int64("organization_id", request.OrganizationID),
		zap.Int64("user_id", request.UserID),
		zap.Int64("rejected_by", actorID),
	)

	d.publisher.Publish(NewJoinRequestRejectedEvent(request.ID, request.OrganizationID, org.Name, request.UserID))

	return nil
}
