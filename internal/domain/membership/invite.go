package membership

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/etaskify/server/internal/model"
	"github.com/etaskify/server/internal/port/outbound"
)

// PendingInvite is a pending invite enriched with its organization's name.
type PendingInvite struct {
	Invite           *model.Invite
	OrganizationName string
}

// InviteUser invites a user into a private organization. Only the owner may
// invite; the invited username must resolve through the directory.
func (d *Domain) InviteUser(ctx context.Context, orgID int64, username string, actorID int64) (*model.Invite, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidRequest
	}

	org, err := d.orgDB.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if org.IsPublic() {
		return nil, ErrNotPrivateOrganization
	}

	if !org.IsOwnedBy(actorID) {
		return nil, ErrNotAuthorized
	}

	invited, err := d.findUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if invited.ID == actorID {
		return nil, ErrSelfInvite
	}

	isMember, err := d.memberDB.Exists(ctx, invited.ID, orgID)
	if err != nil {
		return nil, err
	}
	if isMember {
		return nil, ErrAlreadyMember
	}

	hasPending, err := d.inviteDB.HasPending(ctx, orgID, invited.ID)
	if err != nil {
		return nil, err
	}
	if hasPending {
		return nil, ErrInviteAlreadyPending
	}

	invite := &model.Invite{
		OrganizationID: orgID,
		InviterUserID:  actorID,
		InvitedUserID:  invited.ID,
		Status:         model.RequestStatusPending,
		CreatedAt:      time.Now(),
	}

	if err := d.inviteDB.Create(ctx, invite); err != nil {
		return nil, err
	}

	d.logger.Info("invite created",
		zap.Int64("invite_id", invite.ID),
		zap.Int64("organization_id", orgID),
		zap.Int64("inviter_id", actorID),
		zap.Int64("invited_id", invited.ID),
	)

	d.publisher.Publish(NewInviteCreatedEvent(invite.ID, orgID, org.Name, actorID, invited.ID))

	return invite, nil
}

// ListPendingInvites lists the caller's pending invites, newest first,
// each carrying the organization name.
func (d *Domain) ListPendingInvites(ctx context.Context, actorID int64) ([]*PendingInvite, error) {
	invites, err := d.inviteDB.FindPendingByUser(ctx, actorID)
	if err != nil {
		return nil, err
	}

	out := make([]*PendingInvite, 0, len(invites))
	for _, invite := range invites {
		name := ""
		if org, err := d.orgDB.FindByID(ctx, invite.OrganizationID); err == nil {
			name = org.Name
		}
		out = append(out, &PendingInvite{
			Invite:           invite,
			OrganizationName: name,
		})
	}

	return out, nil
}

// AcceptInvite accepts a pending invite addressed to the actor, creating the
// membership and marking the invite accepted in one transaction. If the actor
// became a member through another path in the meantime, the invite stays
// pending and the call fails with ErrAlreadyMember.
func (d *Domain) AcceptInvite(ctx context.Context, inviteID, actorID int64) error {
	invite, err := d.inviteDB.FindByID(ctx, inviteID)
	if err != nil {
		return err
	}

	if !invite.IsForUser(actorID) {
		return ErrNotAuthorized
	}

	if err := ensureProcessable(invite.Status, ErrInviteNotProcessable); err != nil {
		return err
	}

	org, err := d.orgDB.FindByID(ctx, invite.OrganizationID)
	if err != nil {
		return err
	}

	err = d.txPort.RunInTransaction(ctx, func(txCtx context.Context) error {
		// Re-check inside the transaction so a racing membership grant
		// surfaces as a conflict rather than a duplicate row.
		isMember, err := d.memberDB.Exists(txCtx, actorID, invite.OrganizationID)
		if err != nil {
			return err
		}
		if isMember {
			return ErrAlreadyMember
		}

		member := &model.Membership{
			UserID:         actorID,
			OrganizationID: invite.OrganizationID,
			Role:           model.MembershipRoleMember,
			CreatedAt:      time.Now(),
		}

		if err := d.memberDB.Add(txCtx, member); err != nil {
			return err
		}

		return d.inviteDB.UpdateStatus(txCtx, invite.ID, model.RequestStatusAccepted)
	})

	if err != nil {
		return err
	}

	d.logger.Info("invite accepted",
		zap.Int64("invite_id", invite.ID),
		zap.Int64("organization_id", invite.OrganizationID),
		zap.Int64("user_id", actorID),
	)

	d.publisher.Publish(NewInviteAcceptedEvent(invite.ID, invite.OrganizationID, org.Name, invite.InviterUserID, actorID))

	return nil
}

// RejectInvite rejects a pending invite addressed to the actor.
func (d *Domain) RejectInvite(ctx context.Context, inviteID, actorID int64) error {
	invite, err := d.inviteDB.FindByID(ctx, inviteID)
	if err != nil {
		return err
	}

	if !invite.IsForUser(actorID) {
		return ErrNotAuthorized
	}

	if err := ensureProcessable(invite.Status, ErrInviteNotProcessable); err != nil {
		return err
	}

	org, err := d.orgDB.FindByID(ctx, invite.OrganizationID)
	if err != nil {
		return err
	}

	if err := d.inviteDB.UpdateStatus(ctx, invite.ID, model.RequestStatusRejected); err != nil {
		return err
	}

	d.logger.Info("invite rejected",
		zap.Int64("invite_id", invite.ID),
		zap.Int64("organization_id", invite.OrganizationID),
		zap.Int64("user_id", actorID),
	)

	d.publisher.Publish(NewInviteRejectedEvent(invite.ID, invite.OrganizationID, org.Name, invite.InviterUserID, actorID))

	return nil
}

// findUserByUsername resolves the invited username through the directory
// with a bounded timeout.
func (d *Domain) findUserByUsername(ctx context.Context, username string) (*outbound.UserInfo, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, d.cfg.CollaboratorTimeout)
	defer cancel()

	user, err := d.directory.FindByUsername(lookupCtx, username)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return nil, ErrInvitedUserNotFound
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, outbound.ErrCollaboratorUnavailable
		}
		return nil, err
	}
	return user, nil
}
