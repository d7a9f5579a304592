package membership

import (
	"github.com/etaskify/server/internal/infra/events"
)

// Event types published by the membership domain.
const (
	EventTypeInviteCreated       = "membership.invite_created"
	EventTypeInviteAccepted      = "membership.invite_accepted"
	EventTypeInviteRejected      = "membership.invite_rejected"
	EventTypeJoinRequestCreated  = "membership.join_request_created"
	EventTypeJoinRequestApproved = "membership.join_request_approved"
	EventTypeJoinRequestRejected = "membership.join_request_rejected"
)

// InviteCreatedEvent is published when an owner invites a user.
type InviteCreatedEvent struct {
	events.BaseEvent
	OrganizationID   int64  `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	InviterUserID    int64  `json:"inviter_user_id"`
	InvitedUserID    int64  `json:"invited_user_id"`
}

// NewInviteCreatedEvent creates a new InviteCreatedEvent.
func NewInviteCreatedEvent(inviteID, orgID int64, orgName string, inviterID, invitedID int64) *InviteCreatedEvent {
	return &InviteCreatedEvent{
		BaseEvent:        events.NewBaseEvent(EventTypeInviteCreated, inviteID, "Invite"),
		OrganizationID:   orgID,
		OrganizationName: orgName,
		InviterUserID:    inviterID,
		InvitedUserID:    invitedID,
	}
}

// InviteAcceptedEvent is published when an invited user accepts.
type InviteAcceptedEvent struct {
	events.BaseEvent
	OrganizationID   int64  `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	InviterUserID    int64  `json:"inviter_user_id"`
	InvitedUserID    int64  `json:"invited_user_id"`
}

// NewInviteAcceptedEvent creates a new InviteAcceptedEvent.
func NewInviteAcceptedEvent(inviteID, orgID int64, orgName string, inviterID, invitedID int64) *InviteAcceptedEvent {
	return &InviteAcceptedEvent{
		BaseEvent:        events.NewBaseEvent(EventTypeInviteAccepted, inviteID, "Invite"),
		OrganizationID:   orgID,
		OrganizationName: orgName,
		InviterUserID:    inviterID,
		InvitedUserID:    invitedID,
	}
}

// InviteRejectedEvent is published when an invited user rejects.
type InviteRejectedEvent struct {
	events.BaseEvent
	OrganizationID   int64  `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	InviterUserID    int64  `json:"inviter_user_id"`
	InvitedUserID    int64  `json:"invited_user_id"`
}

// NewInviteRejectedEvent creates a new InviteRejectedEvent.
func NewInviteRejectedEvent(inviteID, orgID int64, orgName string, inviterID, invitedID int64) *InviteRejectedEvent {
	return &InviteRejectedEvent{
		BaseEvent:        events.NewBaseEvent(EventTypeInviteRejected, inviteID, "Invite"),
		OrganizationID:   orgID,
		OrganizationName: orgName,
		InviterUserID:    inviterID,
		InvitedUserID:    invitedID,
	}
}

// JoinRequestCreatedEvent is published when a user asks to join a public organization.
type JoinRequestCreatedEvent struct {
	events.BaseEvent
	OrganizationID   int64  `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	OwnerUserID      int64  `json:"owner_user_id"`
	RequesterUserID  int64  `json:"requester_user_id"`
}

// NewJoinRequestCreatedEvent creates a new JoinRequestCreatedEvent.
func NewJoinRequestCreatedEvent(requestID, orgID int64, orgName string, ownerID, requesterID int64) *JoinRequestCreatedEvent {
	return &JoinRequestCreatedEvent{
		BaseEvent:        events.NewBaseEvent(EventTypeJoinRequestCreated, requestID, "JoinRequest"),
		OrganizationID:   orgID,
		OrganizationName: orgName,
		OwnerUserID:      ownerID,
		RequesterUserID:  requesterID,
	}
}

// JoinRequestApprovedEvent is published when the owner approves a join request.
type JoinRequestApprovedEvent struct {
	events.BaseEvent
	OrganizationID   int64  `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	RequesterUserID  int64  `json:"requester_user_id"`
}

// NewJoinRequestApprovedEvent creates a new JoinRequestApprovedEvent.
func NewJoinRequestApprovedEvent(requestID, orgID int64, orgName string, requesterID int64) *JoinRequestApprovedEvent {
	return &JoinRequestApprovedEvent{
		BaseEvent:        events.NewBaseEvent(EventTypeJoinRequestApproved, requestID, "JoinRequest"),
		OrganizationID:   orgID,
		OrganizationName: orgName,
		RequesterUserID:  requesterID,
	}
}

// JoinRequestRejectedEvent is published when the owner rejects a join request.
type JoinRequestRejectedEvent struct {
	events.BaseEvent
	OrganizationID   int64  `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	RequesterUserID  int64  `json:"requester_user_id"`
}

// NewJoinRequestRejectedEvent creates a new JoinRequestRejectedEvent.
func NewJoinRequestRejectedEvent(requestID, orgID int64, orgName string, requesterID int64) *JoinRequestRejectedEvent {
	return &JoinRequestRejectedEvent{
		BaseEvent:        events.NewBaseEvent(EventTypeJoinRequestRejected, requestID, "JoinRequest"),
		OrganizationID:   orgID,
		OrganizationName: orgName,
		RequesterUserID:  requesterID,
	}
}
