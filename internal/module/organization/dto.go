package organization

import (
	"time"

	"github.com/etaskify/server/internal/domain/membership"
	"github.com/etaskify/server/internal/model"
)

// CreateOrganizationRequest represents a request to create an organization.
type CreateOrganizationRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	IsPrivate bool   `json:"is_private"`
}

// OrganizationResponse represents an organization in API responses.
type OrganizationResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OwnerID   int64     `json:"owner_id"`
	IsPrivate bool      `json:"is_private"`
	CreatedAt time.Time `json:"created_at"`
}

func toOrganizationResponse(org *model.Organization) *OrganizationResponse {
	return &OrganizationResponse{
		ID:        org.ID,
		Name:      org.Name,
		OwnerID:   org.OwnerID,
		IsPrivate: org.IsPrivate,
		CreatedAt: org.CreatedAt,
	}
}

// InviteUserRequest represents a request to invite a user by username.
type InviteUserRequest struct {
	Username string `json:"username" binding:"required,min=1,max=100"`
}

// InviteResponse represents an invite in API responses.
type InviteResponse struct {
	ID               int64               `json:"id"`
	OrganizationID   int64               `json:"organization_id"`
	OrganizationName string              `json:"organization_name,omitempty"`
	InviterUserID    int64               `json:"inviter_user_id"`
	InvitedUserID    int64               `json:"invited_user_id"`
	Status           model.RequestStatus `json:"status"`
	CreatedAt        time.Time           `json:"created_at"`
}

func toInviteResponse(invite *model.Invite, orgName string) *InviteResponse {
	return &InviteResponse{
		ID:               invite.ID,
		OrganizationID:   invite.OrganizationID,
		OrganizationName: orgName,
		InviterUserID:    invite.InviterUserID,
		InvitedUserID:    invite.InvitedUserID,
		Status:           invite.Status,
		CreatedAt:        invite.CreatedAt,
	}
}

// JoinRequestResponse represents a join request in API responses.
type JoinRequestResponse struct {
	ID             int64               `json:"id"`
	OrganizationID int64               `json:"organization_id"`
	UserID         int64               `json:"user_id"`
	Username       string              `json:"username,omitempty"`
	Status         model.RequestStatus `json:"status"`
	CreatedAt      time.Time           `json:"created_at"`
}

func toJoinRequestResponse(request *model.JoinRequest, username string) *JoinRequestResponse {
	return &JoinRequestResponse{
		ID:             request.ID,
		OrganizationID: request.OrganizationID,
		UserID:         request.UserID,
		Username:       username,
		Status:         request.Status,
		CreatedAt:      request.CreatedAt,
	}
}

func toInviteResponses(invites []*membership.PendingInvite) []*InviteResponse {
	out := make([]*InviteResponse, 0, len(invites))
	for _, pi := range invites {
		out = append(out, toInviteResponse(pi.Invite, pi.OrganizationName))
	}
	return out
}

func toJoinRequestResponses(requests []*membership.PendingJoinRequest) []*JoinRequestResponse {
	out := make([]*JoinRequestResponse, 0, len(requests))
	for _, pr := range requests {
		out = append(out, toJoinRequestResponse(pr.Request, pr.Username))
	}
	return out
}
