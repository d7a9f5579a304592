package model

import "time"

// MembershipRole represents a member's role within an organization.
type MembershipRole string

const (
	MembershipRoleAdmin  MembershipRole = "admin"
	MembershipRoleMember MembershipRole = "member"
)

// IsValid checks if the role is valid.
func (r MembershipRole) IsValid() bool {
	switch r {
	case MembershipRoleAdmin, MembershipRoleMember:
		return true
	default:
		return false
	}
}

// RequestStatus represents the status of an invite or join request.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

// IsTerminal returns true once the status can no longer change.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusAccepted || s == RequestStatusRejected
}

// Organization represents an organization users can belong to.
type Organization struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"not null"`
	OwnerID   int64     `json:"owner_id" gorm:"not null;index"`
	IsPrivate bool      `json:"is_private" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Organization) TableName() string {
	return "organizations"
}

// IsOwnedBy checks if the organization is owned by the given user.
func (o *Organization) IsOwnedBy(userID int64) bool {
	return o.OwnerID == userID
}

// IsPublic returns true if the organization accepts join requests.
func (o *Organization) IsPublic() bool {
	return !o.IsPrivate
}

// Membership represents the durable fact that a user belongs to an organization.
type Membership struct {
	ID             int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID         int64          `json:"user_id" gorm:"not null;uniqueIndex:idx_memberships_user_org"`
	OrganizationID int64          `json:"organization_id" gorm:"not null;uniqueIndex:idx_memberships_user_org"`
	Role           MembershipRole `json:"role" gorm:"not null;default:member"`
	CreatedAt      time.Time      `json:"created_at"`
}

// TableName returns the database table name.
func (Membership) TableName() string {
	return "memberships"
}

// Invite represents an owner-issued invitation to a private organization.
type Invite struct {
	ID             int64         `json:"id" gorm:"primaryKey;autoIncrement"`
	OrganizationID int64         `json:"organization_id" gorm:"not null;index"`
	InviterUserID  int64         `json:"inviter_user_id" gorm:"not null"`
	InvitedUserID  int64         `json:"invited_user_id" gorm:"not null;index"`
	Status         RequestStatus `json:"status" gorm:"not null;default:pending"`
	CreatedAt      time.Time     `json:"created_at"`
}

// TableName returns the database table name.
func (Invite) TableName() string {
	return "invites"
}

// IsPending returns true if the invite has not been processed.
func (i *Invite) IsPending() bool {
	return i.Status == RequestStatusPending
}

// IsForUser checks whether the invite is addressed to the given user.
func (i *Invite) IsForUser(userID int64) bool {
	return i.InvitedUserID == userID
}

// JoinRequest represents a self-issued request to join a public organization.
type JoinRequest struct {
	ID             int64         `json:"id" gorm:"primaryKey;autoIncrement"`
	OrganizationID int64         `json:"organization_id" gorm:"not null;index"`
	UserID         int64         `json:"user_id" gorm:"not null;index"`
	Status         RequestStatus `json:"status" gorm:"not null;default:pending"`
	CreatedAt      time.Time     `json:"created_at"`
}

// TableName returns the database table name.
func (JoinRequest) TableName() string {
	return "join_requests"
}

// IsPending returns true if the join request has not been processed.
func (j *JoinRequest) IsPending() bool {
	return j.Status == RequestStatusPending
}
