package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/etaskify/server/internal/domain/membership"
	"github.com/etaskify/server/internal/model"
	"github.com/etaskify/server/internal/port/outbound"
)

// ========== Organization Adapter ==========

// OrganizationAdapter implements OrganizationDatabasePort.
type OrganizationAdapter struct {
	db *gorm.DB
}

// NewOrganizationAdapter creates a new organization adapter.
func NewOrganizationAdapter(db *gorm.DB) *OrganizationAdapter {
	return &OrganizationAdapter{db: db}
}

func (a *OrganizationAdapter) Create(ctx context.Context, org *model.Organization) error {
	return dbFrom(ctx, a.db).Create(org).Error
}

func (a *OrganizationAdapter) FindByID(ctx context.Context, id int64) (*model.Organization, error) {
	var org model.Organization
	err := dbFrom(ctx, a.db).
		Where("id = ?", id).
		First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, membership.ErrOrganizationNotFound
		}
		return nil, err
	}
	return &org, nil
}

func (a *OrganizationAdapter) FindPublic(ctx context.Context, search string) ([]*model.Organization, error) {
	query := dbFrom(ctx, a.db).
		Where("is_private = ?", false)

	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var orgs []*model.Organization
	err := query.
		Order("name ASC").
		Find(&orgs).Error
	if err != nil {
		return nil, err
	}
	return orgs, nil
}

// ========== Membership Adapter ==========

// MembershipAdapter implements MembershipDatabasePort.
type MembershipAdapter struct {
	db *gorm.DB
}

// NewMembershipAdapter creates a new membership adapter.
func NewMembershipAdapter(db *gorm.DB) *MembershipAdapter {
	return &MembershipAdapter{db: db}
}

func (a *MembershipAdapter) Add(ctx context.Context, mb *model.Membership) error {
	err := dbFrom(ctx, a.db).Create(mb).Error
	if err != nil {
		// Unique (user_id, organization_id) violated by a concurrent grant.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return membership.ErrAlreadyMember
		}
		return err
	}
	return nil
}

func (a *MembershipAdapter) Exists(ctx context.Context, userID, organizationID int64) (bool, error) {
	var count int64
	err := dbFrom(ctx, a.db).
		Model(&model.Membership{}).
		Where("user_id = ? AND organization_id = ?", userID, organizationID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ========== Invite Adapter ==========

// InviteAdapter implements InviteDatabasePort.
type InviteAdapter struct {
	db *gorm.DB
}

// NewInviteAdapter creates a new invite adapter.
func NewInviteAdapter(db *gorm.DB) *InviteAdapter {
	return &InviteAdapter{db: db}
}

func (a *InviteAdapter) Create(ctx context.Context, invite *model.Invite) error {
	return dbFrom(ctx, a.db).Create(invite).Error
}

func (a *InviteAdapter) FindByID(ctx context.Context, id int64) (*model.Invite, error) {
	var invite model.Invite
	err := dbFrom(ctx, a.db).
		Where("id = ?", id).
		First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, membership.ErrInviteNotFound
		}
		return nil, err
	}
	return &invite, nil
}

func (a *InviteAdapter) HasPending(ctx context.Context, organizationID, invitedUserID int64) (bool, error) {
	var count int64
	err := dbFrom(ctx, a.db).
		Model(&model.Invite{}).
		Where("organization_id = ? AND invited_user_id = ? AND status = ?",
			organizationID, invitedUserID, model.RequestStatusPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (a *InviteAdapter) FindPendingByUser(ctx context.Context, invitedUserID int64) ([]*model.Invite, error) {
	var invites []*model.Invite
	err := dbFrom(ctx, a.db).
		Where("invited_user_id = ? AND status = ?", invitedUserID, model.RequestStatusPending).
		Order("created_at DESC").
		Find(&invites).Error
	if err != nil {
		return nil, err
	}
	return invites, nil
}

// UpdateStatus transitions an invite out of PENDING. The status predicate
// makes the update a no-op when a concurrent transition already landed, so
// a terminal status can never be overwritten.
func (a *InviteAdapter) UpdateStatus(ctx context.Context, id int64, status model.RequestStatus) error {
	result := dbFrom(ctx, a.db).
		Model(&model.Invite{}).
		Where("id = ? AND status = ?", id, model.RequestStatusPending).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return membership.ErrInviteNotProcessable
	}
	return nil
}

// ========== Join Request Adapter ==========

// JoinRequestAdapter implements JoinRequestDatabasePort.
type JoinRequestAdapter struct {
	db *gorm.DB
}

// NewJoinRequestAdapter creates a new join request adapter.
func NewJoinRequestAdapter(db *gorm.DB) *JoinRequestAdapter {
	return &JoinRequestAdapter{db: db}
}

func (a *JoinRequestAdapter) Create(ctx context.Context, request *model.JoinRequest) error {
	return dbFrom(ctx, a.db).Create(request).Error
}

func (a *JoinRequestAdapter) FindByID(ctx context.Context, id int64) (*model.JoinRequest, error) {
	var request model.JoinRequest
	err := dbFrom(ctx, a.db).
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, membership.ErrJoinRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (a *JoinRequestAdapter) HasPending(ctx context.Context, organizationID, userID int64) (bool, error) {
	var count int64
	err := dbFrom(ctx, a.db).
		Model(&model.JoinRequest{}).
		Where("organization_id = ? AND user_id = ? AND status = ?",
			organizationID, userID, model.RequestStatusPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (a *JoinRequestAdapter) FindPendingByOrganization(ctx context.Context, organizationID int64) ([]*model.JoinRequest, error) {
	var requests []*model.JoinRequest
	err := dbFrom(ctx, a.db).
		Where("organization_id = ? AND status = ?", organizationID, model.RequestStatusPending).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// UpdateStatus transitions a join request out of PENDING, guarded the same
// way as the invite adapter.
func (a *JoinRequestAdapter) UpdateStatus(ctx context.Context, id int64, status model.RequestStatus) error {
	result := dbFrom(ctx, a.db).
		Model(&model.JoinRequest{}).
		Where("id = ? AND status = ?", id, model.RequestStatusPending).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return membership.ErrJoinRequestNotProcessable
	}
	return nil
}

// Compile-time interface checks
var (
	_ outbound.OrganizationDatabasePort = (*OrganizationAdapter)(nil)
	_ outbound.MembershipDatabasePort   = (*MembershipAdapter)(nil)
	_ outbound.InviteDatabasePort       = (*InviteAdapter)(nil)
	_ outbound.JoinRequestDatabasePort  = (*JoinRequestAdapter)(nil)
)
