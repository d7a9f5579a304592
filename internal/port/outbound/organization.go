package outbound

import (
	"context"

	"github.com/etaskify/server/internal/model"
)

// OrganizationDatabasePort defines organization persistence operations.
type OrganizationDatabasePort interface {
	// Create creates a new organization.
	Create(ctx context.Context, org *model.Organization) error

	// FindByID retrieves an organization by ID.
	FindByID(ctx context.Context, id int64) (*model.Organization, error)

	// FindPublic lists public organizations, filtered by a case-insensitive
	// name substring when search is non-blank.
	FindPublic(ctx context.Context, search string) ([]*model.Organization, error)
}

// MembershipDatabasePort defines membership persistence operations.
type MembershipDatabasePort interface {
	// Add creates a membership row.
	Add(ctx context.Context, membership *model.Membership) error

	// Exists reports whether a membership exists for the pair.
	Exists(ctx context.Context, userID, organizationID int64) (bool, error)
}

// InviteDatabasePort defines invite persistence operations.
type InviteDatabasePort interface {
	// Create creates a new invite.
	Create(ctx context.Context, invite *model.Invite) error

	// FindByID retrieves an invite by ID.
	FindByID(ctx context.Context, id int64) (*model.Invite, error)

	// HasPending reports whether a pending invite exists for the pair.
	HasPending(ctx context.Context, organizationID, invitedUserID int64) (bool, error)

	// FindPendingByUser lists pending invites addressed to a user, newest first.
	FindPendingByUser(ctx context.Context, invitedUserID int64) ([]*model.Invite, error)

	// UpdateStatus transitions a pending invite to the given status. A row
	// that is no longer pending is left untouched and the call fails.
	UpdateStatus(ctx context.Context, id int64, status model.RequestStatus) error
}

// JoinRequestDatabasePort defines join request persistence operations.
type JoinRequestDatabasePort interface {
	// Create creates a new join request.
	Create(ctx context.Context, request *model.JoinRequest) error

	// FindByID retrieves a join request by ID.
	FindByID(ctx context.Context, id int64) (*model.JoinRequest, error)

	// HasPending reports whether a pending request exists for the pair.
	HasPending(ctx context.Context, organizationID, userID int64) (bool, error)

	// FindPendingByOrganization lists pending requests for an organization, newest first.
	FindPendingByOrganization(ctx context.Context, organizationID int64) ([]*model.JoinRequest, error)

	// UpdateStatus transitions a pending join request to the given status. A
	// row that is no longer pending is left untouched and the call fails.
	UpdateStatus(ctx context.Context, id int64, status model.RequestStatus) error
}

// TransactionPort defines transaction support for the membership engine.
type TransactionPort interface {
	// RunInTransaction executes the given function within a transaction.
	// Database port calls made with the inner context join the transaction.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
