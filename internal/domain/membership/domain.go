package membership

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/etaskify/server/internal/infra/events"
	"github.com/etaskify/server/internal/model"
	"github.com/etaskify/server/internal/port/outbound"
)

// EventPublisher publishes domain events after successful mutations.
type EventPublisher interface {
	Publish(event events.Event)
}

// Domain implements the membership lifecycle logic: organization creation,
// the invitation state machine for private organizations and the
// join-request state machine for public ones.
type Domain struct {
	orgDB     outbound.OrganizationDatabasePort
	memberDB  outbound.MembershipDatabasePort
	inviteDB  outbound.InviteDatabasePort
	requestDB outbound.JoinRequestDatabasePort
	directory outbound.DirectoryPort
	txPort    outbound.TransactionPort
	publisher EventPublisher
	cfg       *Config
	logger    *zap.Logger
}

// NewDomain creates a new membership domain.
func NewDomain(
	orgDB outbound.OrganizationDatabasePort,
	memberDB outbound.MembershipDatabasePort,
	inviteDB outbound.InviteDatabasePort,
	requestDB outbound.JoinRequestDatabasePort,
	directory outbound.DirectoryPort,
	txPort outbound.TransactionPort,
	publisher EventPublisher,
	cfg *Config,
	logger *zap.Logger,
) *Domain {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	_ = cfg.Validate()

	return &Domain{
		orgDB:     orgDB,
		memberDB:  memberDB,
		inviteDB:  inviteDB,
		requestDB: requestDB,
		directory: directory,
		txPort:    txPort,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// ========== Organization Operations ==========

// CreateOrganization creates an organization and its owner's admin
// membership in a single transaction.
func (d *Domain) CreateOrganization(ctx context.Context, name string, isPrivate bool, ownerID int64) (*model.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidRequest
	}

	var org *model.Organization

	err := d.txPort.RunInTransaction(ctx, func(txCtx context.Context) error {
		org = &model.Organization{
			Name:      name,
			OwnerID:   ownerID,
			IsPrivate: isPrivate,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := d.orgDB.Create(txCtx, org); err != nil {
			return err
		}

		member := &model.Membership{
			UserID:         ownerID,
			OrganizationID: org.ID,
			Role:           model.MembershipRoleAdmin,
			CreatedAt:      time.Now(),
		}

		return d.memberDB.Add(txCtx, member)
	})

	if err != nil {
		return nil, err
	}

	d.logger.Info("organization created",
		zap.Int64("organization_id", org.ID),
		zap.Int64("owner_id", ownerID),
		zap.String("name", org.Name),
		zap.Bool("is_private", org.IsPrivate),
	)

	return org, nil
}

// FindPublicOrganizations lists public organizations, filtered by a
// case-insensitive name substring when searchTerm is non-blank.
func (d *Domain) FindPublicOrganizations(ctx context.Context, searchTerm string) ([]*model.Organization, error) {
	return d.orgDB.FindPublic(ctx, strings.TrimSpace(searchTerm))
}

// lookupUsername resolves a user's name through the directory with a
// bounded timeout, degrading to the configured placeholder when the
// lookup fails for any reason.
func (d *Domain) lookupUsername(ctx context.Context, userID int64) string {
	lookupCtx, cancel := context.WithTimeout(ctx, d.cfg.CollaboratorTimeout)
	defer cancel()

	user, err := d.directory.FindByID(lookupCtx, userID)
	if err != nil || user == nil || user.Username == "" {
		d.logger.Warn("username lookup failed, using placeholder",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return d.cfg.PlaceholderUsername
	}
	return user.Username
}
