package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/etaskify/server/internal/domain/membership"
	"github.com/etaskify/server/internal/infra/events"
	"github.com/etaskify/server/internal/port/outbound"
)

// Notification categories understood by the notification store.
const (
	CategoryInviteReceived      = "invite_received"
	CategoryInviteAccepted      = "invite_accepted"
	CategoryInviteRejected      = "invite_rejected"
	CategoryJoinRequestReceived = "join_request_received"
	CategoryJoinRequestApproved = "join_request_approved"
	CategoryJoinRequestRejected = "join_request_rejected"
)

// Config holds dispatcher configuration.
type Config struct {
	// Timeout bounds the work done for a single event, directory lookups
	// included.
	Timeout time.Duration

	// PlaceholderUsername substitutes for a username the directory could
	// not resolve.
	PlaceholderUsername string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timeout:             5 * time.Second,
		PlaceholderUsername: "someone",
	}
}

// Recorder counts notification attempts by category and outcome.
type Recorder interface {
	RecordNotification(category string, ok bool)
}

// Dispatcher turns membership events into human-readable notification
// records. It runs detached from the transaction that produced the event;
// a failed record is logged and dropped, never retried into the caller.
type Dispatcher struct {
	notifier  outbound.NotificationPort
	directory outbound.DirectoryPort
	recorder  Recorder
	cfg       *Config
	logger    *zap.Logger
}

// NewDispatcher creates a new notification dispatcher. recorder may be nil.
func NewDispatcher(notifier outbound.NotificationPort, directory outbound.DirectoryPort, recorder Recorder, cfg *Config, logger *zap.Logger) *Dispatcher {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.PlaceholderUsername == "" {
		cfg.PlaceholderUsername = "someone"
	}

	return &Dispatcher{
		notifier:  notifier,
		directory: directory,
		recorder:  recorder,
		cfg:       cfg,
		logger:    logger,
	}
}

// Handles returns the event types the dispatcher consumes.
func (d *Dispatcher) Handles() []string {
	return []string{
		membership.EventTypeInviteCreated,
		membership.EventTypeInviteAccepted,
		membership.EventTypeInviteRejected,
		membership.EventTypeJoinRequestCreated,
		membership.EventTypeJoinRequestApproved,
		membership.EventTypeJoinRequestRejected,
	}
}

// Handle translates one membership event into a notification record.
func (d *Dispatcher) Handle(event events.Event) error {
	// Events arrive after their transaction committed; the request context
	// is gone by now.
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Timeout)
	defer cancel()

	var (
		targetUserID int64
		message      string
		category     string
	)

	switch e := event.(type) {
	case *membership.InviteCreatedEvent:
		inviter := d.username(ctx, e.InviterUserID)
		targetUserID = e.InvitedUserID
		message = fmt.Sprintf("'%s' invited you to join '%s'.", inviter, e.OrganizationName)
		category = CategoryInviteReceived

	case *membership.InviteAcceptedEvent:
		invited := d.username(ctx, e.InvitedUserID)
		targetUserID = e.InviterUserID
		message = fmt.Sprintf("'%s' accepted your invite to '%s'.", invited, e.OrganizationName)
		category = CategoryInviteAccepted

	case *membership.InviteRejectedEvent:
		invited := d.username(ctx, e.InvitedUserID)
		targetUserID = e.InviterUserID
		message = fmt.Sprintf("'%s' rejected your invite to '%s'.", invited, e.OrganizationName)
		category = CategoryInviteRejected

	case *membership.JoinRequestCreatedEvent:
		requester := d.username(ctx, e.RequesterUserID)
		targetUserID = e.OwnerUserID
		message = fmt.Sprintf("'%s' requested to join '%s'.", requester, e.OrganizationName)
		category = CategoryJoinRequestReceived

	case *membership.JoinRequestApprovedEvent:
		targetUserID = e.RequesterUserID
		message = fmt.Sprintf("Your request to join '%s' was approved.", e.OrganizationName)
		category = CategoryJoinRequestApproved

	case *membership.JoinRequestRejectedEvent:
		targetUserID = e.RequesterUserID
		message = fmt.Sprintf("Your request to join '%s' was rejected.", e.OrganizationName)
		category = CategoryJoinRequestRejected

	default:
		d.logger.Warn("unknown membership event",
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	err := d.notifier.Record(ctx, targetUserID, message, category)
	if d.recorder != nil {
		d.recorder.RecordNotification(category, err == nil)
	}
	if err != nil {
		return fmt.Errorf("record notification: %w", err)
	}

	d.logger.Debug("notification recorded",
		zap.Int64("target_user_id", targetUserID),
		zap.String("category", category),
	)

	return nil
}

// username resolves a user's name, degrading to the placeholder when the
// directory cannot answer.
func (d *Dispatcher) username(ctx context.Context, userID int64) string {
	user, err := d.directory.FindByID(ctx, userID)
	if err != nil || user == nil || user.Username == "" {
		d.logger.Warn("username lookup failed, using placeholder",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return d.cfg.PlaceholderUsername
	}
	return user.Username
}

var _ events.Handler = (*Dispatcher)(nil)
