package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/etaskify/server/internal/domain/membership"
	"github.com/etaskify/server/internal/port/outbound"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Record(ctx context.Context, targetUserID int64, message, category string) error {
	args := m.Called(ctx, targetUserID, message, category)
	return args.Error(0)
}

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) FindByUsername(ctx context.Context, username string) (*outbound.UserInfo, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.UserInfo), args.Error(1)
}

func (m *mockDirectory) FindByID(ctx context.Context, id int64) (*outbound.UserInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.UserInfo), args.Error(1)
}

func setupDispatcher() (*Dispatcher, *mockNotifier, *mockDirectory) {
	notifier := new(mockNotifier)
	directory := new(mockDirectory)
	dispatcher := NewDispatcher(notifier, directory, nil, DefaultConfig(), zap.NewNop())
	return dispatcher, notifier, directory
}

func TestDispatcher_Handles(t *testing.T) {
	dispatcher, _, _ := setupDispatcher()

	assert.ElementsMatch(t, []string{
		membership.EventTypeInviteCreated,
		membership.EventTypeInviteAccepted,
		membership.EventTypeInviteRejected,
		membership.EventTypeJoinRequestCreated,
		membership.EventTypeJoinRequestApproved,
		membership.EventTypeJoinRequestRejected,
	}, dispatcher.Handles())
}

func TestDispatcher_InviteCreated(t *testing.T) {
	t.Run("notifies_invited_user", func(t *testing.T) {
		dispatcher, notifier, directory := setupDispatcher()

		directory.On("FindByID", mock.Anything, int64(10)).
			Return(&outbound.UserInfo{ID: 10, Username: "alice"}, nil)
		notifier.On("Record", mock.Anything, int64(20),
			"'alice' invited you to join 'Acme'.", CategoryInviteReceived).Return(nil)

		err := dispatcher.Handle(membership.NewInviteCreatedEvent(5, 1, "Acme", 10, 20))

		require.NoError(t, err)
		notifier.AssertExpectations(t)
	})

	t.Run("placeholder_on_lookup_failure", func(t *testing.T) {
		dispatcher, notifier, directory := setupDispatcher()

		directory.On("FindByID", mock.Anything, int64(10)).
			Return(nil, outbound.ErrCollaboratorUnavailable)
		notifier.On("Record", mock.Anything, int64(20),
			"'someone' invited you to join 'Acme'.", CategoryInviteReceived).Return(nil)

		err := dispatcher.Handle(membership.NewInviteCreatedEvent(5, 1, "Acme", 10, 20))

		require.NoError(t, err)
		notifier.AssertExpectations(t)
	})
}

func TestDispatcher_InviteAccepted(t *testing.T) {
	dispatcher, notifier, directory := setupDispatcher()

	directory.On("FindByID", mock.Anything, int64(20)).
		Return(&outbound.UserInfo{ID: 20, Username: "bob"}, nil)
	notifier.On("Record", mock.Anything, int64(10),
		"'bob' accepted your invite to 'Acme'.", CategoryInviteAccepted).Return(nil)

	err := dispatcher.Handle(membership.NewInviteAcceptedEvent(5, 1, "Acme", 10, 20))

	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestDispatcher_InviteRejected(t *testing.T) {
	dispatcher, notifier, directory := setupDispatcher()

	directory.On("FindByID", mock.Anything, int64(20)).
		Return(&outbound.UserInfo{ID: 20, Username: "bob"}, nil)
	notifier.On("Record", mock.Anything, int64(10),
		"'bob' rejected your invite to 'Acme'.", CategoryInviteRejected).Return(nil)

	err := dispatcher.Handle(membership.NewInviteRejectedEvent(5, 1, "Acme", 10, 20))

	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestDispatcher_JoinRequestCreated(t *testing.T) {
	dispatcher, notifier, directory := setupDispatcher()

	directory.On("FindByID", mock.Anything, int64(20)).
		Return(&outbound.UserInfo{ID: 20, Username: "bob"}, nil)
	notifier.On("Record", mock.Anything, int64(10),
		"'bob' requested to join 'Acme'.", CategoryJoinRequestReceived).Return(nil)

	err := dispatcher.Handle(membership.NewJoinRequestCreatedEvent(9, 1, "Acme", 10, 20))

	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestDispatcher_JoinRequestApproved(t *testing.T) {
	dispatcher, notifier, directory := setupDispatcher()

	notifier.On("Record", mock.Anything, int64(20),
		"Your request to join 'Acme' was approved.", CategoryJoinRequestApproved).Return(nil)

	err := dispatcher.Handle(membership.NewJoinRequestApprovedEvent(9, 1, "Acme", 20))

	require.NoError(t, err)
	notifier.AssertExpectations(t)
	directory.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestDispatcher_JoinRequestRejected(t *testing.T) {
	dispatcher, notifier, _ := setupDispatcher()

	notifier.On("Record", mock.Anything, int64(20),
		"Your request to join 'Acme' was rejected.", CategoryJoinRequestRejected).Return(nil)

	err := dispatcher.Handle(membership.NewJoinRequestRejectedEvent(9, 1, "Acme", 20))

	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestDispatcher_RecordFailureReturnsError(t *testing.T) {
	dispatcher, notifier, _ := setupDispatcher()

	notifier.On("Record", mock.Anything, int64(20), mock.Anything, mock.Anything).
		Return(errors.New("store down"))

	err := dispatcher.Handle(membership.NewJoinRequestApprovedEvent(9, 1, "Acme", 20))

	assert.Error(t, err)
}
