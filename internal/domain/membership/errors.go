package membership

import "errors"

// Domain errors for the membership module.
var (
	// Lookup errors
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrInviteNotFound       = errors.New("invite not found")
	ErrJoinRequestNotFound  = errors.New("join request not found")
	ErrInvitedUserNotFound  = errors.New("invited user not found")

	// Permission errors
	ErrNotAuthorized = errors.New("actor is not allowed to perform this operation")

	// Visibility errors
	ErrNotPrivateOrganization = errors.New("organization is not private")
	ErrNotPublicOrganization  = errors.New("organization is not public")

	// Conflict errors
	ErrSelfInvite                = errors.New("cannot invite yourself")
	ErrAlreadyMember             = errors.New("user is already a member")
	ErrInviteAlreadyPending      = errors.New("invite already pending for this user")
	ErrJoinRequestAlreadyPending = errors.New("join request already pending for this user")
	ErrInviteNotProcessable      = errors.New("invite has already been processed")
	ErrJoinRequestNotProcessable = errors.New("join request has already been processed")

	// Validation errors
	ErrInvalidRequest = errors.New("invalid request")
)
