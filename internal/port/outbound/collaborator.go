package outbound

import (
	"context"
	"errors"
)

// Collaborator errors shared by all external service ports.
var (
	// ErrUnauthorized means the collaborator rejected the credential.
	ErrUnauthorized = errors.New("credential rejected")

	// ErrUserNotFound means the directory has no such user.
	ErrUserNotFound = errors.New("user not found")

	// ErrCollaboratorUnavailable means the collaborator could not be reached,
	// timed out, or answered with an unexpected status.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
)

// UserInfo represents minimal user information from the directory.
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// IdentityResolverPort resolves an opaque credential to a user identity.
type IdentityResolverPort interface {
	// Validate resolves the credential, returning ErrUnauthorized if it is
	// invalid and ErrCollaboratorUnavailable if the resolver cannot be reached.
	Validate(ctx context.Context, credential string) (int64, error)
}

// DirectoryPort looks up users in the external directory.
type DirectoryPort interface {
	// FindByUsername retrieves a user by username.
	FindByUsername(ctx context.Context, username string) (*UserInfo, error)

	// FindByID retrieves a user by ID.
	FindByID(ctx context.Context, id int64) (*UserInfo, error)
}

// NotificationPort records human-readable notifications with the external
// notification store. Callers treat delivery as best-effort.
type NotificationPort interface {
	// Record stores a notification for the target user.
	Record(ctx context.Context, targetUserID int64, message, category string) error
}
