package services

import "errors"

// Domain failure kinds. Services return these (possibly wrapped) and
// handlers translate them to HTTP statuses at the transport boundary.
var (
	// ErrInvalidCredential covers malformed, unverifiable and expired
	// bearer tokens.
	ErrInvalidCredential = errors.New("invalid or expired token")

	// ErrUserNotFound means a valid token names a user that no longer
	// exists. Callers must treat it as an authentication failure.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is the uniform login failure. Unknown
	// identifier and wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateRegistration means the email or username is taken.
	ErrDuplicateRegistration = errors.New("email or username already registered")

	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrNotOwner is only reachable once the playlist is known to exist.
	ErrNotOwner = errors.New("not the owner of this playlist")

	ErrTrackNotFound        = errors.New("track not found")
	ErrAssociationNotFound  = errors.New("track not in playlist")
	ErrDuplicateAssociation = errors.New("track already in playlist")

	// ErrForbidden means a non-administrator attempted an admin action.
	ErrForbidden = errors.New("administrator privileges required")
)
