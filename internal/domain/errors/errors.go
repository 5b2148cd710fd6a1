package errors

import (
	"errors"
	"fmt"
)

// Kind sentinels. Handlers map these to HTTP status; use cases return either
// a kind directly or one of the specific sentinels below, which wrap a kind
// so errors.Is keeps working.
var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrDependency       = errors.New("dependency failure")
)

// ErrNotifyFailed marks the partial-failure result: the state change is
// committed but the notification dispatch failed. Callers decide whether the
// overall operation still counts as a success.
var ErrNotifyFailed = fmt.Errorf("%w: notification dispatch failed", ErrDependency)

// Credential errors. A missing credential is distinct from an invalid one,
// though both are unauthenticated to the outside.
var (
	ErrNoCredential       = fmt.Errorf("%w: no credential provided", ErrUnauthenticated)
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired token", ErrUnauthenticated)
	ErrTokenRevoked       = fmt.Errorf("%w: token has been revoked", ErrUnauthenticated)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", ErrUnauthenticated)
)

var (
	ErrUserNotFound    = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrProjectNotFound = fmt.Errorf("%w: project not found", ErrNotFound)
	ErrTicketNotFound  = fmt.Errorf("%w: ticket not found", ErrNotFound)
	ErrCommentNotFound = fmt.Errorf("%w: comment not found", ErrNotFound)
	ErrRequestNotFound = fmt.Errorf("%w: role change request not found", ErrNotFound)
	ErrFileNotFound    = fmt.Errorf("%w: file not found", ErrNotFound)
)

var (
	ErrUserExists      = fmt.Errorf("%w: username or email already taken", ErrConflict)
	ErrProjectExists   = fmt.Errorf("%w: project with this name already exists", ErrConflict)
	ErrAlreadyMember   = fmt.Errorf("%w: user is already a member of the project", ErrConflict)
	ErrAlreadyAssigned = fmt.Errorf("%w: user is already assigned to the ticket", ErrConflict)
	ErrRequestPending  = fmt.Errorf("%w: a role change request is already pending", ErrConflict)
)

var (
	ErrNotAMember = fmt.Errorf("%w: user is not a member of the project", ErrForbidden)
	ErrNotOwner   = fmt.Errorf("%w: user does not own this project", ErrForbidden)
	ErrAdminOnly  = fmt.Errorf("%w: action requires the ADMIN role", ErrForbidden)
	ErrNotAuthor  = fmt.Errorf("%w: only the author may do this", ErrForbidden)
)

var (
	ErrTargetNotMember = fmt.Errorf("%w: target user is not a member of the project", ErrInvalidOperation)
	ErrRemoveOwner     = fmt.Errorf("%w: project owner cannot be removed; transfer ownership first", ErrInvalidOperation)
	ErrNotAssigned     = fmt.Errorf("%w: user has not been assigned this ticket", ErrInvalidOperation)
	ErrSameRole        = fmt.Errorf("%w: user already has this role", ErrInvalidOperation)
	ErrOwnsProjects    = fmt.Errorf("%w: user still owns projects; transfer or delete them first", ErrInvalidOperation)
	ErrAdminProtected  = fmt.Errorf("%w: an admin account cannot be altered through this path", ErrInvalidOperation)
)

// Kind returns the taxonomy sentinel err belongs to, or nil for unknown
// (internal) errors.
func Kind(err error) error {
	for _, k := range []error{
		ErrUnauthenticated,
		ErrForbidden,
		ErrNotFound,
		ErrConflict,
		ErrInvalidOperation,
		ErrDependency,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
