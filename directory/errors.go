package directory

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated      = errors.New("no active session")
	ErrCannotFriendSelf     = errors.New("cannot send a friend request to yourself")
	ErrAlreadyFriends       = errors.New("already friends")
	ErrRequestAlreadyExists = errors.New("friend request already exists")
	ErrRequestNotFound      = errors.New("friend request not found")
	ErrUserNotFound         = errors.New("user not found")
)

// IsConflict reports whether err is a validation conflict: the operation
// was well-formed but the relationship state forbids it.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyFriends) ||
		errors.Is(err, ErrRequestAlreadyExists) ||
		errors.Is(err, ErrCannotFriendSelf)
}

// RemoteError wraps a failure from the store or a stored procedure. The
// underlying message is passed through unchanged.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func remoteErr(op string, err error) error {
	return &RemoteError{Op: op, Err: err}
}
