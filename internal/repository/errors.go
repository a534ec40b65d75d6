package repository

import "errors"

// Common repository errors
var (
	// ErrVoteNotFound is returned when removing a vote that does not exist
	ErrVoteNotFound = errors.New("vote not found")

	// ErrInviteInvalid is returned for any unacceptable invite: unknown token,
	// expired, already accepted, or email mismatch. The cases are deliberately
	// not distinguished to the caller.
	ErrInviteInvalid = errors.New("invalid or expired invite")

	// ErrAlreadyFollowing is returned when following a project twice
	ErrAlreadyFollowing = errors.New("already following this project")

	// ErrNotFollowing is returned when unfollowing a project that is not followed
	ErrNotFollowing = errors.New("not following this project")

	// ErrAlreadyLiked is returned when liking a target twice
	ErrAlreadyLiked = errors.New("already liked")

	// ErrLikeNotFound is returned when removing a like that does not exist
	ErrLikeNotFound = errors.New("like not found")
)
