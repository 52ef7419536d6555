package membership

import "errors"

var (
	// ErrDuplicateMembership is returned when adding a membership that
	// already exists and is active.
	ErrDuplicateMembership = errors.New("membership already exists")

	// ErrNotAMember is returned when no active membership exists for the
	// requested (user, tenant) pair.
	ErrNotAMember = errors.New("not a member of tenant")

	// ErrInvalidMembership is returned when a membership has a zero user or
	// tenant id, or an unknown role.
	ErrInvalidMembership = errors.New("invalid membership")
)
