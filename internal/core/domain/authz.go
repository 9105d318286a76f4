package domain

import "errors"

// Authorization denial reasons. They map to the same HTTP status but carry
// distinct messages so a caller can tell a role failure from an ownership
// failure from the self-protection rule.
var (
	ErrForbiddenRole = errors.New("role not permitted for this action")
	ErrNotOwner      = errors.New("caller does not own the target")
	ErrSelfAction    = errors.New("cannot perform this action on own account")
)
