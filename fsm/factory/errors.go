package factory

import "errors"

// Predefined error types.
var (
	ErrNameRequired        = errors.New("machine name is required")
	ErrInitialRequired     = errors.New("initial state is required")
	ErrStateRequired       = errors.New("at least one state is required")
	ErrStateNameRequired   = errors.New("state name is required")
	ErrDuplicateState      = errors.New("duplicate state name")
	ErrUnknownState        = errors.New("unknown state")
	ErrExternalNameMissing = errors.New("external name is required")
	ErrDuplicateExternal   = errors.New("duplicate external name")
	ErrUnknownType         = errors.New("unknown external type")
	ErrBadInitialValue     = errors.New("initial value does not match type")
	ErrUnknownPredicate    = errors.New("unknown predicate")
	ErrUnknownHook         = errors.New("unknown hook")
)
