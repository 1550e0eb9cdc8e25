package exec

import "errors"

// Sentinel errors returned by command execution (spec §7).
var (
	ErrDatabaseIsRequired   = errors.New("exec: database name is required")
	ErrCollectionIsRequired = errors.New("exec: collection name is required")
	ErrUnknownCommand       = errors.New("exec: unknown command")
)
