package storage

import "errors"

// Sentinel errors returned by the storage engine. Callers match with
// errors.Is; a strict-path lookup (error_not_found=true in the original
// Python FilesEngine) returns these, while create-if-exists/drop-if-absent
// variants are silent idempotent no-ops instead (spec §4.2).
var (
	ErrDatabaseNotFound   = errors.New("mongolite/storage: database not found")
	ErrCollectionNotFound = errors.New("mongolite/storage: collection not found")
)
