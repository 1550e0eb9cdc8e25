// Package mongolite is an embedded, single-process document database
// with a MongoDB-flavoured query language: filters, projections, and
// update operators over JSON documents stored in per-collection
// append-only log files. There is no network layer, no multi-process
// coordination, and no compaction — see the package-level Non-goals in
// the design notes shipped alongside this module.
package mongolite

import "errors"

// Sentinel errors returned by client, database, and collection methods.
var (
	// ErrMissingDatabaseName is returned by Client.Database and
	// Client.DropDatabase when no name is given and the client was opened
	// without a default database.
	ErrMissingDatabaseName = errors.New("mongolite: no database name given and no default database configured")

	// ErrDatabaseIsRequired mirrors the execution engine's own
	// requirement that every command name a database.
	ErrDatabaseIsRequired = errors.New("mongolite: database name is required")

	// ErrCollectionIsRequired mirrors the execution engine's own
	// requirement that every collection-level command name a collection.
	ErrCollectionIsRequired = errors.New("mongolite: collection name is required")

	// ErrInvalidName is returned when a collection name fails the naming
	// rules enforced by validateCollectionName.
	ErrInvalidName = errors.New("mongolite: invalid name")

	// ErrClosed is returned by Client.Database and Client.DropDatabase
	// once Client.Close has been called. Database and Collection handles
	// obtained before Close are not checked and keep executing commands.
	ErrClosed = errors.New("mongolite: client is closed")

	// ErrIndexMustBeSingleField is returned by CreateIndex when the given
	// index description does not name exactly one field.
	ErrIndexMustBeSingleField = errors.New("mongolite: index must describe exactly one field")
)
