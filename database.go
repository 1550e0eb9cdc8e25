package mongolite

import (
	"github.com/hvuhsg/mongolite/internal/exec"
)

// Database is a named grouping of collections within a Client (spec §6).
// It has no state of its own beyond its name — every operation is
// forwarded to the client's execution engine.
type Database struct {
	client *Client
	name   string
}

// Name returns the database's name.
func (db *Database) Name() string {
	return db.name
}

// Collection returns a handle onto a collection, validating name against
// the same rules MongoDB itself enforces (spec §6's ADDITIONS). The
// collection is created lazily on first write.
func (db *Database) Collection(name string) (*Collection, error) {
	if err := validateCollectionName(name); err != nil {
		return nil, err
	}
	return &Collection{db: db, name: name}, nil
}

// CreateCollection eagerly creates collection name, returning whether it
// was newly created.
func (db *Database) CreateCollection(name string) (bool, error) {
	if err := validateCollectionName(name); err != nil {
		return false, err
	}
	result, err := db.client.engine.Execute(exec.Command{
		Op:             exec.OpCreateCollection,
		DatabaseName:   db.name,
		CollectionName: name,
	})
	if err != nil {
		return false, err
	}
	created, _ := result.(bool)
	return created, nil
}

// DropCollection removes collection name, returning whether it existed.
func (db *Database) DropCollection(name string) (bool, error) {
	result, err := db.client.engine.Execute(exec.Command{
		Op:             exec.OpDropCollection,
		DatabaseName:   db.name,
		CollectionName: name,
	})
	if err != nil {
		return false, err
	}
	dropped, _ := result.(bool)
	return dropped, nil
}

// ListCollectionNames returns every collection currently stored under db.
func (db *Database) ListCollectionNames() ([]string, error) {
	result, err := db.client.engine.Execute(exec.Command{
		Op:           exec.OpListCollections,
		DatabaseName: db.name,
	})
	if err != nil {
		return nil, err
	}
	names, _ := result.([]string)
	return names, nil
}
